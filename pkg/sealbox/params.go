package sealbox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	bin "github.com/saylorsolutions/binmap"
)

const (
	// ParamsName is the descriptor file a publisher writes beside its blobs.
	ParamsName = "sealdrop.params"

	paramsMagic   uint16 = 0x5EA1
	paramsVersion uint8  = 1

	digestSHA256 uint8 = 1
)

var (
	// ErrBadParams reports a descriptor that could not be decoded.
	ErrBadParams = errors.New("invalid params descriptor")
	// ErrParamsMismatch reports a decoded descriptor that disagrees with the
	// contract compiled into this build.
	ErrParamsMismatch = errors.New("params contract mismatch")
)

// Params is a publisher's record of the derivation and cipher contract it
// sealed blobs under. It is advisory tooling only: DeriveKey and Open always
// use the constants in this package, never values read from a descriptor.
// Its use is catching generator/viewer version skew with a clear message
// instead of a blanket authentication failure.
type Params struct {
	magic      uint16
	version    uint8
	iterations uint32
	keySize    uint8
	nonceSize  uint8
	tagSize    uint8
	digest     uint8
}

// CurrentParams returns the contract compiled into this build.
func CurrentParams() Params {
	return Params{
		magic:      paramsMagic,
		version:    paramsVersion,
		iterations: Iterations,
		keySize:    KeySize,
		nonceSize:  NonceSize,
		tagSize:    TagSize,
		digest:     digestSHA256,
	}
}

func (p *Params) mapper() bin.Mapper {
	return bin.MapSequence(
		bin.Int(&p.magic),
		bin.Byte(&p.version),
		bin.Int(&p.iterations),
		bin.Byte(&p.keySize),
		bin.Byte(&p.nonceSize),
		bin.Byte(&p.tagSize),
		bin.Byte(&p.digest),
	)
}

// Write encodes the descriptor in its big-endian wire form.
func (p Params) Write(w io.Writer) error {
	return p.mapper().Write(w, binary.BigEndian)
}

// ReadParams decodes a descriptor and validates its framing.
func ReadParams(r io.Reader) (Params, error) {
	var p Params
	if err := p.mapper().Read(r, binary.BigEndian); err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrBadParams, err)
	}
	if p.magic != paramsMagic {
		return Params{}, fmt.Errorf("%w: unrecognized magic 0x%04X", ErrBadParams, p.magic)
	}
	return p, nil
}

// Check compares p against the compiled-in contract and reports every field
// that disagrees. A nil result means blobs published under p are openable by
// this build.
func (p Params) Check() error {
	current := CurrentParams()
	var diffs []string
	if p.version != current.version {
		diffs = append(diffs, fmt.Sprintf("descriptor version %d (want %d)", p.version, current.version))
	}
	if p.iterations != current.iterations {
		diffs = append(diffs, fmt.Sprintf("iteration count %d (want %d)", p.iterations, current.iterations))
	}
	if p.keySize != current.keySize {
		diffs = append(diffs, fmt.Sprintf("key size %d (want %d)", p.keySize, current.keySize))
	}
	if p.nonceSize != current.nonceSize {
		diffs = append(diffs, fmt.Sprintf("nonce size %d (want %d)", p.nonceSize, current.nonceSize))
	}
	if p.tagSize != current.tagSize {
		diffs = append(diffs, fmt.Sprintf("tag size %d (want %d)", p.tagSize, current.tagSize))
	}
	if p.digest != current.digest {
		diffs = append(diffs, fmt.Sprintf("digest algorithm %d (want %d)", p.digest, current.digest))
	}
	if len(diffs) > 0 {
		return fmt.Errorf("%w: %s", ErrParamsMismatch, strings.Join(diffs, "; "))
	}
	return nil
}
