// Package publish seals plaintext for an identity pair and writes the blob
// where a static file server can pick it up.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/saylorsolutions/sealdrop/pkg/locator"
	"github.com/saylorsolutions/sealdrop/pkg/sealbox"
)

// ErrExists indicates that the target blob is already published and
// overwriting was not requested.
var ErrExists = errors.New("blob already exists")

// Drop describes one published blob.
type Drop struct {
	// Locator is the resolved file name the blob was published under.
	Locator string
	// Path is where the blob was written.
	Path string

	index       string
	id          string
	outputDir   string
	force       bool
	writeParams bool
}

// Option operates on a Drop in a standard and predictable way, and is used in
// Publish. If any Option returns an error, then publishing ceases and the
// error is returned.
type Option = func(drop *Drop) error

// OutputDir sets the directory blobs are written to, creating it as needed.
// Defaults to the current directory.
func OutputDir(dir string) Option {
	dir = strings.TrimSpace(dir)
	return func(drop *Drop) error {
		if len(dir) == 0 {
			return nil
		}
		drop.outputDir = dir
		return nil
	}
}

// Force indicates that an already published blob should be overwritten.
func Force(val ...bool) Option {
	return func(drop *Drop) error {
		if len(val) > 0 {
			drop.force = val[0]
			return nil
		}
		drop.force = true
		return nil
	}
}

// WithParams indicates that the parameter descriptor should be written next
// to the blob, so clients can check for contract skew before fetching.
func WithParams(val ...bool) Option {
	return func(drop *Drop) error {
		if len(val) > 0 {
			drop.writeParams = val[0]
			return nil
		}
		drop.writeParams = true
		return nil
	}
}

// Publish seals plaintext under the key derived from the identity pair and
// writes the blob to its resolved locator name. Various publishing options
// may be passed as zero or more Option.
func Publish(index, id string, plaintext []byte, opts ...Option) (*Drop, error) {
	drop := &Drop{
		index:     index,
		id:        id,
		outputDir: ".",
	}
	if len(index) == 0 {
		return nil, errors.New("cannot publish without an index")
	}
	if len(id) == 0 {
		return nil, errors.New("cannot publish without an id")
	}

	for _, opt := range opts {
		if err := opt(drop); err != nil {
			return nil, err
		}
	}

	drop.Locator = locator.Resolve(drop.index, drop.id)
	drop.Path = filepath.Join(drop.outputDir, drop.Locator)

	key := sealbox.DeriveKey(drop.id, drop.index)
	blob, err := sealbox.Seal(key, plaintext)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(drop.outputDir, 0755); err != nil {
		return nil, err
	}
	if !drop.force {
		if _, err := os.Stat(drop.Path); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrExists, drop.Path)
		}
	}
	if err := writeFile(drop.Path, blob); err != nil {
		return nil, err
	}
	if drop.writeParams {
		if err := writeParamsFile(drop.outputDir); err != nil {
			return nil, err
		}
	}
	return drop, nil
}

func writeFile(path string, data []byte) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()
	if _, err := out.Write(data); err != nil {
		return err
	}
	return nil
}

func writeParamsFile(dir string) error {
	out, err := os.Create(filepath.Join(dir, sealbox.ParamsName))
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()
	params := sealbox.CurrentParams()
	return params.Write(out)
}
