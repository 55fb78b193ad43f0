// Package pipeline runs the resolve, fetch, derive, open sequence that turns
// an identity pair into classified plaintext content.
//
// The pipeline owns no transport: bytes come from a caller-supplied Fetcher.
// Locator resolution and key derivation have no data dependency on each other
// and run concurrently; decryption starts only once both are done. Failures
// are surfaced exactly as raised, with no retries and no partial results, so
// a caller can match them against the sealbox and fetch error kinds.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saylorsolutions/sealdrop/pkg/locator"
	"github.com/saylorsolutions/sealdrop/pkg/sealbox"
)

// Identity is the identifier pair a resource was published under. The pair is
// used exactly as given; registration shape is the publisher's business.
type Identity struct {
	Index string
	ID    string
}

// Fetcher retrieves the raw bytes of a named published resource. A fetch
// should honor ctx and fail with a status-carrying error on non-success.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Runner executes runs against one fetch capability.
type Runner struct {
	fetcher Fetcher
	log     *slog.Logger
}

type Option = func(*Runner) error

// WithLogger attaches a logger for per-step events: step name, byte counts,
// durations. Events never include identity values or key material. Without
// this option the Runner is silent.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) error {
		if log == nil {
			return errors.New("cannot use a nil logger")
		}
		r.log = log
		return nil
	}
}

// New creates a Runner that fetches through fetcher.
func New(fetcher Fetcher, opts ...Option) (*Runner, error) {
	if fetcher == nil {
		return nil, errors.New("cannot create a runner without a fetcher")
	}
	r := &Runner{
		fetcher: fetcher,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run resolves the identity's locator, fetches its blob while the key is
// being derived, then opens and classifies the plaintext. The first failing
// step aborts the run and its error is returned unchanged. There is no
// internal timeout; ctx and the Fetcher's own limits govern.
func (r *Runner) Run(ctx context.Context, ident Identity) (Content, error) {
	var (
		start = time.Now()
		log   = r.log.With("run_id", uuid.NewString())
	)

	name := locator.Resolve(ident.Index, ident.ID)
	log.DebugContext(ctx, "resolved locator", "locator", name)

	var (
		blob []byte
		key  sealbox.Key
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fetchStart := time.Now()
		fetched, err := r.fetcher.Fetch(groupCtx, name)
		if err != nil {
			return err
		}
		blob = fetched
		log.DebugContext(groupCtx, "fetched blob",
			"locator", name,
			"bytes", len(fetched),
			"elapsed", time.Since(fetchStart))
		return nil
	})
	group.Go(func() error {
		deriveStart := time.Now()
		key = sealbox.DeriveKey(ident.ID, ident.Index)
		log.DebugContext(groupCtx, "derived key", "elapsed", time.Since(deriveStart))
		return nil
	})
	if err := group.Wait(); err != nil {
		return Content{}, err
	}

	text, err := sealbox.OpenText(key, blob)
	if err != nil {
		return Content{}, err
	}
	content := Content{Kind: Classify(text), Text: text}
	log.DebugContext(ctx, "run complete",
		"kind", content.Kind,
		"bytes", len(content.Text),
		"elapsed", time.Since(start))
	return content, nil
}
