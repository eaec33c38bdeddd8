// Package extract turns a job's source reference into plain text.
// Each reference kind (plain HTTP, Dropbox share link, R2 object key)
// has its own strategy; a Registry dispatches on the kind tag.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

// Common errors returned by extraction strategies.
var (
	// ErrExtraction is the base error for all extraction failures:
	// unreachable source, unauthorized access, malformed content, or an
	// empty result. Extraction failures are permanent from the worker's
	// point of view — the job fails.
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnsupportedKind is returned when no strategy is registered for
	// a reference's kind.
	ErrUnsupportedKind = fmt.Errorf("%w: unsupported reference kind", ErrExtraction)

	// ErrEmptyDocument is returned when the source yields no text.
	ErrEmptyDocument = fmt.Errorf("%w: document contains no text", ErrExtraction)
)

// Extractor produces plain text from a source reference.
type Extractor interface {
	Extract(ctx context.Context, ref domain.SourceRef) (string, error)
}

// Registry dispatches extraction to the strategy registered for the
// reference's kind.
type Registry struct {
	strategies map[domain.RefKind]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[domain.RefKind]Extractor)}
}

// Register associates a strategy with a reference kind, replacing any
// previous registration.
func (r *Registry) Register(kind domain.RefKind, e Extractor) {
	r.strategies[kind] = e
}

// Extract dispatches to the strategy for ref's kind.
func (r *Registry) Extract(ctx context.Context, ref domain.SourceRef) (string, error) {
	e, ok := r.strategies[ref.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, ref.Kind)
	}
	return e.Extract(ctx, ref)
}
