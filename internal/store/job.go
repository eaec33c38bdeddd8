package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

// JobStore provides access to one job table (flashcard jobs or quiz
// jobs — the two are structurally identical, so a single interface
// covers both).
type JobStore interface {
	// FetchPending returns up to limit jobs in pending status, ordered
	// by creation time ascending (oldest first).
	FetchPending(ctx context.Context, limit int) ([]*domain.Job, error)

	// MarkProcessing transitions the job to processing status. The update
	// is conditional on the job still being pending; if it is not,
	// ErrAlreadyClaimed is returned and the caller must not process the job.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkDone transitions the job to done status and records the id of
	// the created artifact.
	MarkDone(ctx context.Context, id, resultID uuid.UUID) error

	// MarkFailed transitions the job to failed status and records a
	// human-readable failure description.
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}
