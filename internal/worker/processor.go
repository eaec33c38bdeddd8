package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/redact"
	"github.com/devKanyanta/sambilila-worker/internal/retry"
	"github.com/devKanyanta/sambilila-worker/internal/store"
)

// maxErrorMessageLength bounds the failure description persisted on a
// job; anything longer is truncated.
const maxErrorMessageLength = 500

// Extractor resolves a source reference to plain text. Satisfied by
// extract.Registry.
type Extractor interface {
	Extract(ctx context.Context, ref domain.SourceRef) (string, error)
}

// Processor drives a single job from claim to terminal state. All
// persistence calls go through the retry policy so that transient
// connection exhaustion never fails a job outright.
type Processor struct {
	kind    Kind
	sources Extractor
	retry   retry.Policy
	logger  *slog.Logger
}

// NewProcessor creates a Processor for one job kind.
func NewProcessor(
	kind Kind,
	sources Extractor,
	retryPolicy retry.Policy,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		kind:    kind,
		sources: sources,
		retry:   retryPolicy,
		logger:  logger.With("job_kind", kind.Name),
	}
}

// KindName returns the name of the job kind this processor handles.
func (p *Processor) KindName() string {
	return p.kind.Name
}

// FetchBatch returns up to limit pending jobs for this processor's kind,
// oldest first, going through the retry policy.
func (p *Processor) FetchBatch(ctx context.Context, limit int) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := p.retry.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		jobs, fetchErr = p.kind.Jobs.FetchPending(ctx, limit)
		return fetchErr
	})
	return jobs, err
}

// Process runs the full state machine for one job. It never returns an
// error: every failure is handled at this boundary, converted to a
// terminal failed status where possible, and logged otherwise.
func (p *Processor) Process(ctx context.Context, job *domain.Job) {
	log := p.logger.With("job_id", job.ID)

	// Claim. The conditional update in the store means a zero-row result
	// is another claimant, not a failure.
	err := p.retry.Do(ctx, func(ctx context.Context) error {
		return p.kind.Jobs.MarkProcessing(ctx, job.ID)
	})
	if errors.Is(err, store.ErrAlreadyClaimed) {
		log.Debug("job no longer pending, skipping")
		return
	}
	if err != nil {
		// The job was never claimed, so it stays pending and a later poll
		// cycle picks it up again.
		log.Error("failed to claim job", "error", err)
		return
	}

	log.Info("processing job")

	resultID, err := p.run(ctx, job)
	if err != nil {
		p.fail(ctx, log, job, err)
		return
	}

	log.Info("job completed", "result_id", resultID)
}

// run executes the acquire-text, generate, and persist steps, returning
// the created artifact's id.
func (p *Processor) run(ctx context.Context, job *domain.Job) (uuid.UUID, error) {
	text, err := p.acquireText(ctx, job)
	if err != nil {
		return uuid.Nil, err
	}

	text = strings.TrimSpace(text)
	if len(text) < domain.MinSourceTextLength {
		return uuid.Nil, fmt.Errorf("%w: got %d characters, minimum is %d",
			domain.ErrInsufficientContent, len(text), domain.MinSourceTextLength)
	}

	artifact, err := p.kind.Generate(ctx, text, job.Params)
	if err != nil {
		return uuid.Nil, err
	}

	var resultID uuid.UUID
	err = p.retry.Do(ctx, func(ctx context.Context) error {
		var saveErr error
		resultID, saveErr = p.kind.Save(ctx, artifact)
		return saveErr
	})
	if err != nil {
		return uuid.Nil, err
	}

	err = p.retry.Do(ctx, func(ctx context.Context) error {
		return p.kind.Jobs.MarkDone(ctx, job.ID, resultID)
	})
	if err != nil {
		// The artifact exists but the job row still says processing; a
		// reconciliation sweep outside this worker has to repair it.
		return uuid.Nil, fmt.Errorf("artifact %s created but job not marked done: %w",
			resultID, err)
	}

	return resultID, nil
}

// acquireText resolves the job's input to study text. A malformed source
// reference fails before any extraction is attempted.
func (p *Processor) acquireText(ctx context.Context, job *domain.Job) (string, error) {
	if job.SourceRef == nil {
		return job.SourceText, nil
	}

	// References arrive from an external submitter; re-validate rather
	// than trusting the stored tag.
	ref, err := domain.ParseSourceRef(job.SourceRef.Location)
	if err != nil {
		return "", err
	}

	return p.sources.Extract(ctx, ref)
}

// fail writes the terminal failed status, best-effort. The failure
// write itself goes through the retry policy; if it still fails, the
// job is left orphaned in processing and the error is logged.
func (p *Processor) fail(ctx context.Context, log *slog.Logger, job *domain.Job, cause error) {
	msg := redact.Error(cause)
	if len(msg) > maxErrorMessageLength {
		msg = msg[:maxErrorMessageLength]
	}

	writeErr := p.retry.Do(ctx, func(ctx context.Context) error {
		return p.kind.Jobs.MarkFailed(ctx, job.ID, msg)
	})
	if writeErr != nil {
		log.Error("failed to record job failure, job left in processing",
			"write_error", writeErr,
			"error", cause)
		return
	}

	log.Warn("job failed", "error", cause)
}
