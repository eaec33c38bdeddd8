package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/platform/logger"
	"github.com/devKanyanta/sambilila-worker/internal/store"
)

// JobStore implements store.JobStore over one job table. Flashcard and
// quiz jobs share the same core columns, so a single implementation
// parameterized by table name covers both.
type JobStore struct {
	db    store.DBTX
	table string
}

// NewFlashcardJobStore returns a JobStore over the flashcard_jobs table.
func NewFlashcardJobStore(db store.DBTX) *JobStore {
	return &JobStore{db: db, table: "flashcard_jobs"}
}

// NewQuizJobStore returns a JobStore over the quiz_jobs table.
func NewQuizJobStore(db store.DBTX) *JobStore {
	return &JobStore{db: db, table: "quiz_jobs"}
}

// FetchPending returns up to limit pending jobs, oldest first.
func (s *JobStore) FetchPending(ctx context.Context, limit int) ([]*domain.Job, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(`
		SELECT id, status, source_text, source_ref, params, result_id, error_message, created_at, updated_at
		FROM %s
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query, domain.JobStatusPending, limit)
	if err != nil {
		log.Error("failed to query pending jobs", "table", s.table, "error", err)
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			log.Error("failed to scan job row", "table", s.table, "error", err)
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}

// MarkProcessing claims the job with a conditional update. The WHERE
// clause guards on pending status so that two pollers racing on the same
// row cannot both claim it; the loser observes zero affected rows and
// gets ErrAlreadyClaimed.
func (s *JobStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, s.table)

	result, err := s.db.ExecContext(ctx, query,
		domain.JobStatusProcessing, time.Now().UTC(), id, domain.JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrAlreadyClaimed
	}

	return nil
}

// MarkDone records the created artifact and moves the job to its
// terminal success state.
func (s *JobStore) MarkDone(ctx context.Context, id, resultID uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, result_id = $2, error_message = NULL, updated_at = $3
		WHERE id = $4
	`, s.table)

	result, err := s.db.ExecContext(ctx, query,
		domain.JobStatusDone, resultID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark job done: %w", err)
	}
	return requireAffected(result, id)
}

// MarkFailed records the failure description and moves the job to its
// terminal failure state.
func (s *JobStore) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, error_message = $2, result_id = NULL, updated_at = $3
		WHERE id = $4
	`, s.table)

	result, err := s.db.ExecContext(ctx, query,
		domain.JobStatusFailed, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %s", store.ErrJobNotFound, id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.Job, error) {
	var (
		job        domain.Job
		sourceText sql.NullString
		sourceRef  []byte
		resultID   uuid.NullUUID
		errMsg     sql.NullString
	)

	err := row.Scan(
		&job.ID,
		&job.Status,
		&sourceText,
		&sourceRef,
		&job.Params,
		&resultID,
		&errMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	job.SourceText = sourceText.String
	job.ErrorMessage = errMsg.String
	if resultID.Valid {
		id := resultID.UUID
		job.ResultID = &id
	}
	if len(sourceRef) > 0 {
		var ref domain.SourceRef
		if err := json.Unmarshal(sourceRef, &ref); err != nil {
			return nil, fmt.Errorf("malformed source_ref for job %s: %w", job.ID, err)
		}
		job.SourceRef = &ref
	}

	return &job, nil
}
