package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a job.
type JobStatus string

// Possible job status values. Done and failed are terminal: once a job
// reaches either, this worker never revisits it.
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Common validation errors for Job.
var (
	ErrEmptyJobID     = errors.New("job ID cannot be empty")
	ErrNoJobSource    = errors.New("job must carry either source text or a source reference")
	ErrAmbiguousInput = errors.New("job cannot carry both source text and a source reference")
	ErrInvalidStatus  = errors.New("invalid job status")
)

// MinSourceTextLength is the minimum number of characters a job's source
// text must have for artifact generation to be attempted.
const MinSourceTextLength = 50

// Job represents one unit of study-material processing: a request to turn
// raw text or a referenced document into a flashcard set or a quiz.
// Exactly one of SourceText and SourceRef is populated.
type Job struct {
	ID           uuid.UUID       `json:"id"`
	Status       JobStatus       `json:"status"`
	SourceText   string          `json:"source_text,omitempty"`
	SourceRef    *SourceRef      `json:"source_ref,omitempty"`
	Params       json.RawMessage `json:"params"`
	ResultID     *uuid.UUID      `json:"result_id,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate checks the structural invariants of a Job.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}
	hasText := j.SourceText != ""
	hasRef := j.SourceRef != nil
	if !hasText && !hasRef {
		return ErrNoJobSource
	}
	if hasText && hasRef {
		return ErrAmbiguousInput
	}
	if !isValidJobStatus(j.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}

func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusProcessing, JobStatusDone, JobStatusFailed:
		return true
	default:
		return false
	}
}
