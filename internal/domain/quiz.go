package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Quiz-specific validation errors.
var (
	ErrEmptyQuizTitle      = errors.New("quiz title cannot be empty")
	ErrNoQuestions         = errors.New("quiz must contain at least one question")
	ErrEmptyQuestionPrompt = errors.New("question prompt cannot be empty")
	ErrTooFewOptions       = errors.New("question must offer at least two options")
	ErrAnswerOutOfRange    = errors.New("answer index out of range")
)

// Quiz is the artifact produced by a completed quiz job.
type Quiz struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizQuestion is a single multiple-choice question within a quiz.
// Position records the question's index in generation order, starting at 0.
type QuizQuestion struct {
	ID          uuid.UUID `json:"id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	Prompt      string    `json:"prompt"`
	Options     []string  `json:"options"`
	AnswerIndex int       `json:"answer_index"`
	Explanation string    `json:"explanation,omitempty"`
	Position    int       `json:"position"`
}

// QuestionDraft is a question as returned by the generation strategy.
type QuestionDraft struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// Validate checks that the draft represents an answerable question.
func (d QuestionDraft) Validate() error {
	if d.Prompt == "" {
		return ErrEmptyQuestionPrompt
	}
	if len(d.Options) < 2 {
		return ErrTooFewOptions
	}
	if d.AnswerIndex < 0 || d.AnswerIndex >= len(d.Options) {
		return fmt.Errorf("%w: index %d with %d options", ErrAnswerOutOfRange,
			d.AnswerIndex, len(d.Options))
	}
	return nil
}

// QuizDraft is the full payload returned by the generation strategy for
// a quiz job.
type QuizDraft struct {
	Title     string          `json:"title"`
	Questions []QuestionDraft `json:"questions"`
}

// Validate checks that the draft represents a well-formed quiz.
func (d *QuizDraft) Validate() error {
	if d.Title == "" {
		return ErrEmptyQuizTitle
	}
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}
	for _, q := range d.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}
