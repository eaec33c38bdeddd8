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

// QuizStore implements store.QuizStore using PostgreSQL.
type QuizStore struct {
	db *sql.DB
}

// NewQuizStore creates a new QuizStore.
func NewQuizStore(db *sql.DB) *QuizStore {
	return &QuizStore{db: db}
}

// CreateQuiz persists the quiz row and all question rows in one
// transaction. Question positions follow generation order, starting at 0.
func (s *QuizStore) CreateQuiz(
	ctx context.Context,
	draft *domain.QuizDraft,
) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	if err := draft.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid quiz draft: %w", err)
	}

	quizID := uuid.New()
	now := time.Now().UTC()

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quizzes (id, title, created_at) VALUES ($1, $2, $3)`,
			quizID, draft.Title, now)
		if err != nil {
			return fmt.Errorf("failed to insert quiz: %w", err)
		}

		const questionQuery = `
			INSERT INTO quiz_questions (id, quiz_id, prompt, options, answer_index, explanation, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for i, q := range draft.Questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("failed to encode options at position %d: %w", i, err)
			}
			if _, err := tx.ExecContext(ctx, questionQuery,
				uuid.New(), quizID, q.Prompt, options, q.AnswerIndex, q.Explanation, i); err != nil {
				return fmt.Errorf("failed to insert question at position %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create quiz",
			"title", draft.Title,
			"question_count", len(draft.Questions),
			"error", err)
		return uuid.Nil, err
	}

	return quizID, nil
}
