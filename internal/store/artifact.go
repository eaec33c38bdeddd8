package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

// FlashcardStore persists generated flashcard sets.
type FlashcardStore interface {
	// CreateSet creates the set row and its card rows in one transaction.
	// Cards are written in slice order with contiguous positions starting
	// at 0. Returns the new set's id.
	CreateSet(ctx context.Context, draft *domain.FlashcardSetDraft) (uuid.UUID, error)
}

// QuizStore persists generated quizzes.
type QuizStore interface {
	// CreateQuiz creates the quiz row and its question rows in one
	// transaction. Questions are written in slice order with contiguous
	// positions starting at 0. Returns the new quiz's id.
	CreateQuiz(ctx context.Context, draft *domain.QuizDraft) (uuid.UUID, error)
}
