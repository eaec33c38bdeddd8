package generation

import (
	"context"
	"encoding/json"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

// FlashcardGenerator produces a flashcard set draft from study text.
// params carries job-specific generation parameters (card count,
// difficulty) opaque to the worker core; implementations parse what
// they understand and ignore the rest.
type FlashcardGenerator interface {
	GenerateFlashcards(
		ctx context.Context,
		text string,
		params json.RawMessage,
	) (*domain.FlashcardSetDraft, error)
}

// QuizGenerator produces a quiz draft from study text.
type QuizGenerator interface {
	GenerateQuiz(
		ctx context.Context,
		text string,
		params json.RawMessage,
	) (*domain.QuizDraft, error)
}
