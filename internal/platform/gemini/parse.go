package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/generation"
)

// parseFlashcardResponse validates raw model output and maps it to a
// flashcard set draft.
func parseFlashcardResponse(
	validator *schemaValidator,
	raw []byte,
) (*domain.FlashcardSetDraft, error) {
	if err := validator.Validate(raw); err != nil {
		return nil, err
	}

	var draft domain.FlashcardSetDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	// Schema validation already enforces shape; this catches domain
	// rules the schema cannot express.
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return &draft, nil
}

// parseQuizResponse validates raw model output and maps it to a quiz draft.
func parseQuizResponse(
	validator *schemaValidator,
	raw []byte,
) (*domain.QuizDraft, error) {
	if err := validator.Validate(raw); err != nil {
		return nil, err
	}

	var draft domain.QuizDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return &draft, nil
}
