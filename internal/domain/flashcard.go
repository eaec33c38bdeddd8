package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Flashcard-specific validation errors.
var (
	ErrEmptySetTitle  = errors.New("flashcard set title cannot be empty")
	ErrNoCards        = errors.New("flashcard set must contain at least one card")
	ErrEmptyCardFront = errors.New("flashcard front cannot be empty")
	ErrEmptyCardBack  = errors.New("flashcard back cannot be empty")
)

// FlashcardSet is the artifact produced by a completed flashcard job.
type FlashcardSet struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Flashcard is a single card within a set. Position records the card's
// index in generation order, starting at 0.
type Flashcard struct {
	ID       uuid.UUID `json:"id"`
	SetID    uuid.UUID `json:"set_id"`
	Front    string    `json:"front"`
	Back     string    `json:"back"`
	Position int       `json:"position"`
}

// FlashcardDraft is a card as returned by the generation strategy,
// before it has been assigned an ID and persisted.
type FlashcardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Validate checks that the draft carries usable content.
func (d FlashcardDraft) Validate() error {
	if d.Front == "" {
		return ErrEmptyCardFront
	}
	if d.Back == "" {
		return ErrEmptyCardBack
	}
	return nil
}

// FlashcardSetDraft is the full payload returned by the generation
// strategy for a flashcard job.
type FlashcardSetDraft struct {
	Title string           `json:"title"`
	Cards []FlashcardDraft `json:"cards"`
}

// Validate checks that the draft represents a well-formed set.
func (d *FlashcardSetDraft) Validate() error {
	if d.Title == "" {
		return ErrEmptySetTitle
	}
	if len(d.Cards) == 0 {
		return ErrNoCards
	}
	for _, c := range d.Cards {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
