package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/platform/logger"
	"github.com/devKanyanta/sambilila-worker/internal/store"
)

// FlashcardStore implements store.FlashcardStore using PostgreSQL.
// It needs a *sql.DB rather than store.DBTX because set creation opens
// its own transaction.
type FlashcardStore struct {
	db *sql.DB
}

// NewFlashcardStore creates a new FlashcardStore.
func NewFlashcardStore(db *sql.DB) *FlashcardStore {
	return &FlashcardStore{db: db}
}

// CreateSet persists the set row and all card rows in one transaction.
// Card positions follow generation order, starting at 0.
func (s *FlashcardStore) CreateSet(
	ctx context.Context,
	draft *domain.FlashcardSetDraft,
) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	if err := draft.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid flashcard set draft: %w", err)
	}

	setID := uuid.New()
	now := time.Now().UTC()

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO flashcard_sets (id, title, created_at) VALUES ($1, $2, $3)`,
			setID, draft.Title, now)
		if err != nil {
			return fmt.Errorf("failed to insert flashcard set: %w", err)
		}

		const cardQuery = `
			INSERT INTO flashcards (id, set_id, front, back, position)
			VALUES ($1, $2, $3, $4, $5)
		`
		for i, card := range draft.Cards {
			if _, err := tx.ExecContext(ctx, cardQuery,
				uuid.New(), setID, card.Front, card.Back, i); err != nil {
				return fmt.Errorf("failed to insert flashcard at position %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create flashcard set",
			"title", draft.Title,
			"card_count", len(draft.Cards),
			"error", err)
		return uuid.Nil, err
	}

	return setID, nil
}
