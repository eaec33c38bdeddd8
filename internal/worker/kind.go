package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/generation"
	"github.com/devKanyanta/sambilila-worker/internal/store"
)

// Artifact is the opaque payload handed from a kind's generate step to
// its save step. The processor never inspects it.
type Artifact any

// GenerateFunc invokes the generation strategy for one job kind.
type GenerateFunc func(ctx context.Context, text string, params json.RawMessage) (Artifact, error)

// SaveFunc persists a generated artifact and returns its id.
type SaveFunc func(ctx context.Context, artifact Artifact) (uuid.UUID, error)

// Kind describes one job type: where its jobs live, how to generate its
// artifact, and how to persist the result. Flashcard and quiz processing
// share all control flow; only these four fields differ.
type Kind struct {
	Name     string
	Jobs     store.JobStore
	Generate GenerateFunc
	Save     SaveFunc
}

// FlashcardKind wires the flashcard job table, generator, and artifact
// store into a Kind.
func FlashcardKind(
	jobs store.JobStore,
	gen generation.FlashcardGenerator,
	artifacts store.FlashcardStore,
) Kind {
	return Kind{
		Name: "flashcard",
		Jobs: jobs,
		Generate: func(ctx context.Context, text string, params json.RawMessage) (Artifact, error) {
			return gen.GenerateFlashcards(ctx, text, params)
		},
		Save: func(ctx context.Context, artifact Artifact) (uuid.UUID, error) {
			return artifacts.CreateSet(ctx, artifact.(*domain.FlashcardSetDraft))
		},
	}
}

// QuizKind wires the quiz job table, generator, and artifact store into
// a Kind.
func QuizKind(
	jobs store.JobStore,
	gen generation.QuizGenerator,
	artifacts store.QuizStore,
) Kind {
	return Kind{
		Name: "quiz",
		Jobs: jobs,
		Generate: func(ctx context.Context, text string, params json.RawMessage) (Artifact, error) {
			return gen.GenerateQuiz(ctx, text, params)
		},
		Save: func(ctx context.Context, artifact Artifact) (uuid.UUID, error) {
			return artifacts.CreateQuiz(ctx, artifact.(*domain.QuizDraft))
		},
	}
}
