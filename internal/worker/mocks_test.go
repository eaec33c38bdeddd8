package worker

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/store"
)

// mockJobStore is an in-memory store.JobStore with per-method error
// queues for fault injection and call counting.
type mockJobStore struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*domain.Job
	order    []uuid.UUID
	messages map[uuid.UUID]string
	results  map[uuid.UUID]uuid.UUID

	fetchGate      chan struct{} // if non-nil, FetchPending blocks on it
	fetchCalls     int
	claimCalls     int
	processingErrs []error
	doneErrs       []error
	failedErrs     []error
}

func newMockJobStore(jobs ...*domain.Job) *mockJobStore {
	m := &mockJobStore{
		jobs:     make(map[uuid.UUID]*domain.Job),
		messages: make(map[uuid.UUID]string),
		results:  make(map[uuid.UUID]uuid.UUID),
	}
	for _, j := range jobs {
		m.jobs[j.ID] = j
		m.order = append(m.order, j.ID)
	}
	return m
}

func popErr(q *[]error) error {
	if len(*q) == 0 {
		return nil
	}
	err := (*q)[0]
	*q = (*q)[1:]
	return err
}

func (m *mockJobStore) FetchPending(ctx context.Context, limit int) ([]*domain.Job, error) {
	m.mu.Lock()
	m.fetchCalls++
	gate := m.fetchGate
	var out []*domain.Job
	for _, id := range m.order {
		if len(out) >= limit {
			break
		}
		if m.jobs[id].Status == domain.JobStatusPending {
			out = append(out, m.jobs[id])
		}
	}
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return out, nil
}

func (m *mockJobStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimCalls++
	if err := popErr(&m.processingErrs); err != nil {
		return err
	}
	job, ok := m.jobs[id]
	if !ok || job.Status != domain.JobStatusPending {
		return store.ErrAlreadyClaimed
	}
	job.Status = domain.JobStatusProcessing
	return nil
}

func (m *mockJobStore) MarkDone(ctx context.Context, id, resultID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := popErr(&m.doneErrs); err != nil {
		return err
	}
	job, ok := m.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	job.Status = domain.JobStatusDone
	m.results[id] = resultID
	return nil
}

func (m *mockJobStore) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := popErr(&m.failedErrs); err != nil {
		return err
	}
	job, ok := m.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	job.Status = domain.JobStatusFailed
	m.messages[id] = message
	return nil
}

func (m *mockJobStore) status(id uuid.UUID) domain.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id].Status
}

func (m *mockJobStore) message(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[id]
}

// fakeExtractor records extraction calls and serves canned text.
type fakeExtractor struct {
	mu    sync.Mutex
	calls []domain.SourceRef
	text  string
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, ref domain.SourceRef) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ref)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingKind builds a Kind whose generate and save steps count
// invocations and can be failed on demand.
type recordingKind struct {
	mu            sync.Mutex
	generateCalls int
	generateText  []string
	generateErr   error
	saveCalls     int
	saveErr       error
	savedArtifact Artifact
	resultID      uuid.UUID
	cards         []domain.FlashcardDraft
}

func (r *recordingKind) kind(jobs store.JobStore) Kind {
	return Kind{
		Name: "flashcard",
		Jobs: jobs,
		Generate: func(ctx context.Context, text string, params json.RawMessage) (Artifact, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.generateCalls++
			r.generateText = append(r.generateText, text)
			if r.generateErr != nil {
				return nil, r.generateErr
			}
			return &domain.FlashcardSetDraft{Title: "test set", Cards: r.cards}, nil
		},
		Save: func(ctx context.Context, artifact Artifact) (uuid.UUID, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.saveCalls++
			if r.saveErr != nil {
				return uuid.Nil, r.saveErr
			}
			r.savedArtifact = artifact
			return r.resultID, nil
		},
	}
}
