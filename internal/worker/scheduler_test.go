package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

func TestScheduler_FirstCycleRunsImmediately(t *testing.T) {
	t.Parallel()

	job := textJob(strings.Repeat("ribosomes ", 10))
	jobs := newMockJobStore(job)
	rec := &recordingKind{resultID: uuid.New()}
	proc := newTestProcessor(t, jobs, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(time.Hour, 2, []*Processor{proc}, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// The interval is an hour; only the startup cycle can finish the job.
	require.Eventually(t, func() bool {
		return jobs.status(job.ID) == domain.JobStatusDone
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestScheduler_OverlappingTickIsDropped(t *testing.T) {
	t.Parallel()

	jobs := newMockJobStore()
	jobs.fetchGate = make(chan struct{})
	rec := &recordingKind{resultID: uuid.New()}
	proc := newTestProcessor(t, jobs, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(5*time.Millisecond, 2, []*Processor{proc}, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// The first cycle blocks inside FetchPending. Several ticks fire
	// while it drains; none may start another fetch.
	require.Eventually(t, func() bool {
		jobs.mu.Lock()
		defer jobs.mu.Unlock()
		return jobs.fetchCalls == 1
	}, time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	jobs.mu.Lock()
	calls := jobs.fetchCalls
	jobs.mu.Unlock()
	assert.Equal(t, 1, calls, "ticks fired during a draining cycle must be dropped")

	close(jobs.fetchGate)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not drain after the gate opened")
	}
}

func TestScheduler_ProcessesAllKindsPerCycle(t *testing.T) {
	t.Parallel()

	flashJob := textJob(strings.Repeat("french vocabulary ", 10))
	quizJob := textJob(strings.Repeat("roman history ", 10))
	flashJobs := newMockJobStore(flashJob)
	quizJobs := newMockJobStore(quizJob)
	flashRec := &recordingKind{resultID: uuid.New()}
	quizRec := &recordingKind{resultID: uuid.New()}

	procs := []*Processor{
		newTestProcessor(t, flashJobs, flashRec, nil),
		newTestProcessor(t, quizJobs, quizRec, nil),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(time.Hour, 2, procs, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return flashJobs.status(flashJob.ID) == domain.JobStatusDone &&
			quizJobs.status(quizJob.ID) == domain.JobStatusDone
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestScheduler_DrainsInFlightJobsOnShutdown(t *testing.T) {
	t.Parallel()

	job := textJob(strings.Repeat("plate tectonics ", 10))
	jobs := newMockJobStore(job)

	generating := make(chan struct{})
	release := make(chan struct{})
	rec := &recordingKind{resultID: uuid.New()}
	kind := rec.kind(jobs)
	inner := kind.Generate
	kind.Generate = func(ctx context.Context, text string, params json.RawMessage) (Artifact, error) {
		close(generating)
		<-release
		return inner(ctx, text, params)
	}
	proc := NewProcessor(kind, &fakeExtractor{}, testPolicy(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(time.Hour, 1, []*Processor{proc}, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-generating
	cancel() // shutdown arrives mid-generation

	select {
	case <-done:
		t.Fatal("scheduler returned before the claimed job settled")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not return after the job settled")
	}

	// The claimed job ran to completion despite the cancelled context.
	assert.Equal(t, domain.JobStatusDone, jobs.status(job.ID))
}

func TestScheduler_FetchesTwiceTheConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var seeded []*domain.Job
	for i := 0; i < 10; i++ {
		seeded = append(seeded, textJob(strings.Repeat("tides ", 20)))
	}
	jobs := newMockJobStore(seeded...)
	rec := &recordingKind{resultID: uuid.New()}
	proc := newTestProcessor(t, jobs, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(time.Hour, 3, []*Processor{proc}, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// One cycle handles 2*limit jobs; the remaining four stay pending
	// until the next tick (an hour away).
	require.Eventually(t, func() bool {
		jobs.mu.Lock()
		defer jobs.mu.Unlock()
		var doneCount int
		for _, j := range jobs.jobs {
			if j.Status == domain.JobStatusDone {
				doneCount++
			}
		}
		return doneCount == 6
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	jobs.mu.Lock()
	var pending int
	for _, j := range jobs.jobs {
		if j.Status == domain.JobStatusPending {
			pending++
		}
	}
	jobs.mu.Unlock()
	assert.Equal(t, 4, pending)

	cancel()
	<-done
}
