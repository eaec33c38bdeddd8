// Package worker contains the job-queue consumer core: the per-job
// processor state machine, the bounded batch runner, and the poll
// scheduler that drives them. Jobs are polled from the database, claimed
// with a conditional update, processed with a fixed concurrency ceiling,
// and always left in a terminal state unless even the failure write fails.
package worker
