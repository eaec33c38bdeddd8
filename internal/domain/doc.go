// Package domain defines the core business entities of the worker:
// jobs, source references, and the generated study artifacts
// (flashcard sets and quizzes).
package domain
