// Package postgres implements the store interfaces against PostgreSQL
// using database/sql with the pgx driver. It also owns the transient
// error classification used by the retry executor.
package postgres
