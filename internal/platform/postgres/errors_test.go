package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "too_many_connections SQLSTATE",
			err:  &pgconn.PgError{Code: "53300", Message: "too many connections for role"},
			want: true,
		},
		{
			name: "insufficient_resources SQLSTATE",
			err:  &pgconn.PgError{Code: "53000", Message: "insufficient resources"},
			want: true,
		},
		{
			name: "wrapped pg error",
			err:  fmt.Errorf("failed to claim job: %w", &pgconn.PgError{Code: "53300"}),
			want: true,
		},
		{
			name: "plain too many connections message",
			err:  errors.New("pq: sorry, too many clients already"),
			want: true,
		},
		{
			name: "substring match",
			err:  errors.New("driver: too many connections"),
			want: true,
		},
		{
			name: "unique violation is permanent",
			err:  &pgconn.PgError{Code: "23505", Message: "duplicate key value"},
			want: false,
		},
		{
			name: "undefined table is permanent",
			err:  &pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
			want: false,
		},
		{
			name: "generic error is permanent",
			err:  errors.New("something else entirely"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
