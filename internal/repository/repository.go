// Package repository implements all persistence for the event platform.
// PostgreSQL is accessed through pgx directly (no ORM); sessions live in Redis.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is full")

// ErrAlreadyEnrolled is returned when the user is already a participant.
var ErrAlreadyEnrolled = errors.New("already enrolled in this event")

// ErrNotEnrolled is returned when cancelling an enrollment that does not exist.
var ErrNotEnrolled = errors.New("not enrolled in this event")

// ErrUsernameTaken is returned when registering a duplicate username.
var ErrUsernameTaken = errors.New("username already taken")

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// validID reports whether id can be a primary key. Malformed ids can never
// match a row, so callers treat them as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// rollback resolves tx when the surrounding function failed. Rolling back a
// committed transaction is a no-op.
func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}
