package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipantRepository handles event enrollments.
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository constructs a ParticipantRepository.
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Enroll adds userID to the event's participants iff the event is under
// capacity, as a single atomic step.
//
// Every enrollment first takes a row lock on the event with SELECT … FOR
// UPDATE, so concurrent attempts on the same event run one at a time and the
// count they read cannot go stale before the insert. Two requests can never
// both take the last place.
//
// A full event reports ErrEventFull even for a user who is already enrolled.
func (r *ParticipantRepository) Enroll(ctx context.Context, eventID, userID string) error {
	if !validID(eventID) || !validID(userID) {
		return ErrNotFound
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var count int
	var enrolled bool
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(BOOL_OR(user_id = $2), FALSE)
		 FROM event_participants WHERE event_id = $1`,
		eventID, userID,
	).Scan(&count, &enrolled)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}

	if count >= capacity {
		return ErrEventFull
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO event_participants (event_id, user_id, enrolled_at) VALUES ($1, $2, $3)`,
		eventID, userID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Cancel removes userID from the event's participants, or returns
// ErrNotEnrolled when there was nothing to remove.
func (r *ParticipantRepository) Cancel(ctx context.Context, eventID, userID string) error {
	if !validID(eventID) || !validID(userID) {
		return ErrNotEnrolled
	}
	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotEnrolled
	}
	return nil
}
