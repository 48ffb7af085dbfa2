package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `
	e.id, e.title, e.description, e.category, e.starts_at, e.ends_at,
	e.location, e.visibility, e.capacity, e.creator_id,
	(SELECT COUNT(*) FROM event_participants p WHERE p.event_id = e.id),
	e.created_at, e.updated_at`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, in model.Event) (*model.Event, error) {
	now := time.Now().UTC()
	ev := in
	ev.ID = uuid.New().String()
	ev.ParticipantCount = 0
	ev.Participants = nil
	ev.CreatedAt = now
	ev.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, category, starts_at, ends_at,
		                     location, visibility, capacity, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ev.ID, ev.Title, ev.Description, string(ev.Category), ev.StartsAt, ev.EndsAt,
		ev.Location, string(ev.Visibility), ev.Capacity, ev.CreatorID, ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &ev, nil
}

// Update overwrites the editable fields of an event. Creator and
// participants are left untouched.
func (r *EventRepository) Update(ctx context.Context, ev model.Event) error {
	if !validID(ev.ID) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, category = $4, starts_at = $5, ends_at = $6,
		     location = $7, visibility = $8, capacity = $9, updated_at = $10
		 WHERE id = $1`,
		ev.ID, ev.Title, ev.Description, string(ev.Category), ev.StartsAt, ev.EndsAt,
		ev.Location, string(ev.Visibility), ev.Capacity, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event; enrollments go with it.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns a single event with its participant IDs, or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	ev, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	ev.Participants, err = r.participantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *EventRepository) participantIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM event_participants WHERE event_id = $1 ORDER BY enrolled_at, user_id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan participant: %w", err)
	}
	return ids, nil
}

// List returns events matching the filter ordered by start time descending.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	where, args := scopeClause(f)
	sql := `SELECT ` + eventColumns + ` FROM events e` + where + ` ORDER BY e.starts_at DESC, e.id`
	if f.Limit > 0 {
		args = append(args, f.Limit, max(f.Offset, 0))
		sql += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	return r.queryEvents(ctx, sql, args...)
}

// Count returns the number of events matching the filter's scope.
func (r *EventRepository) Count(ctx context.Context, f model.EventFilter) (int, error) {
	where, args := scopeClause(f)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// ListByParticipant returns the events userID is enrolled in.
func (r *EventRepository) ListByParticipant(ctx context.Context, userID string) ([]model.Event, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN event_participants ep ON ep.event_id = e.id
		 WHERE ep.user_id = $1
		 ORDER BY e.starts_at DESC, e.id`,
		userID,
	)
}

func (r *EventRepository) queryEvents(ctx context.Context, sql string, args ...any) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// scopeClause renders the listing scope as a WHERE clause. EXISTS keeps
// public-and-enrolled events from appearing twice.
func scopeClause(f model.EventFilter) (string, []any) {
	switch f.Scope {
	case model.ScopeAll:
		return "", nil
	case model.ScopePublicOrEnrolled:
		if !validID(f.UserID) {
			return ` WHERE e.visibility = 'public'`, nil
		}
		return strings.Join([]string{
			` WHERE (e.visibility = 'public'`,
			`OR EXISTS (SELECT 1 FROM event_participants p WHERE p.event_id = e.id AND p.user_id = $1))`,
		}, " "), []any{f.UserID}
	case model.ScopePublic:
		return ` WHERE e.visibility = 'public'`, nil
	}
	return ` WHERE e.visibility = 'public'`, nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		ev         model.Event
		category   string
		visibility string
	)
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &category, &ev.StartsAt, &ev.EndsAt,
		&ev.Location, &visibility, &ev.Capacity, &ev.CreatorID, &ev.ParticipantCount,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ev.Category = model.Category(category)
	ev.Visibility = model.Visibility(visibility)
	return &ev, nil
}
