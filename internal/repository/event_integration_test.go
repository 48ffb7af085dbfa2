package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/policy"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/repository"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(creatorID string, vis model.Visibility, capacity int, startOffset time.Duration) model.Event {
	start := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC).Add(startOffset)
	return model.Event{
		Title:       "Go meetup",
		Description: "Talks and pizza",
		Category:    model.CategorySeminar,
		StartsAt:    start,
		EndsAt:      start.Add(2 * time.Hour),
		Location:    "Room 1",
		Visibility:  vis,
		Capacity:    capacity,
		CreatorID:   creatorID,
	}
}

func createEvent(t *testing.T, repo *repository.EventRepository, ev model.Event) *model.Event {
	t.Helper()
	created, err := repo.Create(context.Background(), ev)
	require.NoError(t, err)
	return created
}

func setup(t *testing.T) (*pgxpool.Pool, *repository.EventRepository, *repository.ParticipantRepository) {
	t.Helper()
	pool := testutil.NewTestPool(t)
	return pool, repository.NewEventRepository(pool), repository.NewParticipantRepository(pool)
}

func TestEventRepository_CreateGetUpdateDelete(t *testing.T) {
	pool, events, _ := setup(t)
	ctx := context.Background()
	creator := testutil.InsertUser(t, pool, "creator", "organizer")

	created := createEvent(t, events, newEvent(creator, model.VisibilityPublic, 5, 0))
	require.NotEmpty(t, created.ID)

	got, err := events.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go meetup", got.Title)
	assert.Equal(t, model.CategorySeminar, got.Category)
	assert.Equal(t, creator, got.CreatorID)
	assert.Empty(t, got.Participants)

	got.Title = "Go meetup #2"
	got.Visibility = model.VisibilityPrivate
	require.NoError(t, events.Update(ctx, *got))

	updated, err := events.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go meetup #2", updated.Title)
	assert.Equal(t, model.VisibilityPrivate, updated.Visibility)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	require.NoError(t, events.Delete(ctx, created.ID))
	_, err = events.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, events.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestEventRepository_MalformedIDIsNotFound(t *testing.T) {
	_, events, _ := setup(t)

	_, err := events.GetByID(context.Background(), "42")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepository_ListScopes(t *testing.T) {
	pool, events, participants := setup(t)
	ctx := context.Background()
	creator := testutil.InsertUser(t, pool, "org", "organizer")
	attendee := testutil.InsertUser(t, pool, "att", "attendee")

	pub := createEvent(t, events, newEvent(creator, model.VisibilityPublic, 5, 0))
	joined := createEvent(t, events, newEvent(creator, model.VisibilityPrivate, 5, time.Hour))
	hidden := createEvent(t, events, newEvent(creator, model.VisibilityPrivate, 5, 2*time.Hour))
	require.NoError(t, participants.Enroll(ctx, joined.ID, attendee))
	require.NoError(t, participants.Enroll(ctx, pub.ID, attendee))

	ids := func(f model.EventFilter) []string {
		list, err := events.List(ctx, f)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, ev := range list {
			out = append(out, ev.ID)
		}
		n, err := events.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, len(out), n)
		return out
	}

	assert.Equal(t, []string{pub.ID}, ids(model.EventFilter{Scope: model.ScopePublic}))
	assert.Equal(t, []string{hidden.ID, joined.ID, pub.ID}, ids(model.EventFilter{Scope: model.ScopeAll}))

	// Public and enrolled: the public event the attendee joined appears once.
	assert.Equal(t, []string{joined.ID, pub.ID},
		ids(model.EventFilter{Scope: model.ScopePublicOrEnrolled, UserID: attendee}))

	page, err := events.List(ctx, model.EventFilter{Scope: model.ScopeAll, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, joined.ID, page[0].ID)
	assert.Equal(t, 1, page[0].ParticipantCount)

	mine, err := events.ListByParticipant(ctx, attendee)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestParticipantRepository_CapacityScenario(t *testing.T) {
	pool, events, participants := setup(t)
	ctx := context.Background()
	creator := testutil.InsertUser(t, pool, "org", "organizer")
	a := testutil.InsertUser(t, pool, "a", "attendee")
	b := testutil.InsertUser(t, pool, "b", "attendee")

	ev := createEvent(t, events, newEvent(creator, model.VisibilityPublic, 1, 0))

	require.NoError(t, participants.Enroll(ctx, ev.ID, a))
	assert.ErrorIs(t, participants.Enroll(ctx, ev.ID, b), repository.ErrEventFull)

	got, err := events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, got.Participants)
}

func TestParticipantRepository_AlreadyEnrolledAndCancel(t *testing.T) {
	pool, events, participants := setup(t)
	ctx := context.Background()
	creator := testutil.InsertUser(t, pool, "org", "organizer")
	a := testutil.InsertUser(t, pool, "a", "attendee")

	ev := createEvent(t, events, newEvent(creator, model.VisibilityPublic, 3, 0))

	require.NoError(t, participants.Enroll(ctx, ev.ID, a))
	assert.ErrorIs(t, participants.Enroll(ctx, ev.ID, a), repository.ErrAlreadyEnrolled)

	require.NoError(t, participants.Cancel(ctx, ev.ID, a))
	assert.ErrorIs(t, participants.Cancel(ctx, ev.ID, a), repository.ErrNotEnrolled)

	got, err := events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Participants)

	assert.ErrorIs(t, participants.Enroll(ctx, "00000000-0000-0000-0000-000000000000", a), repository.ErrNotFound)
}

func TestParticipantRepository_ConcurrentEnrollNeverExceedsCapacity(t *testing.T) {
	pool, events, participants := setup(t)
	ctx := context.Background()
	creator := testutil.InsertUser(t, pool, "org", "organizer")

	const capacity = 3
	const attempts = 12
	ev := createEvent(t, events, newEvent(creator, model.VisibilityPublic, capacity, 0))

	users := make([]string, attempts)
	for i := range users {
		users[i] = testutil.InsertUser(t, pool, "user"+string(rune('a'+i)), "attendee")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			err := participants.Enroll(ctx, ev.ID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				ok++
			case repository.ErrEventFull:
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, capacity, ok)
	assert.Equal(t, attempts-capacity, full)

	got, err := events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, capacity)
}

func TestUserRepository_CreateAndSetRole(t *testing.T) {
	pool := testutil.NewTestPool(t)
	users := repository.NewUserRepository(pool)
	ctx := context.Background()

	grants := policy.GrantsFor(model.RoleOrganizer)
	u := &model.User{
		Username:     "olga",
		FirstName:    "Olga",
		LastName:     "Ruiz",
		Email:        "olga@example.com",
		PasswordHash: "hash",
		IsStaff:      grants.Staff,
		Profile:      model.Profile{Role: model.RoleOrganizer},
	}
	require.NoError(t, users.Create(ctx, u, grants.Permissions))
	require.NotEmpty(t, u.ID)

	got, err := users.GetByUsername(ctx, "olga")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOrganizer, got.Profile.Role)

	perms, err := users.Permissions(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, grants.Permissions.Sorted(), perms.Sorted())

	dup := &model.User{Username: "olga", Email: "x@example.com", PasswordHash: "h",
		Profile: model.Profile{Role: model.RoleAttendee}}
	assert.ErrorIs(t, users.Create(ctx, dup, nil), repository.ErrUsernameTaken)

	attendee := policy.GrantsFor(model.RoleAttendee)
	require.NoError(t, users.SetRole(ctx, u.ID, model.RoleAttendee, attendee.Staff, attendee.Permissions))

	perms, err = users.Permissions(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Permission{model.PermViewEvent}, perms.Sorted())

	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAttendee, got.Profile.Role)
	assert.False(t, got.IsStaff)

	require.NoError(t, users.UpdateProfile(ctx, u.ID, model.Profile{Phone: "555-0100", Bio: "hi"}))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", got.Profile.Phone)
}
