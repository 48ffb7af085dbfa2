package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/repository"
)

// memEvents is an in-memory EventStore and ParticipantStore.
type memEvents struct {
	mu     sync.Mutex
	seq    int
	events map[string]*model.Event

	listErr error
}

func newMemEvents() *memEvents {
	return &memEvents{events: map[string]*model.Event{}}
}

func (m *memEvents) snapshot(ev *model.Event) *model.Event {
	cp := *ev
	cp.Participants = slices.Clone(ev.Participants)
	cp.ParticipantCount = len(ev.Participants)
	return &cp
}

func (m *memEvents) Create(ctx context.Context, ev model.Event) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ev.ID = fmt.Sprintf("ev-%d", m.seq)
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt
	ev.Participants = nil
	m.events[ev.ID] = &ev
	return m.snapshot(&ev), nil
}

func (m *memEvents) Update(ctx context.Context, ev model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.events[ev.ID]
	if !ok {
		return repository.ErrNotFound
	}
	ev.Participants = cur.Participants
	ev.CreatedAt = cur.CreatedAt
	ev.UpdatedAt = time.Now()
	m.events[ev.ID] = &ev
	return nil
}

func (m *memEvents) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.snapshot(ev), nil
}

func (m *memEvents) matching(f model.EventFilter) []model.Event {
	var out []model.Event
	for _, ev := range m.events {
		switch f.Scope {
		case model.ScopePublic:
			if ev.IsPrivate() {
				continue
			}
		case model.ScopePublicOrEnrolled:
			if ev.IsPrivate() && !slices.Contains(ev.Participants, f.UserID) {
				continue
			}
		case model.ScopeAll:
		}
		out = append(out, *m.snapshot(ev))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartsAt.After(out[j].StartsAt)
	})
	return out
}

func (m *memEvents) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := m.matching(f)
	if f.Limit > 0 {
		start := min(f.Offset, len(out))
		end := min(start+f.Limit, len(out))
		out = out[start:end]
	}
	return out, nil
}

func (m *memEvents) Count(ctx context.Context, f model.EventFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return 0, m.listErr
	}
	return len(m.matching(f)), nil
}

func (m *memEvents) ListByParticipant(ctx context.Context, userID string) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Event
	for _, ev := range m.matching(model.EventFilter{Scope: model.ScopeAll}) {
		if slices.Contains(ev.Participants, userID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memEvents) Enroll(ctx context.Context, eventID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	if len(ev.Participants) >= ev.Capacity {
		return repository.ErrEventFull
	}
	if slices.Contains(ev.Participants, userID) {
		return repository.ErrAlreadyEnrolled
	}
	ev.Participants = append(ev.Participants, userID)
	return nil
}

func (m *memEvents) Cancel(ctx context.Context, eventID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[eventID]
	if !ok {
		return repository.ErrNotEnrolled
	}
	i := slices.Index(ev.Participants, userID)
	if i < 0 {
		return repository.ErrNotEnrolled
	}
	ev.Participants = slices.Delete(ev.Participants, i, i+1)
	return nil
}

// put stores ev as-is, keeping its ID.
func (m *memEvents) put(ev model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ID] = &ev
}

// memUsers is an in-memory UserStore.
type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*model.User
	perms map[string]model.PermissionSet

	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*model.User{}, perms: map[string]model.PermissionSet{}}
}

func (m *memUsers) Create(ctx context.Context, u *model.User, perms model.PermissionSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return repository.ErrUsernameTaken
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.DateJoined = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	m.perms[u.ID] = perms
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Permissions(ctx context.Context, userID string) (model.PermissionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.perms[userID], nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, userID string, p model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Profile.Phone = p.Phone
	u.Profile.Bio = p.Bio
	return nil
}

func (m *memUsers) SetRole(ctx context.Context, userID string, role model.Role, staff bool, perms model.PermissionSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Profile.Role = role
	u.IsStaff = staff
	m.perms[userID] = perms
	return nil
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]string
	saveErr  error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]string{}}
}

func (m *memSessions) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[sessionID] = userID
	return nil
}

func (m *memSessions) Lookup(ctx context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.sessions[sessionID]
	if !ok {
		return "", repository.ErrSessionNotFound
	}
	return userID, nil
}

func (m *memSessions) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

var errBoom = errors.New("boom")
