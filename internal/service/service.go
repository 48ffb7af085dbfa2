// Package service implements business logic, validation, and access checks
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/policy"
)

const (
	// HomeEventLimit bounds the home page listing.
	HomeEventLimit = 6
	// PageSize is the number of events per listing page.
	PageSize = 9
)

// EventStore is the persistence the event service needs.
type EventStore interface {
	Create(ctx context.Context, ev model.Event) (*model.Event, error)
	Update(ctx context.Context, ev model.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	Count(ctx context.Context, f model.EventFilter) (int, error)
	ListByParticipant(ctx context.Context, userID string) ([]model.Event, error)
}

// ParticipantStore mutates event participant sets.
type ParticipantStore interface {
	Enroll(ctx context.Context, eventID, userID string) error
	Cancel(ctx context.Context, eventID, userID string) error
}

// EventService orchestrates event-related business operations.
type EventService struct {
	events       EventStore
	participants ParticipantStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, participants ParticipantStore) *EventService {
	return &EventService{events: events, participants: participants}
}

// Home returns the first few events visible to p.
func (s *EventService) Home(ctx context.Context, p *model.Principal) ([]model.Event, error) {
	return s.events.List(ctx, model.EventFilter{
		Scope:  policy.ListingScope(p),
		UserID: principalID(p),
		Limit:  HomeEventLimit,
	})
}

// ListEvents returns one page of the events visible to p. Pages are 1-based;
// the first page always exists, even when empty.
func (s *EventService) ListEvents(ctx context.Context, p *model.Principal, page int) (*model.EventPage, error) {
	if page < 1 {
		return nil, ErrPageNotFound
	}
	filter := model.EventFilter{Scope: policy.ListingScope(p), UserID: principalID(p)}

	total, err := s.events.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	numPages := max((total+PageSize-1)/PageSize, 1)
	if page > numPages {
		return nil, ErrPageNotFound
	}

	filter.Limit = PageSize
	filter.Offset = (page - 1) * PageSize
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}

	return &model.EventPage{
		Events:      events,
		Page:        page,
		NumPages:    numPages,
		Total:       total,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}, nil
}

// GetEvent returns the detail view of an event for p.
func (s *EventService) GetEvent(ctx context.Context, p *model.Principal, id string) (*model.EventDetail, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, ev) {
		if !p.Authenticated() {
			return nil, loginRequired("You must log in to view this event.")
		}
		return nil, denied("You do not have permission to view this private event.")
	}

	detail := &model.EventDetail{
		Event:          *ev,
		AvailableSpots: ev.Remaining(),
		IsFull:         ev.IsFull(),
	}
	if p.Authenticated() {
		detail.IsEnrolled = ev.HasParticipant(p.UserID)
		detail.IsCreator = ev.CreatorID == p.UserID
	}
	return detail, nil
}

// CanCreate reports whether p may open the create form.
func (s *EventService) CanCreate(p *model.Principal) error {
	if !p.Authenticated() {
		return loginRequired("You must log in to create events.")
	}
	if !policy.CanCreate(p) {
		return denied("You do not have permission to create events.")
	}
	return nil
}

// CreateEvent validates the form and stores a new event owned by p.
func (s *EventService) CreateEvent(ctx context.Context, p *model.Principal, in model.EventInput) (*model.Event, error) {
	if err := s.CanCreate(p); err != nil {
		return nil, err
	}
	ev, err := parseEventInput(in)
	if err != nil {
		return nil, err
	}
	ev.CreatorID = p.UserID

	created, err := s.events.Create(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// EventForEdit returns the current values of an event p may edit.
func (s *EventService) EventForEdit(ctx context.Context, p *model.Principal, id string) (*model.Event, error) {
	if !p.Authenticated() {
		return nil, loginRequired("You must log in to edit events.")
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEdit(p, ev) {
		return nil, denied("You do not have permission to edit this event.")
	}
	return ev, nil
}

// UpdateEvent validates the form and overwrites the event's editable fields.
func (s *EventService) UpdateEvent(ctx context.Context, p *model.Principal, id string, in model.EventInput) (*model.Event, error) {
	current, err := s.EventForEdit(ctx, p, id)
	if err != nil {
		return nil, err
	}
	ev, err := parseEventInput(in)
	if err != nil {
		return nil, err
	}
	ev.ID = current.ID
	ev.CreatorID = current.CreatorID

	if err := s.events.Update(ctx, ev); err != nil {
		return nil, err
	}
	return s.events.GetByID(ctx, id)
}

// DeleteEvent removes an event. Only administrators may delete.
func (s *EventService) DeleteEvent(ctx context.Context, p *model.Principal, id string) error {
	if !p.Authenticated() {
		return loginRequired("You must log in to delete events.")
	}
	if !policy.CanDelete(p) {
		return denied("Only administrators can delete events.")
	}
	return s.events.Delete(ctx, id)
}

// Enroll adds p to the event's participants. It returns the event on
// success; repository.ErrEventFull and repository.ErrAlreadyEnrolled are
// passed through with the event so callers can report them.
func (s *EventService) Enroll(ctx context.Context, p *model.Principal, id string) (*model.Event, error) {
	if !p.Authenticated() {
		return nil, loginRequired("You must log in to enroll in events.")
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEnroll(p, ev) {
		return nil, denied("You do not have permission to access this private event.")
	}
	if err := s.participants.Enroll(ctx, ev.ID, p.UserID); err != nil {
		return ev, err
	}
	return ev, nil
}

// Cancel removes p from the event's participants. repository.ErrNotEnrolled
// is passed through with the event.
func (s *EventService) Cancel(ctx context.Context, p *model.Principal, id string) (*model.Event, error) {
	if !p.Authenticated() {
		return nil, loginRequired("You must log in to manage your enrollments.")
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.participants.Cancel(ctx, ev.ID, p.UserID); err != nil {
		return ev, err
	}
	return ev, nil
}

// MyEvents lists the events p is enrolled in.
func (s *EventService) MyEvents(ctx context.Context, p *model.Principal) ([]model.Event, error) {
	if !p.Authenticated() {
		return nil, loginRequired("You must log in to see your events.")
	}
	events, err := s.events.ListByParticipant(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func principalID(p *model.Principal) string {
	if !p.Authenticated() {
		return ""
	}
	return p.UserID
}
