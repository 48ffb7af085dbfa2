package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/metrics"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/repository"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/service"
)

// EventService is what the event handlers need from the service layer.
type EventService interface {
	Home(ctx context.Context, p *model.Principal) ([]model.Event, error)
	ListEvents(ctx context.Context, p *model.Principal, page int) (*model.EventPage, error)
	GetEvent(ctx context.Context, p *model.Principal, id string) (*model.EventDetail, error)
	CanCreate(p *model.Principal) error
	CreateEvent(ctx context.Context, p *model.Principal, in model.EventInput) (*model.Event, error)
	EventForEdit(ctx context.Context, p *model.Principal, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, p *model.Principal, id string, in model.EventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, p *model.Principal, id string) error
	Enroll(ctx context.Context, p *model.Principal, id string) (*model.Event, error)
	Cancel(ctx context.Context, p *model.Principal, id string) (*model.Event, error)
	MyEvents(ctx context.Context, p *model.Principal) ([]model.Event, error)
}

// EnrollmentRecorder counts enroll and cancel outcomes.
type EnrollmentRecorder interface {
	Enrollment(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) Enrollment(string) {}

// EventHandler holds all HTTP handlers for events and enrollment.
type EventHandler struct {
	svc      EventService
	recorder EnrollmentRecorder
}

// NewEventHandler constructs an EventHandler. recorder may be nil.
func NewEventHandler(svc EventService, recorder EnrollmentRecorder) *EventHandler {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &EventHandler{svc: svc, recorder: recorder}
}

// eventForm describes the create form for clients building one.
type eventForm struct {
	Categories   []model.Category   `json:"categories"`
	Visibilities []model.Visibility `json:"visibilities"`
	Initial      model.EventInput   `json:"initial"`
}

func eventPath(id string) string {
	return "/evento/" + id + "/"
}

// Home handles GET /
func (h *EventHandler) Home(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Home(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// ListEvents handles GET /eventos/?page=N
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, r, service.ErrPageNotFound)
			return
		}
		page = n
	}

	res, err := h.svc.ListEvents(r.Context(), PrincipalFrom(r.Context()), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetEvent handles GET /evento/{id}/
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetEvent(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// CreateForm handles GET /evento/crear/
func (h *EventHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CanCreate(PrincipalFrom(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	capacity := model.DefaultCapacity
	writeJSON(w, http.StatusOK, eventForm{
		Categories: []model.Category{
			model.CategoryConference, model.CategoryConcert, model.CategorySeminar, model.CategoryWorkshop,
		},
		Visibilities: []model.Visibility{model.VisibilityPublic, model.VisibilityPrivate},
		Initial: model.EventInput{
			Visibility: string(model.VisibilityPublic),
			Capacity:   &capacity,
		},
	})
}

// CreateEvent handles POST /evento/crear/
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFrom(r.Context())
	if err := h.svc.CanCreate(p); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var in model.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		badBody(w, err)
		return
	}

	ev, err := h.svc.CreateEvent(r.Context(), p, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", eventPath(ev.ID))
	writeJSON(w, http.StatusCreated, ev)
}

// EditForm handles GET /evento/{id}/editar/
func (h *EventHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.EventForEdit(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// UpdateEvent handles POST /evento/{id}/editar/
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFrom(r.Context())
	id := chi.URLParam(r, "id")
	if _, err := h.svc.EventForEdit(r.Context(), p, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var in model.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		badBody(w, err)
		return
	}

	ev, err := h.svc.UpdateEvent(r.Context(), p, id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles POST /evento/{id}/eliminar/
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message:  "The event has been deleted.",
		Redirect: "/eventos/",
	})
}

// Enroll handles POST /evento/{id}/inscribirse/
// A full event answers 409; a repeated enrollment is a reported no-op.
func (h *EventHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.Enroll(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		h.recorder.Enrollment(metrics.OutcomeEnrolled)
		writeJSON(w, http.StatusOK, model.MessageResponse{
			Message:  "You have enrolled in " + ev.Title + ".",
			Redirect: eventPath(ev.ID),
		})
	case errors.Is(err, repository.ErrEventFull):
		h.recorder.Enrollment(metrics.OutcomeFull)
		writeJSON(w, http.StatusConflict, model.ErrorResponse{
			Error:    "This event is full.",
			Code:     codeEventFull,
			Redirect: eventPath(ev.ID),
		})
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		h.recorder.Enrollment(metrics.OutcomeAlreadyEnrolled)
		writeJSON(w, http.StatusOK, model.MessageResponse{
			Message:  "You are already enrolled in this event.",
			Redirect: eventPath(ev.ID),
		})
	default:
		h.recordDenied(err)
		writeServiceError(w, r, err)
	}
}

// Cancel handles POST /evento/{id}/cancelar/
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.Cancel(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		h.recorder.Enrollment(metrics.OutcomeCancelled)
		writeJSON(w, http.StatusOK, model.MessageResponse{
			Message:  "Your enrollment in " + ev.Title + " has been cancelled.",
			Redirect: eventPath(ev.ID),
		})
	case errors.Is(err, repository.ErrNotEnrolled):
		h.recorder.Enrollment(metrics.OutcomeNotEnrolled)
		writeJSON(w, http.StatusOK, model.MessageResponse{
			Message:  "You are not enrolled in this event.",
			Redirect: eventPath(ev.ID),
		})
	default:
		h.recordDenied(err)
		writeServiceError(w, r, err)
	}
}

func (h *EventHandler) recordDenied(err error) {
	var access *service.AccessError
	if errors.As(err, &access) {
		h.recorder.Enrollment(metrics.OutcomeDenied)
	}
}

// MyEvents handles GET /mis-eventos/
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.MyEvents(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
