// Package model defines the core domain types for the event platform.
package model

import (
	"slices"
	"time"
)

// Category classifies an event.
type Category string

const (
	CategoryConference Category = "conference"
	CategoryConcert    Category = "concert"
	CategorySeminar    Category = "seminar"
	CategoryWorkshop   Category = "workshop"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryConference, CategoryConcert, CategorySeminar, CategoryWorkshop:
		return true
	}
	return false
}

// Visibility controls who may see an event.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// DefaultCapacity is used when an event is created without a capacity.
const DefaultCapacity = 50

// Event is a gathering users can enroll in.
type Event struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         Category   `json:"category"`
	StartsAt         time.Time  `json:"starts_at"`
	EndsAt           time.Time  `json:"ends_at"`
	Location         string     `json:"location"`
	Visibility       Visibility `json:"visibility"`
	Capacity         int        `json:"capacity"`
	CreatorID        string     `json:"creator_id"`
	ParticipantCount int        `json:"participant_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Participants holds enrolled user IDs. Only populated on single-event reads.
	Participants []string `json:"-"`
}

// Remaining returns the number of free places.
func (e *Event) Remaining() int {
	return e.Capacity - e.ParticipantCount
}

// IsFull returns true when no places remain.
func (e *Event) IsFull() bool {
	return e.ParticipantCount >= e.Capacity
}

// HasParticipant reports whether userID is enrolled.
func (e *Event) HasParticipant(userID string) bool {
	return userID != "" && slices.Contains(e.Participants, userID)
}

// IsPrivate reports whether the event is restricted.
func (e *Event) IsPrivate() bool {
	return e.Visibility == VisibilityPrivate
}

// EventInput is the create/edit form payload. Times are RFC 3339 strings so
// parse failures can be reported per field.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility"`
	Capacity    *int   `json:"capacity"`
}

// ListScope selects which events a listing may return.
type ListScope int

const (
	// ScopePublic returns public events only.
	ScopePublic ListScope = iota
	// ScopeAll returns every event.
	ScopeAll
	// ScopePublicOrEnrolled returns public events plus those the user joined.
	ScopePublicOrEnrolled
)

// EventFilter narrows an event listing.
type EventFilter struct {
	Scope  ListScope
	UserID string
	Limit  int
	Offset int
}

// EventDetail is the detail view of an event for a given viewer.
type EventDetail struct {
	Event
	AvailableSpots int  `json:"available_spots"`
	IsFull         bool `json:"is_full"`
	IsEnrolled     bool `json:"is_enrolled"`
	IsCreator      bool `json:"is_creator"`
}

// EventPage is one page of a paginated listing.
type EventPage struct {
	Events      []Event `json:"events"`
	Page        int     `json:"page"`
	NumPages    int     `json:"num_pages"`
	Total       int     `json:"total"`
	HasNext     bool    `json:"has_next"`
	HasPrevious bool    `json:"has_previous"`
}

// User is a registered identity.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `json:"date_joined"`
	Profile      Profile   `json:"profile"`
}

// Profile extends a User with a role and contact details.
type Profile struct {
	Role  Role   `json:"role"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
	Role      string `json:"role"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest updates a user's own contact details.
type ProfileUpdateRequest struct {
	Phone *string `json:"phone"`
	Bio   *string `json:"bio"`
}

// RoleChangeRequest is the administrator payload for changing a user's role.
type RoleChangeRequest struct {
	Role string `json:"role"`
}

// Session is an issued login.
type Session struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// MessageResponse carries a user-visible notice.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}
