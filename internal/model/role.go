package model

import (
	"fmt"
	"strings"
)

// Role is the platform role stored on a user's profile.
type Role string

const (
	RoleAttendee      Role = "attendee"
	RoleOrganizer     Role = "organizer"
	RoleAdministrator Role = "administrator"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAttendee, RoleOrganizer, RoleAdministrator}

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdministrator:
		return true
	}
	return false
}

// Label is the human readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAttendee:
		return "Attendee"
	case RoleOrganizer:
		return "Event Organizer"
	case RoleAdministrator:
		return "Administrator"
	}
	return string(r)
}

// Permission is a grant codename on Event entities.
type Permission string

const (
	PermAddEvent          Permission = "add_event"
	PermChangeEvent       Permission = "change_event"
	PermDeleteEvent       Permission = "delete_event"
	PermViewEvent         Permission = "view_event"
	PermManageEvents      Permission = "manage_events"
	PermViewPrivateEvents Permission = "view_private_events"
)

// EventPermissions is the full permission set on Event entities.
var EventPermissions = []Permission{
	PermAddEvent,
	PermChangeEvent,
	PermDeleteEvent,
	PermViewEvent,
	PermManageEvents,
	PermViewPrivateEvents,
}

// PermissionSet is an unordered set of grants.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given grants.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p is in the set. A nil set holds nothing.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the grants in the canonical EventPermissions order.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range EventPermissions {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Principal is the identity a request acts as. A nil *Principal is anonymous.
type Principal struct {
	UserID      string
	Username    string
	Role        Role
	Permissions PermissionSet
}

// Authenticated reports whether p represents a logged-in user.
func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != ""
}

// Has reports whether p holds the given grant.
func (p *Principal) Has(perm Permission) bool {
	if !p.Authenticated() {
		return false
	}
	return p.Permissions.Has(perm)
}
