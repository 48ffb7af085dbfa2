// Package policy decides which operations a principal may perform on events.
//
// Every function here is a pure predicate over the principal and the event as
// currently stored; a denial is a normal result, never an error.
package policy

import "github.com/Shivanand-hulikatti/eventos-platform/internal/model"

// privileged reports whether the role sees and edits every event.
func privileged(r model.Role) bool {
	switch r {
	case model.RoleOrganizer, model.RoleAdministrator:
		return true
	case model.RoleAttendee:
		return false
	}
	return false
}

// CanView reports whether p may see ev. Anonymous principals see public
// events only.
func CanView(p *model.Principal, ev *model.Event) bool {
	if ev == nil {
		return false
	}
	if !ev.IsPrivate() {
		return true
	}
	if !p.Authenticated() {
		return false
	}
	if ev.CreatorID == p.UserID || ev.HasParticipant(p.UserID) {
		return true
	}
	return privileged(p.Role) || p.Has(model.PermViewPrivateEvents)
}

// CanCreate reports whether p holds the event-creation grant.
func CanCreate(p *model.Principal) bool {
	return p.Has(model.PermAddEvent)
}

// CanEdit reports whether p may change ev. The creator may always edit; so
// may organizers and administrators.
func CanEdit(p *model.Principal, ev *model.Event) bool {
	if !p.Authenticated() || ev == nil {
		return false
	}
	if ev.CreatorID == p.UserID {
		return true
	}
	return privileged(p.Role)
}

// CanDelete reports whether p may delete events.
func CanDelete(p *model.Principal) bool {
	if !p.Authenticated() {
		return false
	}
	switch p.Role {
	case model.RoleAdministrator:
		return true
	case model.RoleOrganizer, model.RoleAttendee:
		return false
	}
	return false
}

// CanEnroll reports whether p may join ev. Capacity is checked by the
// registration workflow, not here.
func CanEnroll(p *model.Principal, ev *model.Event) bool {
	return p.Authenticated() && CanView(p, ev)
}

// CanChangeRoles reports whether p may reassign other users' roles.
func CanChangeRoles(p *model.Principal) bool {
	return CanDelete(p)
}

// ListingScope returns which events a listing for p may include.
func ListingScope(p *model.Principal) model.ListScope {
	if !p.Authenticated() {
		return model.ScopePublic
	}
	if privileged(p.Role) || p.Has(model.PermViewPrivateEvents) {
		return model.ScopeAll
	}
	return model.ScopePublicOrEnrolled
}
