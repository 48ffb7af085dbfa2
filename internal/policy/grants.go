package policy

import "github.com/Shivanand-hulikatti/eventos-platform/internal/model"

// Grants is the permission bundle a role confers.
type Grants struct {
	Permissions model.PermissionSet
	// Staff marks elevated platform access.
	Staff bool
}

// GrantsFor maps a role to the grants applied when the role is assigned.
// Callers clear any previous grants before applying these.
func GrantsFor(r model.Role) Grants {
	switch r {
	case model.RoleAdministrator:
		return Grants{
			Permissions: model.NewPermissionSet(model.EventPermissions...),
			Staff:       true,
		}
	case model.RoleOrganizer:
		return Grants{
			Permissions: model.NewPermissionSet(
				model.PermAddEvent,
				model.PermChangeEvent,
				model.PermViewEvent,
				model.PermManageEvents,
			),
		}
	case model.RoleAttendee:
		return Grants{Permissions: model.NewPermissionSet(model.PermViewEvent)}
	}
	return Grants{Permissions: model.NewPermissionSet()}
}
