package event

const (
	RoleCreatedName     = "role.created"
	RoleUpdatedName     = "role.updated"
	RoleActivatedName   = "role.activated"
	RoleDeactivatedName = "role.deactivated"
	RoleAssignedName    = "role.assigned"
	RoleRevokedName     = "role.revoked"
)

type RoleCreated struct {
	base
	Name string
	Slug string
}

func NewRoleCreated(roleID, name, slug string) RoleCreated {
	return RoleCreated{base: newBase(RoleCreatedName, roleID), Name: name, Slug: slug}
}

func (e RoleCreated) Payload() map[string]any {
	return map[string]any{"name": e.Name, "slug": e.Slug}
}

type RoleUpdated struct {
	base
	OldName string
	NewName string
}

func NewRoleUpdated(roleID, oldName, newName string) RoleUpdated {
	return RoleUpdated{base: newBase(RoleUpdatedName, roleID), OldName: oldName, NewName: newName}
}

func (e RoleUpdated) Payload() map[string]any {
	return map[string]any{"old_name": e.OldName, "new_name": e.NewName}
}

type RoleActivated struct{ base }

func NewRoleActivated(roleID string) RoleActivated {
	return RoleActivated{base: newBase(RoleActivatedName, roleID)}
}

func (e RoleActivated) Payload() map[string]any { return map[string]any{} }

type RoleDeactivated struct{ base }

func NewRoleDeactivated(roleID string) RoleDeactivated {
	return RoleDeactivated{base: newBase(RoleDeactivatedName, roleID)}
}

func (e RoleDeactivated) Payload() map[string]any { return map[string]any{} }

type RoleAssigned struct {
	base
	UserID string
}

func NewRoleAssigned(roleID, userID string) RoleAssigned {
	return RoleAssigned{base: newBase(RoleAssignedName, roleID), UserID: userID}
}

func (e RoleAssigned) Payload() map[string]any { return map[string]any{"user_id": e.UserID} }

type RoleRevoked struct {
	base
	UserID string
}

func NewRoleRevoked(roleID, userID string) RoleRevoked {
	return RoleRevoked{base: newBase(RoleRevokedName, roleID), UserID: userID}
}

func (e RoleRevoked) Payload() map[string]any { return map[string]any{"user_id": e.UserID} }
