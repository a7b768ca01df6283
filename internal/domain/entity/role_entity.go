package entity

import (
	"errors"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

var (
	ErrRoleNameRequired     = errors.New("role name is required")
	ErrRoleSlugRequired     = errors.New("role slug is required")
	ErrSystemRoleDeactivate = errors.New("system roles cannot be deactivated")
	ErrSystemRoleModify     = errors.New("system roles cannot be modified")
)

// authorityRanks orders roles by authority; lower rank wins. Slugs outside
// the table rank below every known role.
var authorityRanks = map[string]int{
	"super-admin": 0,
	"admin":       1,
	"manager":     2,
	"supervisor":  3,
	"team-lead":   4,
	"operator":    5,
	"clerk":       6,
	"viewer":      7,
	"guest":       8,
}

const unknownAuthorityRank = 10

// AuthorityRank returns the rank for a role slug string.
func AuthorityRank(slug string) int {
	if r, ok := authorityRanks[slug]; ok {
		return r
	}
	return unknownAuthorityRank
}

// Role is the aggregate root for authorization roles. The slug and the
// system-role flag are fixed at creation; system roles are protected from
// deactivation, modification and deletion.
type Role struct {
	AuditableEntity

	name         valueobject.RoleName
	slug         valueobject.RoleSlug
	description  string
	isActive     bool
	isSystemRole bool
}

func NewRole(name valueobject.RoleName, slug valueobject.RoleSlug, description string, isSystemRole bool, createdBy *valueobject.EntityID) (*Role, error) {
	if name.IsZero() {
		return nil, ErrRoleNameRequired
	}
	if slug.IsZero() {
		return nil, ErrRoleSlugRequired
	}
	r := &Role{
		AuditableEntity: newAuditableEntity(valueobject.NewEntityID(), createdBy),
		name:            name,
		slug:            slug,
		description:     description,
		isActive:        true,
		isSystemRole:    isSystemRole,
	}
	r.recordEvent(event.NewRoleCreated(r.ID().String(), name.String(), slug.String()))
	return r, nil
}

// RoleRecord is the flat form a repository loads from storage.
type RoleRecord struct {
	Audit        AuditRecord
	Name         valueobject.RoleName
	Slug         valueobject.RoleSlug
	Description  string
	IsActive     bool
	IsSystemRole bool
}

// ReconstituteRole rebuilds a role from persistence without queueing events.
func ReconstituteRole(rec RoleRecord) *Role {
	return &Role{
		AuditableEntity: reconstituteAuditable(rec.Audit),
		name:            rec.Name,
		slug:            rec.Slug,
		description:     rec.Description,
		isActive:        rec.IsActive,
		isSystemRole:    rec.IsSystemRole,
	}
}

func (r *Role) Name() valueobject.RoleName { return r.name }
func (r *Role) Slug() valueobject.RoleSlug { return r.slug }
func (r *Role) Description() string        { return r.description }
func (r *Role) IsActive() bool             { return r.isActive }
func (r *Role) IsSystemRole() bool         { return r.isSystemRole }

func (r *Role) CanBeDeleted() bool  { return !r.isSystemRole }
func (r *Role) CanBeModified() bool { return !r.isSystemRole }

// Rename updates the display name and description. The slug never changes.
func (r *Role) Rename(name valueobject.RoleName, description string, by *valueobject.EntityID) error {
	if !r.CanBeModified() {
		return ErrSystemRoleModify
	}
	if name.IsZero() {
		return ErrRoleNameRequired
	}
	old := r.name.String()
	r.name = name
	r.description = description
	r.touch(by)
	r.recordEvent(event.NewRoleUpdated(r.ID().String(), old, name.String()))
	return nil
}

// Activate is a silent no-op for an already-active role.
func (r *Role) Activate(by *valueobject.EntityID) {
	if r.isActive {
		return
	}
	r.isActive = true
	r.touch(by)
	r.recordEvent(event.NewRoleActivated(r.ID().String()))
}

// Deactivate fails for system roles and leaves isActive untouched.
func (r *Role) Deactivate(by *valueobject.EntityID) error {
	if r.isSystemRole {
		return ErrSystemRoleDeactivate
	}
	if !r.isActive {
		return nil
	}
	r.isActive = false
	r.touch(by)
	r.recordEvent(event.NewRoleDeactivated(r.ID().String()))
	return nil
}

// AuthorityRank exposes the fixed slug ranking for this role.
func (r *Role) AuthorityRank() int { return AuthorityRank(r.slug.String()) }

// HasHigherAuthorityThan reports whether this role outranks other (lower rank
// wins).
func (r *Role) HasHigherAuthorityThan(other *Role) bool {
	if other == nil {
		return true
	}
	return r.AuthorityRank() < other.AuthorityRank()
}
