package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

func newTestRole(t *testing.T, name, slug string, system bool) *Role {
	t.Helper()
	n, err := valueobject.NewRoleName(name)
	require.NoError(t, err)
	s, err := valueobject.NewRoleSlug(slug)
	require.NoError(t, err)
	r, err := NewRole(n, s, "", system, nil)
	require.NoError(t, err)
	return r
}

func TestNewRole(t *testing.T) {
	r := newTestRole(t, "Team Lead", "team-lead", false)

	assert.True(t, r.IsActive())
	assert.False(t, r.IsSystemRole())
	assert.True(t, r.CanBeDeleted())
	assert.True(t, r.CanBeModified())

	events := r.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, event.RoleCreatedName, events[0].EventName())
}

func TestRoleRename(t *testing.T) {
	r := newTestRole(t, "Team Lead", "team-lead", false)
	r.ClearEvents()

	name, err := valueobject.NewRoleName("Shift Lead")
	require.NoError(t, err)
	require.NoError(t, r.Rename(name, "leads a shift", nil))

	assert.Equal(t, "Shift Lead", r.Name().String())
	assert.Equal(t, "team-lead", r.Slug().String(), "slug never changes on rename")
	assert.Equal(t, "leads a shift", r.Description())
}

func TestSystemRoleProtection(t *testing.T) {
	r := newTestRole(t, "Super Admin", "super-admin", true)
	r.ClearEvents()

	assert.False(t, r.CanBeDeleted())
	assert.False(t, r.CanBeModified())

	name, err := valueobject.NewRoleName("Renamed")
	require.NoError(t, err)
	assert.ErrorIs(t, r.Rename(name, "", nil), ErrSystemRoleModify)

	assert.ErrorIs(t, r.Deactivate(nil), ErrSystemRoleDeactivate)
	assert.True(t, r.IsActive())
	assert.Empty(t, r.PendingEvents())
}

func TestRoleDeactivateIdempotent(t *testing.T) {
	r := newTestRole(t, "Team Lead", "team-lead", false)
	r.ClearEvents()

	require.NoError(t, r.Deactivate(nil))
	assert.False(t, r.IsActive())
	require.NoError(t, r.Deactivate(nil), "deactivating an inactive role is a no-op")
	assert.Len(t, r.PendingEvents(), 1)

	r.Activate(nil)
	assert.True(t, r.IsActive())
	r.Activate(nil)
	assert.Len(t, r.PendingEvents(), 2)
}

func TestAuthorityRank(t *testing.T) {
	assert.Equal(t, 0, AuthorityRank("super-admin"))
	assert.Equal(t, 1, AuthorityRank("admin"))
	assert.Equal(t, 8, AuthorityRank("guest"))
	assert.Equal(t, unknownAuthorityRank, AuthorityRank("made-up-role"))
	assert.Equal(t, unknownAuthorityRank, AuthorityRank(""))
}

func TestHasHigherAuthorityThan(t *testing.T) {
	admin := newTestRole(t, "Admin Role", "admin", true)
	guest := newTestRole(t, "Guest Role", "guest", true)
	custom := newTestRole(t, "Inventory Auditor", "inventory-auditor", false)

	assert.True(t, admin.HasHigherAuthorityThan(guest))
	assert.False(t, guest.HasHigherAuthorityThan(admin))
	assert.True(t, guest.HasHigherAuthorityThan(custom), "known slugs outrank unknown ones")
	assert.True(t, admin.HasHigherAuthorityThan(nil))
}

func TestReconstituteRoleQueuesNoEvents(t *testing.T) {
	src := newTestRole(t, "Team Lead", "team-lead", false)
	rec := RoleRecord{
		Audit:        AuditRecord{ID: src.ID(), CreatedAt: src.CreatedAt(), UpdatedAt: src.UpdatedAt()},
		Name:         src.Name(),
		Slug:         src.Slug(),
		Description:  "restored",
		IsActive:     true,
		IsSystemRole: false,
	}
	r := ReconstituteRole(rec)

	assert.Empty(t, r.PendingEvents())
	assert.True(t, r.ID().Equals(src.ID()))
	assert.Equal(t, "restored", r.Description())
}
