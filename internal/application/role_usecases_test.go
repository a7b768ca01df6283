package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

func newRoleUC(roles *memRoleRepo, users *memUserRepo, d EventDispatcher) *RoleUseCases {
	return NewRoleUseCases(roles, users, d, testLogger())
}

func TestCreateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug from name when absent", func(t *testing.T) {
		roles := newMemRoleRepo()
		d := &recordingDispatcher{}
		uc := newRoleUC(roles, newMemUserRepo(), d)

		res := uc.Create(ctx, CreateRoleRequest{Name: "Team Lead", Description: " leads a team "})
		require.False(t, res.IsFailure(), "unexpected failure: %v", res.Failure())

		role := res.Value()
		assert.Equal(t, "Team Lead", role.Name().String())
		assert.Equal(t, "team-lead", role.Slug().String())
		assert.Equal(t, "leads a team", role.Description())
		assert.False(t, role.IsSystemRole(), "API-created roles are never system roles")
		assert.Equal(t, []string{event.RoleCreatedName}, d.names())
	})

	t.Run("explicit slug wins", func(t *testing.T) {
		uc := newRoleUC(newMemRoleRepo(), newMemUserRepo(), &recordingDispatcher{})

		res := uc.Create(ctx, CreateRoleRequest{Name: "Team Lead", Slug: "shift-lead"})
		require.False(t, res.IsFailure())
		assert.Equal(t, "shift-lead", res.Value().Slug().String())
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		roles := newMemRoleRepo()
		roles.add(mustRole(t, "Team Lead", "team-lead", false))
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Create(ctx, CreateRoleRequest{Name: "Team Lead"})
		require.True(t, res.IsFailure())
		assert.Equal(t, KindConflict, res.Failure().Kind)
	})

	t.Run("invalid input aggregates errors", func(t *testing.T) {
		uc := newRoleUC(newMemRoleRepo(), newMemUserRepo(), &recordingDispatcher{})

		res := uc.Create(ctx, CreateRoleRequest{Name: "", Slug: "Bad Slug"})
		require.True(t, res.IsFailure())
		assert.Equal(t, KindValidation, res.Failure().Kind)
		assert.Contains(t, res.Failure().Message, "role name is required")
		assert.Contains(t, res.Failure().Message, "role slug may only contain")
	})
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and keeps slug", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Team Lead", "team-lead", false)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Update(ctx, UpdateRoleRequest{RoleID: role.ID().String(), Name: "Shift Lead"})
		require.False(t, res.IsFailure())
		assert.Equal(t, "Shift Lead", res.Value().Name().String())
		assert.Equal(t, "team-lead", res.Value().Slug().String())
	})

	t.Run("system role refuses modification", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Super Admin", "super-admin", true)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Update(ctx, UpdateRoleRequest{RoleID: role.ID().String(), Name: "Renamed"})
		require.True(t, res.IsFailure())
		assert.Equal(t, KindBusinessRule, res.Failure().Kind)
	})

	t.Run("unknown role", func(t *testing.T) {
		uc := newRoleUC(newMemRoleRepo(), newMemUserRepo(), &recordingDispatcher{})

		res := uc.Update(ctx, UpdateRoleRequest{RoleID: valueobject.NewEntityID().String(), Name: "X Y"})
		require.True(t, res.IsFailure())
		assert.Equal(t, KindNotFound, res.Failure().Kind)
	})
}

func TestDeactivateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("regular role", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Team Lead", "team-lead", false)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Deactivate(ctx, role.ID().String(), "")
		require.False(t, res.IsFailure())
		assert.False(t, res.Value().IsActive())
	})

	t.Run("system role protected", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Admin Role", "admin", true)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Deactivate(ctx, role.ID().String(), "")
		require.True(t, res.IsFailure())
		assert.Equal(t, KindBusinessRule, res.Failure().Kind)
		assert.True(t, role.IsActive())
	})
}

func TestDeleteRole(t *testing.T) {
	ctx := context.Background()
	actor := valueobject.NewEntityID().String()

	t.Run("soft deletes a regular role", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Team Lead", "team-lead", false)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Delete(ctx, role.ID().String(), actor)
		require.False(t, res.IsFailure())
		assert.True(t, role.IsDeleted())
	})

	t.Run("system role protected", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Super Admin", "super-admin", true)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Delete(ctx, role.ID().String(), actor)
		require.True(t, res.IsFailure())
		assert.Equal(t, KindBusinessRule, res.Failure().Kind)
		assert.False(t, role.IsDeleted())
	})

	t.Run("requires acting user", func(t *testing.T) {
		roles := newMemRoleRepo()
		role := mustRole(t, "Team Lead", "team-lead", false)
		roles.add(role)
		uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

		res := uc.Delete(ctx, role.ID().String(), "")
		require.True(t, res.IsFailure())
		assert.Equal(t, KindValidation, res.Failure().Kind)
	})
}

func TestAssignAndRevokeRole(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memRoleRepo, *memUserRepo, *recordingDispatcher, *RoleUseCases) {
		roles := newMemRoleRepo()
		users := newMemUserRepo()
		d := &recordingDispatcher{}
		return roles, users, d, newRoleUC(roles, users, d)
	}

	t.Run("assign and revoke round trip", func(t *testing.T) {
		roles, users, d, uc := setup(t)
		role := mustRole(t, "Team Lead", "team-lead", false)
		roles.add(role)
		u := mustUser(t, "jdoe", "jdoe@wms.local")
		users.add(u)
		req := AssignRoleRequest{UserID: u.ID().String(), RoleID: role.ID().String()}

		res := uc.AssignToUser(ctx, req)
		require.False(t, res.IsFailure(), "unexpected failure: %v", res.Failure())

		assigned, err := roles.FindForUser(ctx, u.ID())
		require.NoError(t, err)
		require.Len(t, assigned, 1)
		assert.Equal(t, "team-lead", assigned[0].Slug().String())

		res = uc.RevokeFromUser(ctx, req)
		require.False(t, res.IsFailure())
		assigned, err = roles.FindForUser(ctx, u.ID())
		require.NoError(t, err)
		assert.Empty(t, assigned)

		assert.Equal(t, []string{event.RoleAssignedName, event.RoleRevokedName}, d.names())
	})

	t.Run("inactive role cannot be assigned", func(t *testing.T) {
		roles, users, _, uc := setup(t)
		role := mustRole(t, "Team Lead", "team-lead", false)
		require.NoError(t, role.Deactivate(nil))
		role.ClearEvents()
		roles.add(role)
		u := mustUser(t, "jdoe", "jdoe@wms.local")
		users.add(u)

		res := uc.AssignToUser(ctx, AssignRoleRequest{UserID: u.ID().String(), RoleID: role.ID().String()})
		require.True(t, res.IsFailure())
		assert.Equal(t, KindBusinessRule, res.Failure().Kind)
	})

	t.Run("assigning to unknown user fails", func(t *testing.T) {
		roles, _, _, uc := setup(t)
		role := mustRole(t, "Team Lead", "team-lead", false)
		roles.add(role)

		res := uc.AssignToUser(ctx, AssignRoleRequest{
			UserID: valueobject.NewEntityID().String(),
			RoleID: role.ID().String(),
		})
		require.True(t, res.IsFailure())
		assert.Equal(t, KindNotFound, res.Failure().Kind)
	})
}

func TestListRoles(t *testing.T) {
	ctx := context.Background()
	roles := newMemRoleRepo()
	active := mustRole(t, "Team Lead", "team-lead", false)
	inactive := mustRole(t, "Old Role", "old-role", false)
	require.NoError(t, inactive.Deactivate(nil))
	inactive.ClearEvents()
	roles.add(active)
	roles.add(inactive)
	uc := newRoleUC(roles, newMemUserRepo(), &recordingDispatcher{})

	res := uc.List(ctx, false)
	require.False(t, res.IsFailure())
	require.Len(t, res.Value(), 1)
	assert.Equal(t, "team-lead", res.Value()[0].Slug().String())

	res = uc.List(ctx, true)
	require.False(t, res.IsFailure())
	assert.Len(t, res.Value(), 2)
}
