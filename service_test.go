package accesskit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBusiness creates a business with one location and one department and
// returns the service plus the generated IDs.
func setupBusiness(t *testing.T, ctx context.Context) (*Service, string, string, string) {
	t.Helper()

	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	bizID := uniqueID("biz")
	locID := uniqueID("loc")
	depID := uniqueID("dep")

	_, err = service.CreateBusiness(ctx, bizID, "Glow Salon")
	require.NoError(t, err)

	_, err = service.AddLocation(ctx, bizID, locID, "Downtown")
	require.NoError(t, err)

	_, err = service.AddDepartment(ctx, bizID, locID, depID, "Hair")
	require.NoError(t, err)

	return service, bizID, locID, depID
}

// bootstrapOwner self-assigns the business owner role for a fresh user.
func bootstrapOwner(t *testing.T, ctx context.Context, service *Service, bizID string) (string, *RoleAssignment) {
	t.Helper()

	ownerID := uniqueID("owner")
	a, err := service.Assign(WithActorID(ctx, ownerID), AssignInput{
		UserID:  ownerID,
		Role:    RoleBusinessOwner,
		Context: Context{BusinessID: bizID},
	})
	require.NoError(t, err)
	return ownerID, a
}

func TestServiceBusinessTree(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, locID, depID := setupBusiness(t, ctx)

	t.Run("Tree round-trips through storage", func(t *testing.T) {
		tree, err := service.GetBusinessContext(ctx, bizID)
		require.NoError(t, err)

		assert.Equal(t, bizID, tree.BusinessID)
		assert.True(t, tree.HasLocation(locID))
		assert.True(t, tree.HasDepartment(locID, depID))
		assert.Equal(t, ContextStats{
			TotalLocations:    1,
			ActiveLocations:   1,
			TotalDepartments:  1,
			ActiveDepartments: 1,
		}, tree.Stats())
	})

	t.Run("Unknown business", func(t *testing.T) {
		_, err := service.GetBusinessContext(ctx, uniqueID("missing"))
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("Duplicate location rejected", func(t *testing.T) {
		_, err := service.AddLocation(ctx, bizID, locID, "Again")
		assert.ErrorIs(t, err, ErrLocationExists)
	})

	t.Run("Department needs an existing location", func(t *testing.T) {
		_, err := service.AddDepartment(ctx, bizID, uniqueID("nope"), uniqueID("dep"), "Nails")
		assert.ErrorIs(t, err, ErrLocationNotFound)
	})

	t.Run("Short business name rejected before storage", func(t *testing.T) {
		_, err := service.CreateBusiness(ctx, uniqueID("biz"), "X")
		assert.ErrorIs(t, err, ErrInvalidBusiness)
	})

	t.Run("Deactivated location drops out of the tree", func(t *testing.T) {
		extraLoc := uniqueID("loc")
		_, err := service.AddLocation(ctx, bizID, extraLoc, "Uptown")
		require.NoError(t, err)

		next, err := service.DeactivateBusinessLocation(ctx, bizID, extraLoc)
		require.NoError(t, err)
		assert.False(t, next.HasLocation(extraLoc))

		tree, err := service.GetBusinessContext(ctx, bizID)
		require.NoError(t, err)
		assert.False(t, tree.HasLocation(extraLoc))
		assert.Equal(t, 2, tree.Stats().TotalLocations)
		assert.Equal(t, 1, tree.Stats().ActiveLocations)
	})
}

func TestServiceAssignments(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, locID, _ := setupBusiness(t, ctx)
	ownerID, _ := bootstrapOwner(t, ctx, service, bizID)
	ownerCtx := WithActorID(ctx, ownerID)

	t.Run("Owner assigns staff", func(t *testing.T) {
		staffID := uniqueID("staff")
		a, err := service.Assign(ownerCtx, AssignInput{
			UserID:  staffID,
			Role:    RoleStaff,
			Context: Context{BusinessID: bizID, LocationID: locID},
			Notes:   "new hire",
		})
		require.NoError(t, err)

		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.Equal(t, staffID, loaded.UserID())
		assert.Equal(t, RoleStaff, loaded.Role())
		assert.Equal(t, ownerID, loaded.AssignedBy())
		assert.Equal(t, "new hire", loaded.Notes())
		assert.True(t, loaded.IsActive())
	})

	t.Run("Assignment requires an actor", func(t *testing.T) {
		_, err := service.Assign(ctx, AssignInput{
			UserID:  uniqueID("user"),
			Role:    RoleStaff,
			Context: Context{BusinessID: bizID},
		})
		assert.ErrorIs(t, err, ErrNoActorID)
	})

	t.Run("Validation failures never reach storage", func(t *testing.T) {
		_, err := service.Assign(ownerCtx, AssignInput{
			UserID:  uniqueID("user"),
			Role:    RoleLocationManager,
			Context: Context{BusinessID: bizID},
		})
		assert.ErrorIs(t, err, ErrLocationLevelRole)
	})

	t.Run("Actor without authority denied", func(t *testing.T) {
		staffID := uniqueID("staff")
		_, err := service.Assign(ownerCtx, AssignInput{
			UserID:  staffID,
			Role:    RoleStaff,
			Context: Context{BusinessID: bizID},
		})
		require.NoError(t, err)

		// Staff cannot grant a role that outranks them.
		_, err = service.Assign(WithActorID(ctx, staffID), AssignInput{
			UserID:  uniqueID("user"),
			Role:    RoleBusinessAdmin,
			Context: Context{BusinessID: bizID},
		})
		assert.True(t, IsUnauthorized(err))

		// Equal rank is not enough either.
		_, err = service.Assign(WithActorID(ctx, staffID), AssignInput{
			UserID:  uniqueID("user"),
			Role:    RoleStaff,
			Context: Context{BusinessID: bizID},
		})
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Unknown assignment", func(t *testing.T) {
		_, err := service.GetAssignment(ctx, uniqueID("missing"))
		assert.ErrorIs(t, err, ErrAssignmentNotFound)
	})

	t.Run("Self-assignment only bootstraps an empty business", func(t *testing.T) {
		// The business already has an owner, so walking in and granting
		// yourself a role is an ordinary authority check, which a stranger
		// fails.
		intruder := uniqueID("intruder")
		_, err := service.Assign(WithActorID(ctx, intruder), AssignInput{
			UserID:  intruder,
			Role:    RoleBusinessOwner,
			Context: Context{BusinessID: bizID},
		})
		assert.True(t, IsUnauthorized(err))

		assignments, err := service.GetUserAssignments(ctx, intruder)
		require.NoError(t, err)
		assert.Empty(t, assignments)
	})

	t.Run("Owner self-grants pass the authority check", func(t *testing.T) {
		// Not bootstrap anymore, but the owner outranks the staff role.
		a, err := service.Assign(ownerCtx, AssignInput{
			UserID:  ownerID,
			Role:    RoleStaff,
			Context: Context{BusinessID: bizID, LocationID: locID},
		})
		require.NoError(t, err)
		assert.Equal(t, RoleStaff, a.Role())

		// Equal rank still fails, even for yourself.
		_, err = service.Assign(ownerCtx, AssignInput{
			UserID:  ownerID,
			Role:    RoleBusinessOwner,
			Context: Context{BusinessID: bizID},
		})
		assert.True(t, IsUnauthorized(err))
	})
}

func TestServiceAssignmentLifecycle(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, _, _ := setupBusiness(t, ctx)
	ownerID, _ := bootstrapOwner(t, ctx, service, bizID)
	ownerCtx := WithActorID(ctx, ownerID)

	newStaff := func(t *testing.T) *RoleAssignment {
		t.Helper()
		a, err := service.Assign(ownerCtx, AssignInput{
			UserID:  uniqueID("staff"),
			Role:    RoleStaff,
			Context: Context{BusinessID: bizID},
		})
		require.NoError(t, err)
		return a
	}

	t.Run("Revoke and reactivate", func(t *testing.T) {
		a := newStaff(t)

		require.NoError(t, service.Revoke(ownerCtx, a.ID()))
		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.False(t, loaded.IsActive(), "revoked assignment kept but inactive")

		require.NoError(t, service.Reactivate(ownerCtx, a.ID()))
		loaded, err = service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.True(t, loaded.IsActive())
	})

	t.Run("Revoking twice is a no-op", func(t *testing.T) {
		a := newStaff(t)
		require.NoError(t, service.Revoke(ownerCtx, a.ID()))
		require.NoError(t, service.Revoke(ownerCtx, a.ID()))
	})

	t.Run("Extend expiration", func(t *testing.T) {
		a := newStaff(t)
		future := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

		require.NoError(t, service.ExtendExpiration(ownerCtx, a.ID(), future))
		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		require.NotNil(t, loaded.ExpiresAt())
		assert.WithinDuration(t, future, *loaded.ExpiresAt(), time.Second)

		err = service.ExtendExpiration(ownerCtx, a.ID(), time.Now().Add(-time.Hour))
		assert.ErrorIs(t, err, ErrExpiryNotFuture)
	})

	t.Run("Update notes", func(t *testing.T) {
		a := newStaff(t)
		require.NoError(t, service.UpdateNotes(ownerCtx, a.ID(), "moved to evenings"))

		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.Equal(t, "moved to evenings", loaded.Notes())
	})

	t.Run("Lifecycle change requires authority", func(t *testing.T) {
		a := newStaff(t)
		outsider := uniqueID("outsider")

		err := service.Revoke(WithActorID(ctx, outsider), a.ID())
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Users may revoke their own assignment", func(t *testing.T) {
		a := newStaff(t)

		require.NoError(t, service.Revoke(WithActorID(ctx, a.UserID()), a.ID()))
		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.False(t, loaded.IsActive())
	})

	t.Run("Revoked users cannot reactivate themselves", func(t *testing.T) {
		a := newStaff(t)
		require.NoError(t, service.Revoke(ownerCtx, a.ID()))

		err := service.Reactivate(WithActorID(ctx, a.UserID()), a.ID())
		assert.True(t, IsUnauthorized(err))

		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.False(t, loaded.IsActive(), "revocation must stick")
	})

	t.Run("Users cannot extend their own expiration", func(t *testing.T) {
		a := newStaff(t)

		err := service.ExtendExpiration(WithActorID(ctx, a.UserID()), a.ID(), time.Now().Add(24*time.Hour))
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Users may update their own notes", func(t *testing.T) {
		a := newStaff(t)

		require.NoError(t, service.UpdateNotes(WithActorID(ctx, a.UserID()), a.ID(), "prefers mornings"))
		loaded, err := service.GetAssignment(ctx, a.ID())
		require.NoError(t, err)
		assert.Equal(t, "prefers mornings", loaded.Notes())
	})
}

func TestServiceAuthorizationPort(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, locID, depID := setupBusiness(t, ctx)
	ownerID, _ := bootstrapOwner(t, ctx, service, bizID)
	ownerCtx := WithActorID(ctx, ownerID)

	staffID := uniqueID("staff")
	_, err := service.Assign(ownerCtx, AssignInput{
		UserID:  staffID,
		Role:    RoleStaff,
		Context: Context{BusinessID: bizID, LocationID: locID},
	})
	require.NoError(t, err)

	t.Run("HasPermission", func(t *testing.T) {
		ok, err := service.HasPermission(ctx, staffID, PermViewServices, Context{BusinessID: bizID, LocationID: locID})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = service.HasPermission(ctx, staffID, PermManageAllStaff, Context{BusinessID: bizID, LocationID: locID})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("CanActOnRole", func(t *testing.T) {
		ok, err := service.CanActOnRole(ctx, ownerID, RoleStaff, Context{BusinessID: bizID})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = service.CanActOnRole(ctx, staffID, RoleBusinessOwner, Context{BusinessID: bizID, LocationID: locID})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RequirePermission validates the target against the tree", func(t *testing.T) {
		target := Context{BusinessID: bizID, LocationID: locID, DepartmentID: depID}
		assert.NoError(t, service.RequirePermission(ctx, ownerID, PermManageAllStaff, target))

		// Existing permission, nonexistent department.
		bad := Context{BusinessID: bizID, LocationID: locID, DepartmentID: uniqueID("dep")}
		err := service.RequirePermission(ctx, ownerID, PermManageAllStaff, bad)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("GetCheckerFromContext", func(t *testing.T) {
		checker, err := service.GetCheckerFromContext(WithUserID(ctx, staffID))
		require.NoError(t, err)
		assert.Equal(t, staffID, checker.UserID())
		assert.False(t, checker.IsEmpty())

		_, err = service.GetCheckerFromContext(ctx)
		assert.ErrorIs(t, err, ErrNoUserID)
	})

	t.Run("GetBusinessAssignments", func(t *testing.T) {
		assignments, err := service.GetBusinessAssignments(ctx, bizID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(assignments), 2)
	})
}

func TestServiceAuditLog(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, _, _ := setupBusiness(t, ctx)
	ownerID, _ := bootstrapOwner(t, ctx, service, bizID)

	ownerCtx := WithAuditContext(ctx, AuditContext{
		ActorID:   ownerID,
		IPAddress: "203.0.113.9",
		UserAgent: "booking-app/2.1",
		RequestID: uniqueID("req"),
	})

	staffID := uniqueID("staff")
	a, err := service.Assign(ownerCtx, AssignInput{
		UserID:  staffID,
		Role:    RoleStaff,
		Context: Context{BusinessID: bizID},
	})
	require.NoError(t, err)
	require.NoError(t, service.Revoke(ownerCtx, a.ID()))

	t.Run("Entries recorded per action", func(t *testing.T) {
		logs, err := service.GetAuditLog(ctx, NewAuditLogFilter().WithTargetUser(staffID))
		require.NoError(t, err)
		require.Len(t, logs, 2)

		// Most recent first.
		assert.Equal(t, string(AuditActionRevoked), logs[0].Action)
		assert.Equal(t, string(AuditActionAssigned), logs[1].Action)
		assert.Equal(t, ownerID, logs[0].ActorID)
		assert.Equal(t, "203.0.113.9", logs[0].IPAddress)
	})

	t.Run("Filter by action and business", func(t *testing.T) {
		logs, err := service.GetAuditLog(ctx, NewAuditLogFilter().
			WithBusiness(bizID).
			WithAction(AuditActionAssigned))
		require.NoError(t, err)
		require.NotEmpty(t, logs)
		for _, l := range logs {
			assert.Equal(t, string(AuditActionAssigned), l.Action)
			assert.Equal(t, bizID, l.BusinessID)
		}
	})

	t.Run("Filter by role", func(t *testing.T) {
		logs, err := service.GetAuditLog(ctx, NewAuditLogFilter().
			WithBusiness(bizID).
			WithRole(RoleBusinessOwner))
		require.NoError(t, err)
		require.NotEmpty(t, logs)
		for _, l := range logs {
			assert.Equal(t, RoleBusinessOwner.String(), l.Role)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		page, err := service.GetAuditLog(ctx, NewAuditLogFilter().
			WithTargetUser(staffID).
			WithPagination(1, 0))
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}

func TestServiceHealth(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	assert.True(t, service.IsHealthy(ctx))
	assert.NoError(t, service.Ping(ctx))

	status := service.Health(ctx)
	assert.True(t, status.Healthy)

	stats := service.GetPoolStats()
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}
