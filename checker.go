package accesskit

// Checker answers authorization questions for a single user from their
// loaded role assignments. It is typically created by the Service and stored
// in context for use in handlers.
//
// All checks are pure predicates: the checker never mutates state while
// answering a question. Liveness (active, unexpired), scope
// (MatchesContext) and capability (permission or authority) are evaluated
// independently per assignment.
type Checker struct {
	userID      string
	assignments []*RoleAssignment
	catalog     *Catalog
}

// NewChecker creates a Checker for a user.
func NewChecker(userID string, assignments []*RoleAssignment, catalog *Catalog) *Checker {
	return &Checker{
		userID:      userID,
		assignments: assignments,
		catalog:     catalog,
	}
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.userID
}

// Assignments returns the loaded assignments.
func (c *Checker) Assignments() []*RoleAssignment {
	return c.assignments
}

// IsEmpty returns true if the user has no role assignments.
func (c *Checker) IsEmpty() bool {
	return len(c.assignments) == 0
}

// HasPermission reports whether any live assignment covering the target
// context grants the permission.
//
// Example:
//
//	target := accesskit.Context{BusinessID: bizID, LocationID: locID}
//	if checker.HasPermission(accesskit.PermBookAppointment, target) {
//	    // user can book at this location
//	}
func (c *Checker) HasPermission(p Permission, target Context) bool {
	for _, a := range c.assignments {
		if a.MatchesContext(target) && a.HasPermission(c.catalog, p) {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of the
// permissions in the target context.
func (c *Checker) HasAnyPermission(perms []Permission, target Context) bool {
	for _, p := range perms {
		if c.HasPermission(p, target) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every permission in the
// target context.
func (c *Checker) HasAllPermissions(perms []Permission, target Context) bool {
	for _, p := range perms {
		if !c.HasPermission(p, target) {
			return false
		}
	}
	return true
}

// RequirePermission returns nil when the user holds the permission in the
// target context, and an ErrUnauthorized error otherwise. Denial is an
// expected outcome, distinguishable from structural errors via
// IsUnauthorized.
func (c *Checker) RequirePermission(p Permission, target Context) error {
	if c.HasPermission(p, target) {
		return nil
	}
	return NewError(ErrUnauthorized, "missing permission "+p.String()).
		WithUser(c.userID).
		WithContext(target)
}

// CanActOnRole reports whether the user outranks the target role through a
// live assignment covering the target context.
func (c *Checker) CanActOnRole(target Role, targetCtx Context) bool {
	for _, a := range c.assignments {
		if a.MatchesContext(targetCtx) && a.CanActOnRole(c.catalog, target) {
			return true
		}
	}
	return false
}

// HasRole reports whether the user holds the role live in the target
// context.
func (c *Checker) HasRole(role Role, target Context) bool {
	for _, a := range c.assignments {
		if a.Role() == role && a.MatchesContext(target) && a.isLive() {
			return true
		}
	}
	return false
}

// EffectivePermissions returns the union of permissions granted by live
// assignments covering the target context.
func (c *Checker) EffectivePermissions(target Context) []Permission {
	seen := make(map[Permission]bool)
	var out []Permission
	for _, a := range c.assignments {
		if !a.MatchesContext(target) {
			continue
		}
		for _, p := range a.EffectivePermissions(c.catalog) {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// BusinessIDs returns the distinct businesses the user has assignments in,
// live or not.
func (c *Checker) BusinessIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range c.assignments {
		id := a.Context().BusinessID
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
