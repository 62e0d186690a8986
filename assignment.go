package accesskit

import (
	"time"

	"github.com/google/uuid"
)

// Context is the business hierarchy position an assignment or an action
// applies to. BusinessID is always required; LocationID and DepartmentID
// narrow the scope.
type Context struct {
	BusinessID   string
	LocationID   string
	DepartmentID string
}

// String returns a compact representation for errors and audit entries.
func (c Context) String() string {
	s := c.BusinessID
	if c.LocationID != "" {
		s += "/" + c.LocationID
	}
	if c.DepartmentID != "" {
		s += "/" + c.DepartmentID
	}
	return s
}

// RoleAssignment binds a user to a role within a business context.
//
// Assignments are immutable values: every lifecycle operation returns a new
// assignment and the persistence layer replaces the stored record. The
// original system mutated deactivation in place while copying everywhere
// else; that asymmetry was dropped here in favor of one discipline.
type RoleAssignment struct {
	id         string
	userID     string
	role       Role
	context    Context
	assignedBy string
	assignedAt time.Time
	expiresAt  *time.Time
	active     bool
	notes      string
}

// NewRoleAssignment validates and creates a role assignment. Validation runs
// in order: business ID present, platform-reserved roles rejected,
// department-without-location rejected, role/context-level compatibility.
// On any failure a typed error is returned and no assignment is constructed.
func NewRoleAssignment(cat *Catalog, userID string, role Role, c Context, assignedBy string, expiresAt *time.Time, notes string) (*RoleAssignment, error) {
	if err := validateRoleContext(cat, userID, role, c); err != nil {
		return nil, err
	}

	a := &RoleAssignment{
		id:         uuid.NewString(),
		userID:     userID,
		role:       role,
		context:    c,
		assignedBy: assignedBy,
		assignedAt: time.Now().UTC(),
		active:     true,
		notes:      notes,
	}
	if expiresAt != nil {
		t := expiresAt.UTC()
		a.expiresAt = &t
	}
	return a, nil
}

// ValidateRoleContext checks whether a role may be assigned at the supplied
// context level. This is the same check NewRoleAssignment runs; it is
// exposed so callers can validate a pair without constructing anything.
func ValidateRoleContext(cat *Catalog, role Role, c Context) error {
	return validateRoleContext(cat, "", role, c)
}

func validateRoleContext(cat *Catalog, userID string, role Role, c Context) error {
	if c.BusinessID == "" {
		return NewError(ErrMissingBusinessID, "assignment context requires a business ID").
			WithRole(role).
			WithUser(userID)
	}

	if cat.IsPlatformRole(role) {
		return NewError(ErrPlatformRole, "role "+role.String()+" is reserved for platform administration").
			WithRole(role).
			WithUser(userID).
			WithContext(c)
	}

	if c.DepartmentID != "" && c.LocationID == "" {
		return NewError(ErrDepartmentWithoutLocation, "department "+c.DepartmentID+" has no location").
			WithRole(role).
			WithUser(userID).
			WithContext(c)
	}

	switch cat.ScopeOf(role) {
	case RoleScopeBusiness:
		if c.LocationID != "" || c.DepartmentID != "" {
			return NewError(ErrBusinessLevelRole, "role "+role.String()+" cannot be scoped to a location or department").
				WithRole(role).
				WithUser(userID).
				WithContext(c)
		}
	case RoleScopeLocation:
		if c.LocationID == "" || c.DepartmentID != "" {
			return NewError(ErrLocationLevelRole, "role "+role.String()+" requires a location and no department").
				WithRole(role).
				WithUser(userID).
				WithContext(c)
		}
	case RoleScopeDepartment:
		if c.DepartmentID == "" {
			return NewError(ErrDepartmentLevelRole, "role "+role.String()+" requires a department").
				WithRole(role).
				WithUser(userID).
				WithContext(c)
		}
	}

	return nil
}

// AssignmentData carries the persisted fields of a role assignment.
type AssignmentData struct {
	ID         string
	UserID     string
	Role       Role
	Context    Context
	AssignedBy string
	AssignedAt time.Time
	ExpiresAt  *time.Time
	Active     bool
	Notes      string
}

// RestoreRoleAssignment rebuilds an assignment from persisted fields without
// re-running validation; the store is trusted. Only the persistence boundary
// should call this.
func RestoreRoleAssignment(data AssignmentData) *RoleAssignment {
	a := &RoleAssignment{
		id:         data.ID,
		userID:     data.UserID,
		role:       data.Role,
		context:    data.Context,
		assignedBy: data.AssignedBy,
		assignedAt: data.AssignedAt,
		active:     data.Active,
		notes:      data.Notes,
	}
	if data.ExpiresAt != nil {
		t := *data.ExpiresAt
		a.expiresAt = &t
	}
	return a
}

// Data returns the persisted fields of the assignment.
func (a *RoleAssignment) Data() AssignmentData {
	data := AssignmentData{
		ID:         a.id,
		UserID:     a.userID,
		Role:       a.role,
		Context:    a.context,
		AssignedBy: a.assignedBy,
		AssignedAt: a.assignedAt,
		Active:     a.active,
		Notes:      a.notes,
	}
	if a.expiresAt != nil {
		t := *a.expiresAt
		data.ExpiresAt = &t
	}
	return data
}

// ID returns the assignment's unique identifier.
func (a *RoleAssignment) ID() string { return a.id }

// UserID returns the user the role is assigned to.
func (a *RoleAssignment) UserID() string { return a.userID }

// Role returns the assigned role.
func (a *RoleAssignment) Role() Role { return a.role }

// Context returns the context the assignment applies to.
func (a *RoleAssignment) Context() Context { return a.context }

// AssignedBy returns the user ID of the granter.
func (a *RoleAssignment) AssignedBy() string { return a.assignedBy }

// AssignedAt returns the creation timestamp.
func (a *RoleAssignment) AssignedAt() time.Time { return a.assignedAt }

// ExpiresAt returns the expiration instant, or nil when the assignment
// never expires.
func (a *RoleAssignment) ExpiresAt() *time.Time {
	if a.expiresAt == nil {
		return nil
	}
	t := *a.expiresAt
	return &t
}

// IsActive reports whether the assignment is active.
func (a *RoleAssignment) IsActive() bool { return a.active }

// Notes returns the free-text notes attached to the assignment.
func (a *RoleAssignment) Notes() string { return a.notes }

// HasExpiredAt reports whether the assignment is expired relative to now.
// An assignment without an expiration never expires. The boundary instant
// is not expired: expiry requires ExpiresAt strictly before now.
func (a *RoleAssignment) HasExpiredAt(now time.Time) bool {
	return a.expiresAt != nil && a.expiresAt.Before(now)
}

// HasExpired reports whether the assignment is expired at the current time.
func (a *RoleAssignment) HasExpired() bool {
	return a.HasExpiredAt(time.Now())
}

// isLive reports whether the assignment currently grants anything.
func (a *RoleAssignment) isLive() bool {
	return a.active && !a.HasExpired()
}

// EffectivePermissions returns the permissions this assignment grants right
// now: the role's permission list when active and unexpired, otherwise an
// empty list. Expiration and deactivation nullify permissions; they never
// delete the assignment.
func (a *RoleAssignment) EffectivePermissions(cat *Catalog) []Permission {
	if !a.isLive() {
		return []Permission{}
	}
	return cat.PermissionsFor(a.role)
}

// HasPermission reports whether this assignment grants p right now.
func (a *RoleAssignment) HasPermission(cat *Catalog, p Permission) bool {
	if !a.isLive() {
		return false
	}
	return cat.HasPermission(a.role, p)
}

// CanActOnRole reports whether this assignment's role may act upon target.
// Inactive or expired assignments carry no authority.
func (a *RoleAssignment) CanActOnRole(cat *Catalog, target Role) bool {
	if !a.isLive() {
		return false
	}
	return cat.CanActOn(a.role, target)
}

// MatchesContext reports whether this assignment authorizes action in the
// target context. The business must match exactly; a business-scoped
// assignment then covers any target in that business, a location-scoped
// assignment covers only its exact location, and a department-scoped
// assignment covers only its exact department. The match narrows strictly:
// a department-scoped assignment does not cover a location-only target.
func (a *RoleAssignment) MatchesContext(target Context) bool {
	if a.context.BusinessID != target.BusinessID {
		return false
	}
	if a.context.DepartmentID != "" {
		return target.DepartmentID == a.context.DepartmentID
	}
	if a.context.LocationID != "" {
		return target.LocationID == a.context.LocationID
	}
	return true
}

// Scope returns the most specific level the assignment applies at.
func (a *RoleAssignment) Scope() AssignmentScope {
	switch {
	case a.context.DepartmentID != "":
		return ScopeDepartment
	case a.context.LocationID != "":
		return ScopeLocation
	default:
		return ScopeBusiness
	}
}

// Deactivate returns a deactivated copy of the assignment, or the receiver
// unchanged when already inactive.
func (a *RoleAssignment) Deactivate() *RoleAssignment {
	if !a.active {
		return a
	}
	b := a.clone()
	b.active = false
	return b
}

// Activate returns an activated copy of the assignment, or the receiver
// unchanged when already active.
func (a *RoleAssignment) Activate() *RoleAssignment {
	if a.active {
		return a
	}
	b := a.clone()
	b.active = true
	return b
}

// ExtendExpiration returns a copy expiring at t. The new instant must be
// strictly in the future.
func (a *RoleAssignment) ExtendExpiration(t time.Time) (*RoleAssignment, error) {
	if !t.After(time.Now()) {
		return nil, NewError(ErrExpiryNotFuture, "new expiration "+t.Format(time.RFC3339)+" is not in the future").
			WithRole(a.role).
			WithUser(a.userID).
			WithContext(a.context)
	}
	b := a.clone()
	u := t.UTC()
	b.expiresAt = &u
	return b, nil
}

// UpdateNotes returns a copy carrying the new notes.
func (a *RoleAssignment) UpdateNotes(notes string) *RoleAssignment {
	b := a.clone()
	b.notes = notes
	return b
}

func (a *RoleAssignment) clone() *RoleAssignment {
	b := *a
	if a.expiresAt != nil {
		t := *a.expiresAt
		b.expiresAt = &t
	}
	return &b
}
