package accesskit

import "sync"

// Catalog holds the role definitions for the application: the permissions
// each role grants, its authority level and its scope requirement. It is
// created at startup and should be treated as immutable after initialization.
//
// Lookups against an unknown role never fail: they resolve to an empty
// permission list and level 0 so that stale or foreign role names cannot
// become a crash surface.
type Catalog struct {
	mu    sync.RWMutex
	roles map[Role]*RoleDefinition
}

// RoleDefinition defines a single role: its permissions, its integer
// authority level and the hierarchy level it may be assigned at.
type RoleDefinition struct {
	name        Role
	level       int
	scope       RoleScope
	permissions []Permission
	catalog     *Catalog
}

// NewCatalog creates an empty role catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		roles: make(map[Role]*RoleDefinition),
	}
}

// Role starts defining a new role. Returns a RoleDefinition builder for
// fluent configuration.
//
// Example:
//
//	catalog.Role(accesskit.RoleBusinessOwner).
//	    Level(80).
//	    Scope(accesskit.RoleScopeBusiness).
//	    Permissions(accesskit.PermManageBusiness, accesskit.PermManageAllStaff)
func (c *Catalog) Role(name Role) *RoleDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()

	def := &RoleDefinition{
		name:    name,
		scope:   RoleScopeAny,
		catalog: c,
	}
	c.roles[name] = def
	return def
}

// Level sets the authority level for this role. Higher outranks lower.
func (d *RoleDefinition) Level(level int) *RoleDefinition {
	d.level = level
	return d
}

// Scope sets the hierarchy level this role may be assigned at.
func (d *RoleDefinition) Scope(scope RoleScope) *RoleDefinition {
	d.scope = scope
	return d
}

// Permissions appends permissions granted by this role.
func (d *RoleDefinition) Permissions(perms ...Permission) *RoleDefinition {
	d.permissions = append(d.permissions, perms...)
	return d
}

// Role continues defining roles on the parent catalog (fluent API).
func (d *RoleDefinition) Role(name Role) *RoleDefinition {
	return d.catalog.Role(name)
}

// Name returns the role name.
func (d *RoleDefinition) Name() Role {
	return d.name
}

// Defined reports whether a role exists in the catalog.
func (c *Catalog) Defined(role Role) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.roles[role]
	return ok
}

// Roles returns all defined role names.
func (c *Catalog) Roles() []Role {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]Role, 0, len(c.roles))
	for name := range c.roles {
		names = append(names, name)
	}
	return names
}

// PermissionsFor returns the deduplicated permission list for a role.
// The result is always a fresh copy, never the internal slice. Unknown
// roles resolve to an empty list.
func (c *Catalog) PermissionsFor(role Role) []Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.roles[role]
	if !ok {
		return []Permission{}
	}

	seen := make(map[Permission]bool, len(def.permissions))
	out := make([]Permission, 0, len(def.permissions))
	for _, p := range def.permissions {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// LevelOf returns the authority level for a role. Unknown roles resolve
// to level 0, below every defined role.
func (c *Catalog) LevelOf(role Role) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.roles[role]
	if !ok {
		return 0
	}
	return def.level
}

// ScopeOf returns the scope requirement for a role. Unknown roles resolve
// to RoleScopeAny; they are caught earlier by assignment validation when
// it matters.
func (c *Catalog) ScopeOf(role Role) RoleScope {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.roles[role]
	if !ok {
		return RoleScopeAny
	}
	return def.scope
}

// IsPlatformRole reports whether a role is reserved for platform
// administration.
func (c *Catalog) IsPlatformRole(role Role) bool {
	return c.ScopeOf(role) == RoleScopePlatform
}

// CanActOn reports whether role a may act upon role b. The rule is a single
// strict inequality over authority levels: equal levels, including two
// holders of the same role, never outrank each other.
func (c *Catalog) CanActOn(a, b Role) bool {
	return c.LevelOf(a) > c.LevelOf(b)
}

// HasPermission reports whether a role's nominal permission list contains p.
// This ignores assignment liveness; see RoleAssignment.HasPermission for the
// gated check.
func (c *Catalog) HasPermission(role Role, p Permission) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.roles[role]
	if !ok {
		return false
	}
	return containsPermission(def.permissions, p)
}

// DefaultCatalog returns the standard appointment-booking role catalog.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Role(RolePlatformAdmin).
		Level(100).
		Scope(RoleScopePlatform).
		Permissions(
			PermManagePlatform, PermManageAllBusinesses, PermImpersonateUsers,
			PermManageBusiness, PermManageLocations, PermManageDepartments,
			PermManageAllStaff, PermAssignRoles, PermViewStaff,
			PermViewAllAppointments, PermViewReports,
		).
		Role(RoleSupportAgent).
		Level(90).
		Scope(RoleScopePlatform).
		Permissions(
			PermManageAllBusinesses, PermViewAllAppointments,
			PermViewStaff, PermViewReports,
		).
		Role(RoleBusinessOwner).
		Level(80).
		Scope(RoleScopeBusiness).
		Permissions(
			PermManageBusiness, PermManageLocations, PermManageDepartments,
			PermManageAllStaff, PermAssignRoles, PermViewStaff,
			PermManageServices, PermViewServices, PermManageSkills, PermViewSkills,
			PermManageSchedules, PermViewAllAppointments, PermCancelAnyAppointment,
			PermRescheduleAppointment, PermViewReports, PermManageBilling,
		).
		Role(RoleBusinessAdmin).
		Level(70).
		Scope(RoleScopeBusiness).
		Permissions(
			PermManageLocations, PermManageDepartments,
			PermManageAllStaff, PermAssignRoles, PermViewStaff,
			PermManageServices, PermViewServices, PermManageSkills, PermViewSkills,
			PermManageSchedules, PermViewAllAppointments, PermCancelAnyAppointment,
			PermRescheduleAppointment, PermViewReports,
		).
		Role(RoleLocationManager).
		Level(60).
		Scope(RoleScopeLocation).
		Permissions(
			PermManageLocationStaff, PermViewStaff, PermAssignRoles,
			PermManageSchedules, PermViewAllAppointments, PermCancelAnyAppointment,
			PermRescheduleAppointment, PermViewServices, PermViewSkills,
			PermViewReports,
		).
		Role(RoleDepartmentHead).
		Level(50).
		Scope(RoleScopeDepartment).
		Permissions(
			PermManageDepartmentStaff, PermViewStaff,
			PermManageSchedules, PermViewAllAppointments,
			PermRescheduleAppointment, PermViewServices, PermViewSkills,
		).
		Role(RoleSeniorStaff).
		Level(40).
		Scope(RoleScopeAny).
		Permissions(
			PermViewStaff, PermViewAllAppointments, PermRescheduleAppointment,
			PermViewServices, PermViewSkills,
			PermViewOwnSchedule, PermManageOwnSchedule,
		).
		Role(RoleStaff).
		Level(30).
		Scope(RoleScopeAny).
		Permissions(
			PermViewOwnAppointments, PermViewServices, PermViewSkills,
			PermViewOwnSchedule, PermManageOwnSchedule,
		).
		Role(RoleReceptionist).
		Level(20).
		Scope(RoleScopeAny).
		Permissions(
			PermBookAppointment, PermCancelAnyAppointment, PermRescheduleAppointment,
			PermViewAllAppointments, PermViewServices, PermViewSkills, PermViewStaff,
		).
		Role(RoleClient).
		Level(10).
		Scope(RoleScopeAny).
		Permissions(
			PermBookAppointment, PermCancelOwnAppointment,
			PermViewOwnAppointments, PermViewServices,
		)

	return c
}
