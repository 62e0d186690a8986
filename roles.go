package accesskit

// Role is a named identifier from the closed role enumeration.
type Role string

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Platform tier. Reserved for platform-wide administration and never
// assignable within a business scope.
const (
	RolePlatformAdmin Role = "PLATFORM_ADMIN"
	RoleSupportAgent  Role = "SUPPORT_AGENT"
)

// Business tier. Assigned at business level only.
const (
	RoleBusinessOwner Role = "BUSINESS_OWNER"
	RoleBusinessAdmin Role = "BUSINESS_ADMIN"
)

// Location and department tiers.
const (
	RoleLocationManager Role = "LOCATION_MANAGER"
	RoleDepartmentHead  Role = "DEPARTMENT_HEAD"
)

// Staff tier. Assignable at any level of the business hierarchy.
const (
	RoleSeniorStaff  Role = "SENIOR_STAFF"
	RoleStaff        Role = "STAFF"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleClient       Role = "CLIENT"
)

// RoleScope describes at which level of the business hierarchy a role may
// be assigned.
type RoleScope string

const (
	// RoleScopePlatform marks roles reserved for platform administration.
	// They must never appear in a business-scoped assignment.
	RoleScopePlatform RoleScope = "platform"

	// RoleScopeBusiness roles must have neither location nor department.
	RoleScopeBusiness RoleScope = "business"

	// RoleScopeLocation roles must have a location and no department.
	RoleScopeLocation RoleScope = "location"

	// RoleScopeDepartment roles must have a department.
	RoleScopeDepartment RoleScope = "department"

	// RoleScopeAny roles may be assigned at any level.
	RoleScopeAny RoleScope = "any"
)

// AssignmentScope is the most specific level at which an assignment applies.
type AssignmentScope string

const (
	ScopeBusiness   AssignmentScope = "BUSINESS"
	ScopeLocation   AssignmentScope = "LOCATION"
	ScopeDepartment AssignmentScope = "DEPARTMENT"
)
