package accesskit

// Permission is a named capability. Permissions form a closed set; equality
// is by name.
type Permission string

// String returns the permission name.
func (p Permission) String() string {
	return string(p)
}

// Appointment permissions.
const (
	PermBookAppointment       Permission = "BOOK_APPOINTMENT"
	PermCancelOwnAppointment  Permission = "CANCEL_OWN_APPOINTMENT"
	PermCancelAnyAppointment  Permission = "CANCEL_ANY_APPOINTMENT"
	PermViewOwnAppointments   Permission = "VIEW_OWN_APPOINTMENTS"
	PermViewAllAppointments   Permission = "VIEW_ALL_APPOINTMENTS"
	PermRescheduleAppointment Permission = "RESCHEDULE_APPOINTMENT"
)

// Staff permissions.
const (
	PermManageAllStaff        Permission = "MANAGE_ALL_STAFF"
	PermManageLocationStaff   Permission = "MANAGE_LOCATION_STAFF"
	PermManageDepartmentStaff Permission = "MANAGE_DEPARTMENT_STAFF"
	PermViewStaff             Permission = "VIEW_STAFF"
	PermAssignRoles           Permission = "ASSIGN_ROLES"
)

// Service and skill permissions.
const (
	PermManageServices Permission = "MANAGE_SERVICES"
	PermViewServices   Permission = "VIEW_SERVICES"
	PermManageSkills   Permission = "MANAGE_SKILLS"
	PermViewSkills     Permission = "VIEW_SKILLS"
)

// Schedule permissions.
const (
	PermManageSchedules   Permission = "MANAGE_SCHEDULES"
	PermViewOwnSchedule   Permission = "VIEW_OWN_SCHEDULE"
	PermManageOwnSchedule Permission = "MANAGE_OWN_SCHEDULE"
)

// Business administration permissions.
const (
	PermManageBusiness    Permission = "MANAGE_BUSINESS"
	PermManageLocations   Permission = "MANAGE_LOCATIONS"
	PermManageDepartments Permission = "MANAGE_DEPARTMENTS"
	PermViewReports       Permission = "VIEW_REPORTS"
	PermManageBilling     Permission = "MANAGE_BILLING"
)

// Platform administration permissions. Never granted through
// business-scoped assignments.
const (
	PermManagePlatform      Permission = "MANAGE_PLATFORM"
	PermManageAllBusinesses Permission = "MANAGE_ALL_BUSINESSES"
	PermImpersonateUsers    Permission = "IMPERSONATE_USERS"
)

// AllPermissions returns the full permission catalog as a fresh slice.
func AllPermissions() []Permission {
	return []Permission{
		PermBookAppointment,
		PermCancelOwnAppointment,
		PermCancelAnyAppointment,
		PermViewOwnAppointments,
		PermViewAllAppointments,
		PermRescheduleAppointment,
		PermManageAllStaff,
		PermManageLocationStaff,
		PermManageDepartmentStaff,
		PermViewStaff,
		PermAssignRoles,
		PermManageServices,
		PermViewServices,
		PermManageSkills,
		PermViewSkills,
		PermManageSchedules,
		PermViewOwnSchedule,
		PermManageOwnSchedule,
		PermManageBusiness,
		PermManageLocations,
		PermManageDepartments,
		PermViewReports,
		PermManageBilling,
		PermManagePlatform,
		PermManageAllBusinesses,
		PermImpersonateUsers,
	}
}

// containsPermission reports whether perms contains p.
func containsPermission(perms []Permission, p Permission) bool {
	for _, q := range perms {
		if q == p {
			return true
		}
	}
	return false
}
