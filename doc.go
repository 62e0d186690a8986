// Package accesskit provides role-based access control for multi-location
// service businesses (clinics, salons, offices).
//
// AccessKit models a business as a hierarchy of Business → Locations →
// Departments and binds users to roles at one of those levels through
// RoleAssignments. A closed permission catalog and an integer role hierarchy
// decide which operations a user may perform and which other roles they may
// act upon.
//
// # Core Concepts
//
// Permission: A named capability like PermBookAppointment or
// PermManageAllStaff. Permissions form a closed set defined by the Catalog.
//
// Role: A named entry in the Catalog with a permission list, an integer
// authority level and a scope requirement (platform, business, location,
// department, or any).
//
// Context: The (BusinessID, LocationID, DepartmentID) tuple an assignment or
// an action applies to. BusinessID is always required; LocationID and
// DepartmentID narrow the scope.
//
// RoleAssignment: The binding of a user to a role within a context, with its
// own lifecycle: activation, optional expiration, notes. Assignments are
// immutable values; lifecycle operations return a new assignment.
//
// BusinessContext: The in-memory tree of a business's locations and
// departments, used to validate that a target context actually exists.
//
// # Basic Usage
//
//	// 1. Build or load the role catalog (at application startup)
//	catalog := accesskit.DefaultCatalog()
//
//	// 2. Create the service
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := accesskit.NewService(catalog, db)
//
//	// 3. Run migrations
//	db.Migrate(ctx, service.Migrations())
//
//	// 4. Assign roles
//	service.Assign(ctx, accesskit.AssignInput{
//	    UserID:  userID,
//	    Role:    accesskit.RoleLocationManager,
//	    Context: accesskit.Context{BusinessID: bizID, LocationID: locID},
//	})
//
//	// 5. Check permissions
//	target := accesskit.Context{BusinessID: bizID, LocationID: locID}
//	if ok, _ := service.HasPermission(ctx, userID, accesskit.PermManageLocationStaff, target); ok {
//	    // user manages staff at this location
//	}
//
// # Decision Rules
//
// Permission checks combine three independent predicates, all pure and free
// of side effects:
//
//   - liveness: the assignment is active and not expired
//   - scope: the assignment's context covers the target context; a
//     business-level assignment covers every location and department of the
//     business, a location-level assignment covers exactly its location, and
//     a department-level assignment covers exactly its department
//   - capability: the assignment's role carries the required permission
//
// Role-on-role authority uses the integer hierarchy: role A can act on role B
// only when A's level is strictly greater than B's. Equal levels never
// outrank each other.
//
// # Validity vs Existence
//
// Two distinct validations are kept deliberately separate. NewRoleAssignment
// checks shape validity: that the role is allowed at the supplied context
// level. BusinessContext.IsValidContext checks referential validity: that the
// target location and department actually exist in the business tree. The
// first runs at assignment creation, the second at authorization time.
package accesskit
