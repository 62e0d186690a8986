package accesskit

import "strings"

// DepartmentContext is a department inside a location.
type DepartmentContext struct {
	DepartmentID   string
	DepartmentName string
	Active         bool
}

// LocationContext is a location inside a business, with its departments.
type LocationContext struct {
	LocationID   string
	LocationName string
	Departments  []DepartmentContext
	Active       bool
}

// BusinessContext is the hierarchical tree of a business's locations and
// departments. It is used to validate that a target context actually exists
// in the organization, independently of any role assignment.
//
// The tree is an immutable value: AddLocation, AddDepartmentToLocation and
// the deactivation operations return a new BusinessContext and leave the
// receiver untouched.
type BusinessContext struct {
	BusinessID   string
	BusinessName string
	Locations    []LocationContext
	Active       bool
}

// NewBusinessContext creates a business context. The business ID must be
// non-empty and the name at least two characters.
func NewBusinessContext(businessID, businessName string) (*BusinessContext, error) {
	if businessID == "" {
		return nil, NewError(ErrInvalidBusiness, "business ID is required")
	}
	if len(strings.TrimSpace(businessName)) < 2 {
		return nil, NewError(ErrInvalidBusiness, "business name must be at least 2 characters").
			WithContext(Context{BusinessID: businessID})
	}
	return &BusinessContext{
		BusinessID:   businessID,
		BusinessName: businessName,
		Active:       true,
	}, nil
}

// NewLocation creates an active location with no departments.
func NewLocation(locationID, locationName string) LocationContext {
	return LocationContext{
		LocationID:   locationID,
		LocationName: locationName,
		Active:       true,
	}
}

// NewDepartment creates an active department.
func NewDepartment(departmentID, departmentName string) DepartmentContext {
	return DepartmentContext{
		DepartmentID:   departmentID,
		DepartmentName: departmentName,
		Active:         true,
	}
}

// AddLocation returns a new tree with the location appended. Location IDs
// are unique within a business regardless of active state.
func (b *BusinessContext) AddLocation(loc LocationContext) (*BusinessContext, error) {
	for _, l := range b.Locations {
		if l.LocationID == loc.LocationID {
			return nil, NewError(ErrLocationExists, "location "+loc.LocationID+" already exists").
				WithContext(Context{BusinessID: b.BusinessID, LocationID: loc.LocationID})
		}
	}

	next := b.clone()
	next.Locations = append(next.Locations, cloneLocation(loc))
	return next, nil
}

// AddDepartmentToLocation returns a new tree with the department appended to
// the named location. The location must exist; department IDs are unique
// within a location regardless of active state.
func (b *BusinessContext) AddDepartmentToLocation(locationID string, dep DepartmentContext) (*BusinessContext, error) {
	idx := b.locationIndex(locationID)
	if idx < 0 {
		return nil, NewError(ErrLocationNotFound, "location "+locationID+" not found").
			WithContext(Context{BusinessID: b.BusinessID, LocationID: locationID})
	}

	for _, d := range b.Locations[idx].Departments {
		if d.DepartmentID == dep.DepartmentID {
			return nil, NewError(ErrDepartmentExists, "department "+dep.DepartmentID+" already exists").
				WithContext(Context{BusinessID: b.BusinessID, LocationID: locationID, DepartmentID: dep.DepartmentID})
		}
	}

	next := b.clone()
	next.Locations[idx].Departments = append(next.Locations[idx].Departments, dep)
	return next, nil
}

// DeactivateLocation returns a new tree with the location marked inactive.
// Role assignments referencing the location are separate aggregates and are
// not touched.
func (b *BusinessContext) DeactivateLocation(locationID string) (*BusinessContext, error) {
	idx := b.locationIndex(locationID)
	if idx < 0 {
		return nil, NewError(ErrLocationNotFound, "location "+locationID+" not found").
			WithContext(Context{BusinessID: b.BusinessID, LocationID: locationID})
	}

	next := b.clone()
	next.Locations[idx].Active = false
	return next, nil
}

// DeactivateDepartment returns a new tree with the department marked
// inactive.
func (b *BusinessContext) DeactivateDepartment(locationID, departmentID string) (*BusinessContext, error) {
	idx := b.locationIndex(locationID)
	if idx < 0 {
		return nil, NewError(ErrLocationNotFound, "location "+locationID+" not found").
			WithContext(Context{BusinessID: b.BusinessID, LocationID: locationID})
	}

	next := b.clone()
	for i, d := range next.Locations[idx].Departments {
		if d.DepartmentID == departmentID {
			next.Locations[idx].Departments[i].Active = false
			return next, nil
		}
	}

	return nil, NewError(ErrDepartmentNotFound, "department "+departmentID+" not found").
		WithContext(Context{BusinessID: b.BusinessID, LocationID: locationID, DepartmentID: departmentID})
}

// Location returns an active location by ID. Inactive locations do not
// participate in lookups.
func (b *BusinessContext) Location(locationID string) (LocationContext, bool) {
	for _, l := range b.Locations {
		if l.LocationID == locationID && l.Active {
			return cloneLocation(l), true
		}
	}
	return LocationContext{}, false
}

// HasLocation reports whether an active location with the ID exists.
func (b *BusinessContext) HasLocation(locationID string) bool {
	_, ok := b.Location(locationID)
	return ok
}

// Department returns an active department of an active location.
func (b *BusinessContext) Department(locationID, departmentID string) (DepartmentContext, bool) {
	loc, ok := b.Location(locationID)
	if !ok {
		return DepartmentContext{}, false
	}
	for _, d := range loc.Departments {
		if d.DepartmentID == departmentID && d.Active {
			return d, true
		}
	}
	return DepartmentContext{}, false
}

// HasDepartment reports whether an active department exists in an active
// location.
func (b *BusinessContext) HasDepartment(locationID, departmentID string) bool {
	_, ok := b.Department(locationID, departmentID)
	return ok
}

// DepartmentRef is a department annotated with its owning location.
type DepartmentRef struct {
	LocationID string
	Department DepartmentContext
}

// AllDepartments flattens the active departments of all active locations.
func (b *BusinessContext) AllDepartments() []DepartmentRef {
	var out []DepartmentRef
	for _, l := range b.Locations {
		if !l.Active {
			continue
		}
		for _, d := range l.Departments {
			if !d.Active {
				continue
			}
			out = append(out, DepartmentRef{LocationID: l.LocationID, Department: d})
		}
	}
	return out
}

// SearchLocationsByName finds active locations by case-insensitive substring
// match. A blank query matches nothing rather than everything.
func (b *BusinessContext) SearchLocationsByName(query string) []LocationContext {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []LocationContext
	for _, l := range b.Locations {
		if l.Active && strings.Contains(strings.ToLower(l.LocationName), q) {
			out = append(out, cloneLocation(l))
		}
	}
	return out
}

// SearchDepartmentsByName finds active departments of active locations by
// case-insensitive substring match. A blank query matches nothing.
func (b *BusinessContext) SearchDepartmentsByName(query string) []DepartmentRef {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []DepartmentRef
	for _, ref := range b.AllDepartments() {
		if strings.Contains(strings.ToLower(ref.Department.DepartmentName), q) {
			out = append(out, ref)
		}
	}
	return out
}

// ContextStats reports total vs active counts for locations and departments.
type ContextStats struct {
	TotalLocations    int
	ActiveLocations   int
	TotalDepartments  int
	ActiveDepartments int
}

// Stats computes counts over the tree. Totals count every location and every
// department regardless of active state, including departments under
// inactive locations; active department counts only consider active
// departments of active locations. The asymmetry is contract: consumers
// display "N of M departments active" against the full tree.
func (b *BusinessContext) Stats() ContextStats {
	var s ContextStats
	for _, l := range b.Locations {
		s.TotalLocations++
		s.TotalDepartments += len(l.Departments)
		if !l.Active {
			continue
		}
		s.ActiveLocations++
		for _, d := range l.Departments {
			if d.Active {
				s.ActiveDepartments++
			}
		}
	}
	return s
}

// IsValidContext reports whether a target context refers to an existing,
// active position in this business: the business must match and be active, a
// named location must exist, and a named department must exist under that
// location. A department without a location is never valid.
func (b *BusinessContext) IsValidContext(target Context) bool {
	if target.BusinessID != b.BusinessID || !b.Active {
		return false
	}
	if target.DepartmentID != "" && target.LocationID == "" {
		return false
	}
	if target.LocationID == "" {
		return true
	}
	if target.DepartmentID != "" {
		return b.HasDepartment(target.LocationID, target.DepartmentID)
	}
	return b.HasLocation(target.LocationID)
}

func (b *BusinessContext) locationIndex(locationID string) int {
	for i, l := range b.Locations {
		if l.LocationID == locationID {
			return i
		}
	}
	return -1
}

func (b *BusinessContext) clone() *BusinessContext {
	next := &BusinessContext{
		BusinessID:   b.BusinessID,
		BusinessName: b.BusinessName,
		Active:       b.Active,
		Locations:    make([]LocationContext, len(b.Locations)),
	}
	for i, l := range b.Locations {
		next.Locations[i] = cloneLocation(l)
	}
	return next
}

func cloneLocation(l LocationContext) LocationContext {
	out := l
	out.Departments = make([]DepartmentContext, len(l.Departments))
	copy(out.Departments, l.Departments)
	return out
}
