package accesskit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// BUSINESS TREE OPERATIONS
// ============================================================================

// CreateBusiness validates and persists a new business root.
func (s *Service) CreateBusiness(ctx context.Context, businessID, businessName string) (*BusinessContext, error) {
	tree, err := NewBusinessContext(businessID, businessName)
	if err != nil {
		return nil, err
	}

	record := &BusinessRecord{
		ID:       tree.BusinessID,
		Name:     tree.BusinessName,
		IsActive: tree.Active,
	}
	result, err := s.db.NewInsert().Model(record).Exec(ctx)
	err = dbkit.WithErr(result, err, "CreateBusiness").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to create business").
			WithContext(Context{BusinessID: businessID})
	}

	return tree, nil
}

// AddLocation adds a location to a business. Duplicate location IDs are
// rejected before touching storage.
func (s *Service) AddLocation(ctx context.Context, businessID, locationID, locationName string) (*BusinessContext, error) {
	tree, err := s.GetBusinessContext(ctx, businessID)
	if err != nil {
		return nil, err
	}

	next, err := tree.AddLocation(NewLocation(locationID, locationName))
	if err != nil {
		return nil, err
	}

	record := &LocationRecord{
		ID:         locationID,
		BusinessID: businessID,
		Name:       locationName,
		IsActive:   true,
	}
	result, err := s.db.NewInsert().Model(record).Exec(ctx)
	err = dbkit.WithErr(result, err, "AddLocation").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrLocationExists, "location "+locationID+" already exists").
				WithContext(Context{BusinessID: businessID, LocationID: locationID})
		}
		return nil, err
	}

	return next, nil
}

// AddDepartment adds a department to a location of a business.
func (s *Service) AddDepartment(ctx context.Context, businessID, locationID, departmentID, departmentName string) (*BusinessContext, error) {
	tree, err := s.GetBusinessContext(ctx, businessID)
	if err != nil {
		return nil, err
	}

	next, err := tree.AddDepartmentToLocation(locationID, NewDepartment(departmentID, departmentName))
	if err != nil {
		return nil, err
	}

	record := &DepartmentRecord{
		ID:         departmentID,
		LocationID: locationID,
		BusinessID: businessID,
		Name:       departmentName,
		IsActive:   true,
	}
	result, err := s.db.NewInsert().Model(record).Exec(ctx)
	err = dbkit.WithErr(result, err, "AddDepartment").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDepartmentExists, "department "+departmentID+" already exists").
				WithContext(Context{BusinessID: businessID, LocationID: locationID, DepartmentID: departmentID})
		}
		return nil, err
	}

	return next, nil
}

// DeactivateBusinessLocation marks a location inactive. Existing role
// assignments referencing the location are untouched; they simply stop
// passing referential validation for new actions.
func (s *Service) DeactivateBusinessLocation(ctx context.Context, businessID, locationID string) (*BusinessContext, error) {
	tree, err := s.GetBusinessContext(ctx, businessID)
	if err != nil {
		return nil, err
	}

	next, err := tree.DeactivateLocation(locationID)
	if err != nil {
		return nil, err
	}

	result, err := s.db.NewUpdate().Table("business_locations").
		Set("is_active = ?", false).
		Where("id = ? AND business_id = ?", locationID, businessID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "DeactivateBusinessLocation").Err()
	if err != nil {
		return nil, err
	}

	return next, nil
}

// GetBusinessContext loads a business and assembles its full location and
// department tree.
func (s *Service) GetBusinessContext(ctx context.Context, businessID string) (*BusinessContext, error) {
	var business BusinessRecord
	err := dbkit.WithErr1(s.db.NewSelect().Model(&business).Where("id = ?", businessID).Limit(1).Scan(ctx), "GetBusiness").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrBusinessNotFound, "business "+businessID+" not found").
				WithContext(Context{BusinessID: businessID})
		}
		return nil, err
	}

	var locations []LocationRecord
	err = dbkit.WithErr1(s.db.NewSelect().Model(&locations).Where("business_id = ?", businessID).Order("created_at ASC").Scan(ctx), "GetBusinessLocations").Err()
	if err != nil {
		return nil, err
	}

	var departments []DepartmentRecord
	err = dbkit.WithErr1(s.db.NewSelect().Model(&departments).Where("business_id = ?", businessID).Order("created_at ASC").Scan(ctx), "GetBusinessDepartments").Err()
	if err != nil {
		return nil, err
	}

	byLocation := make(map[string][]DepartmentContext, len(locations))
	for _, d := range departments {
		byLocation[d.LocationID] = append(byLocation[d.LocationID], DepartmentContext{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			Active:         d.IsActive,
		})
	}

	tree := &BusinessContext{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		Active:       business.IsActive,
		Locations:    make([]LocationContext, 0, len(locations)),
	}
	for _, l := range locations {
		tree.Locations = append(tree.Locations, LocationContext{
			LocationID:   l.ID,
			LocationName: l.Name,
			Departments:  byLocation[l.ID],
			Active:       l.IsActive,
		})
	}

	return tree, nil
}
