package accesskit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Service wires the decision core to storage: it loads role assignments and
// business trees through dbkit, rebuilds the in-memory entities, and exposes
// the authorization port consumed by the booking, staff and skill use cases.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Authorization denials are
// returned as ErrUnauthorized and are expected outcomes; structural
// validation errors from the entities propagate unchanged.
//
// Example:
//
//	err := service.RequirePermission(ctx, userID, accesskit.PermBookAppointment, target)
//	if err != nil {
//	    if accesskit.IsUnauthorized(err) {
//	        // present "access denied"
//	    } else {
//	        // internal error
//	    }
//	}
type Service struct {
	db      dbkit.IDB
	catalog *Catalog
}

// NewService creates a new AccessKit service.
//
// Example:
//
//	catalog := accesskit.DefaultCatalog()
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := accesskit.NewService(catalog, db)
func NewService(catalog *Catalog, db dbkit.IDB) *Service {
	return &Service{
		db:      db,
		catalog: catalog,
	}
}

// Catalog returns the role catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// GetChecker loads a user's assignments and creates a Checker.
// This can be stored in context for efficient permission checking in
// handlers.
func (s *Service) GetChecker(ctx context.Context, userID string) (*Checker, error) {
	assignments, err := s.GetUserAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewChecker(userID, assignments, s.catalog), nil
}

// GetCheckerFromContext creates a Checker using the user ID from context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	userID := GetUserID(ctx)
	if userID == "" {
		return nil, ErrNoUserID
	}
	return s.GetChecker(ctx, userID)
}

// ============================================================================
// AUTHORIZATION PORT
// ============================================================================

// HasPermission reports whether the user holds the permission in the target
// context through any live assignment.
func (s *Service) HasPermission(ctx context.Context, userID string, p Permission, target Context) (bool, error) {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false, err
	}
	return checker.HasPermission(p, target), nil
}

// CanActOnRole reports whether the user outranks the target role in the
// target context.
func (s *Service) CanActOnRole(ctx context.Context, userID string, targetRole Role, target Context) (bool, error) {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false, err
	}
	return checker.CanActOnRole(targetRole, target), nil
}

// RequirePermission is the full authorization composition: the target
// context must exist in the business tree, and the user must hold the
// permission there. Denials unwrap to ErrUnauthorized.
func (s *Service) RequirePermission(ctx context.Context, userID string, p Permission, target Context) error {
	tree, err := s.GetBusinessContext(ctx, target.BusinessID)
	if err != nil {
		return err
	}
	if !tree.IsValidContext(target) {
		return NewError(ErrUnauthorized, "target context is not valid for this business").
			WithUser(userID).
			WithContext(target)
	}

	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return err
	}
	return checker.RequirePermission(p, target)
}

// ============================================================================
// AUDIT LOG
// ============================================================================

// GetAuditLog retrieves audit log entries with optional filters.
func (s *Service) GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]AssignmentAuditLog, error) {
	var logs []AssignmentAuditLog
	q := s.db.NewSelect().Model(&logs)
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.TargetUserID != "" {
		q = q.Where("target_user_id = ?", filter.TargetUserID)
	}
	if filter.BusinessID != "" {
		q = q.Where("business_id = ?", filter.BusinessID)
	}
	if filter.LocationID != "" {
		q = q.Where("location_id = ?", filter.LocationID)
	}
	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role.String())
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("timestamp DESC")
	err := dbkit.WithErr1(q.Scan(ctx), "GetAuditLog").Err()
	if err != nil {
		return nil, err
	}

	return logs, nil
}

func (s *Service) logAudit(ctx context.Context, entry *AuditEntry) error {
	_, err := s.db.NewInsert().Model(entry.ToModel()).Exec(ctx)
	return dbkit.WithErr1(err, "LogAudit").Err()
}
