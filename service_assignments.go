package accesskit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ROLE ASSIGNMENT OPERATIONS
// ============================================================================

// AssignInput carries the fields for a new role assignment. The assigner is
// taken from the context's actor ID.
type AssignInput struct {
	UserID    string
	Role      Role
	Context   Context
	ExpiresAt *time.Time
	Notes     string
}

// Assign validates and persists a new role assignment.
//
// The actor must hold a live assignment covering the target context whose
// role strictly outranks the granted role. The only exception is bootstrap:
// a user may self-assign into a business that has no assignments at all, so
// a fresh business can get its first owner. Once anyone holds a role there,
// every assignment, self or not, goes through the authority check.
func (s *Service) Assign(ctx context.Context, input AssignInput) (*RoleAssignment, error) {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return nil, NewError(ErrNoActorID, "actor ID required for role assignment")
	}

	assignment, err := NewRoleAssignment(s.catalog, input.UserID, input.Role, input.Context, actorID, input.ExpiresAt, input.Notes)
	if err != nil {
		return nil, err
	}

	bootstrap := false
	if actorID == input.UserID {
		existing, err := s.GetBusinessAssignments(ctx, input.Context.BusinessID)
		if err != nil {
			return nil, err
		}
		bootstrap = len(existing) == 0
	}

	if !bootstrap {
		actorChecker, err := s.GetChecker(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !actorChecker.CanActOnRole(input.Role, input.Context) {
			return nil, NewError(ErrUnauthorized, "actor cannot assign this role").
				WithRole(input.Role).
				WithContext(input.Context).
				WithActor(actorID)
		}
	}

	result, err := s.db.NewInsert().Model(newAssignmentRecord(assignment)).Exec(ctx)
	err = dbkit.WithErr(result, err, "CreateRoleAssignment").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to create role assignment").
			WithRole(input.Role).
			WithContext(input.Context).
			WithUser(input.UserID)
	}

	s.auditAssignment(ctx, AuditActionAssigned, assignment)

	return assignment, nil
}

// Revoke deactivates an assignment. The record is kept; a revoked assignment
// grants nothing but remains in history. Users may revoke their own
// assignments.
func (s *Service) Revoke(ctx context.Context, assignmentID string) error {
	return s.transition(ctx, assignmentID, AuditActionRevoked, func(a *RoleAssignment) (*RoleAssignment, error) {
		return a.Deactivate(), nil
	})
}

// Reactivate re-enables a previously revoked assignment. The actor must
// outrank the assignment's role even on their own assignment.
func (s *Service) Reactivate(ctx context.Context, assignmentID string) error {
	return s.transition(ctx, assignmentID, AuditActionReactivated, func(a *RoleAssignment) (*RoleAssignment, error) {
		return a.Activate(), nil
	})
}

// ExtendExpiration moves an assignment's expiration to a future instant.
func (s *Service) ExtendExpiration(ctx context.Context, assignmentID string, newExpiry time.Time) error {
	return s.transition(ctx, assignmentID, AuditActionExtended, func(a *RoleAssignment) (*RoleAssignment, error) {
		return a.ExtendExpiration(newExpiry)
	})
}

// UpdateNotes replaces the free-text notes on an assignment.
func (s *Service) UpdateNotes(ctx context.Context, assignmentID, notes string) error {
	return s.transition(ctx, assignmentID, AuditActionNotesUpdated, func(a *RoleAssignment) (*RoleAssignment, error) {
		return a.UpdateNotes(notes), nil
	})
}

// selfServiceAction reports whether an assignment holder may apply the
// action to their own assignment without outranking it. Giving up an
// assignment or annotating it is self-service; restoring or extending one
// never is, or a revoked user could undo their own revocation.
func selfServiceAction(action AuditAction) bool {
	return action == AuditActionRevoked || action == AuditActionNotesUpdated
}

// transition loads an assignment, checks the actor's authority over it,
// applies a lifecycle operation and replaces the stored record with the
// resulting value.
func (s *Service) transition(ctx context.Context, assignmentID string, action AuditAction, op func(*RoleAssignment) (*RoleAssignment, error)) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required for assignment changes")
	}

	current, err := s.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	if actorID != current.UserID() || !selfServiceAction(action) {
		actorChecker, err := s.GetChecker(ctx, actorID)
		if err != nil {
			return err
		}
		if !actorChecker.CanActOnRole(current.Role(), current.Context()) {
			return NewError(ErrUnauthorized, "actor cannot modify this assignment").
				WithRole(current.Role()).
				WithContext(current.Context()).
				WithActor(actorID)
		}
	}

	next, err := op(current)
	if err != nil {
		return err
	}
	if next == current {
		// No-op transition, nothing to persist.
		return nil
	}

	result, err := s.db.NewUpdate().Model(newAssignmentRecord(next)).WherePK().Exec(ctx)
	err = dbkit.WithErr(result, err, "UpdateRoleAssignment").Err()
	if err != nil {
		return NewError(ErrDatabaseError, "failed to update role assignment").
			WithRole(next.Role()).
			WithContext(next.Context()).
			WithUser(next.UserID())
	}

	s.auditAssignment(ctx, action, next)

	return nil
}

// GetAssignment loads a single assignment by ID.
func (s *Service) GetAssignment(ctx context.Context, assignmentID string) (*RoleAssignment, error) {
	var record AssignmentRecord
	err := dbkit.WithErr1(s.db.NewSelect().Model(&record).Where("id = ?", assignmentID).Limit(1).Scan(ctx), "GetAssignment").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrAssignmentNotFound, "assignment "+assignmentID+" not found")
		}
		return nil, err
	}
	return record.Entity(), nil
}

// GetUserAssignments retrieves all role assignments for a user, live or not.
func (s *Service) GetUserAssignments(ctx context.Context, userID string) ([]*RoleAssignment, error) {
	var records []AssignmentRecord
	err := dbkit.WithErr1(s.db.NewSelect().Model(&records).Where("user_id = ?", userID).Scan(ctx), "GetUserAssignments").Err()
	if err != nil {
		return nil, err
	}

	assignments := make([]*RoleAssignment, len(records))
	for i := range records {
		assignments[i] = records[i].Entity()
	}
	return assignments, nil
}

// GetBusinessAssignments retrieves all role assignments within a business.
func (s *Service) GetBusinessAssignments(ctx context.Context, businessID string) ([]*RoleAssignment, error) {
	var records []AssignmentRecord
	err := dbkit.WithErr1(s.db.NewSelect().Model(&records).Where("business_id = ?", businessID).Scan(ctx), "GetBusinessAssignments").Err()
	if err != nil {
		return nil, err
	}

	assignments := make([]*RoleAssignment, len(records))
	for i := range records {
		assignments[i] = records[i].Entity()
	}
	return assignments, nil
}

func (s *Service) auditAssignment(ctx context.Context, action AuditAction, a *RoleAssignment) {
	audit := GetAuditContext(ctx)
	entry := &AuditEntry{
		ActorID:      audit.ActorID,
		Action:       action,
		TargetUserID: a.UserID(),
		AssignmentID: a.ID(),
		Role:         a.Role(),
		Context:      a.Context(),
		IPAddress:    audit.IPAddress,
		UserAgent:    audit.UserAgent,
		RequestID:    audit.RequestID,
	}

	_ = s.logAudit(ctx, entry) // Log error but don't fail the operation
}
