package accesskit

import (
	"time"

	"github.com/uptrace/bun"
)

// AssignmentRecord is the persisted form of a RoleAssignment. Records are
// flat rows; the entity is rebuilt through RestoreRoleAssignment, which
// trusts stored data and skips validation.
type AssignmentRecord struct {
	bun.BaseModel `bun:"table:role_assignments,alias:ra"`

	ID           string     `bun:"id,pk,type:uuid"`
	UserID       string     `bun:"user_id,notnull"`
	Role         string     `bun:"role,notnull"`
	BusinessID   string     `bun:"business_id,notnull"`
	LocationID   string     `bun:"location_id"`
	DepartmentID string     `bun:"department_id"`
	AssignedBy   string     `bun:"assigned_by,notnull"`
	AssignedAt   time.Time  `bun:"assigned_at,notnull,default:current_timestamp"`
	ExpiresAt    *time.Time `bun:"expires_at"`
	IsActive     bool       `bun:"is_active,notnull,default:true"`
	Notes        string     `bun:"notes"`
}

// Entity rebuilds the domain value from the record.
func (r *AssignmentRecord) Entity() *RoleAssignment {
	return RestoreRoleAssignment(AssignmentData{
		ID:     r.ID,
		UserID: r.UserID,
		Role:   Role(r.Role),
		Context: Context{
			BusinessID:   r.BusinessID,
			LocationID:   r.LocationID,
			DepartmentID: r.DepartmentID,
		},
		AssignedBy: r.AssignedBy,
		AssignedAt: r.AssignedAt,
		ExpiresAt:  r.ExpiresAt,
		Active:     r.IsActive,
		Notes:      r.Notes,
	})
}

// newAssignmentRecord flattens an entity for storage.
func newAssignmentRecord(a *RoleAssignment) *AssignmentRecord {
	data := a.Data()
	return &AssignmentRecord{
		ID:           data.ID,
		UserID:       data.UserID,
		Role:         data.Role.String(),
		BusinessID:   data.Context.BusinessID,
		LocationID:   data.Context.LocationID,
		DepartmentID: data.Context.DepartmentID,
		AssignedBy:   data.AssignedBy,
		AssignedAt:   data.AssignedAt,
		ExpiresAt:    data.ExpiresAt,
		IsActive:     data.Active,
		Notes:        data.Notes,
	}
}

// BusinessRecord is the persisted root of a business tree.
type BusinessRecord struct {
	bun.BaseModel `bun:"table:businesses,alias:b"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// LocationRecord is a persisted business location.
type LocationRecord struct {
	bun.BaseModel `bun:"table:business_locations,alias:bl"`

	ID         string    `bun:"id,pk"`
	BusinessID string    `bun:"business_id,notnull"`
	Name       string    `bun:"name,notnull"`
	IsActive   bool      `bun:"is_active,notnull,default:true"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// DepartmentRecord is a persisted department inside a location.
type DepartmentRecord struct {
	bun.BaseModel `bun:"table:business_departments,alias:bd"`

	ID         string    `bun:"id,pk"`
	LocationID string    `bun:"location_id,notnull"`
	BusinessID string    `bun:"business_id,notnull"`
	Name       string    `bun:"name,notnull"`
	IsActive   bool      `bun:"is_active,notnull,default:true"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AssignmentAuditLog records all role assignment changes for compliance and
// debugging.
type AssignmentAuditLog struct {
	bun.BaseModel `bun:"table:assignment_audit_log,alias:aal"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp"`

	// Who performed the action
	ActorID string `bun:"actor_id,notnull"`

	// What action was performed
	Action string `bun:"action,notnull"`

	// Target of the action
	TargetUserID string `bun:"target_user_id,notnull"`
	AssignmentID string `bun:"assignment_id"`
	Role         string `bun:"role,notnull"`
	BusinessID   string `bun:"business_id,notnull"`
	LocationID   string `bun:"location_id"`
	DepartmentID string `bun:"department_id"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`

	// Additional context (JSON)
	Metadata map[string]any `bun:"metadata,type:jsonb"`
}

// AuditAction represents the type of action in the audit log.
type AuditAction string

const (
	AuditActionAssigned     AuditAction = "assigned"
	AuditActionRevoked      AuditAction = "revoked"
	AuditActionReactivated  AuditAction = "reactivated"
	AuditActionExtended     AuditAction = "extended"
	AuditActionNotesUpdated AuditAction = "notes_updated"
)

// AuditEntry is used to create new audit log entries.
type AuditEntry struct {
	ActorID      string
	Action       AuditAction
	TargetUserID string
	AssignmentID string
	Role         Role
	Context      Context
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
}

// ToModel converts an AuditEntry to an AssignmentAuditLog model.
func (e *AuditEntry) ToModel() *AssignmentAuditLog {
	return &AssignmentAuditLog{
		ActorID:      e.ActorID,
		Action:       string(e.Action),
		TargetUserID: e.TargetUserID,
		AssignmentID: e.AssignmentID,
		Role:         e.Role.String(),
		BusinessID:   e.Context.BusinessID,
		LocationID:   e.Context.LocationID,
		DepartmentID: e.Context.DepartmentID,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		RequestID:    e.RequestID,
		Metadata:     e.Metadata,
		Timestamp:    time.Now(),
	}
}
