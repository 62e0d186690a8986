package accesskit

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required for AccessKit.
// Use db.Migrate(ctx, service.Migrations()) to run them.
func (s *Service) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "accesskit-001",
			Description: "Create businesses table",
			SQL: `
                CREATE TABLE IF NOT EXISTS businesses (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "accesskit-002",
			Description: "Create business_locations table",
			SQL: `
                CREATE TABLE IF NOT EXISTS business_locations (
                    id TEXT PRIMARY KEY,
                    business_id TEXT NOT NULL REFERENCES businesses(id),
                    name TEXT NOT NULL,
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "accesskit-003",
			Description: "Create business_departments table",
			SQL: `
                CREATE TABLE IF NOT EXISTS business_departments (
                    id TEXT PRIMARY KEY,
                    location_id TEXT NOT NULL REFERENCES business_locations(id),
                    business_id TEXT NOT NULL REFERENCES businesses(id),
                    name TEXT NOT NULL,
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "accesskit-004",
			Description: "Create role_assignments table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_assignments (
                    id UUID PRIMARY KEY,
                    user_id TEXT NOT NULL,
                    role TEXT NOT NULL,
                    business_id TEXT NOT NULL,
                    location_id TEXT,
                    department_id TEXT,
                    assigned_by TEXT NOT NULL,
                    assigned_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    expires_at TIMESTAMPTZ,
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    notes TEXT
                )`,
		},
		{
			ID:          "accesskit-005",
			Description: "Create assignment_audit_log table",
			SQL: `
                CREATE TABLE IF NOT EXISTS assignment_audit_log (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    timestamp TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    actor_id TEXT NOT NULL,
                    action TEXT NOT NULL,
                    target_user_id TEXT NOT NULL,
                    assignment_id TEXT,
                    role TEXT NOT NULL,
                    business_id TEXT NOT NULL,
                    location_id TEXT,
                    department_id TEXT,
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT,
                    metadata JSONB
                )`,
		},
		{
			ID:          "accesskit-006",
			Description: "Index role_assignments by user and business",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_role_assignments_user ON role_assignments (user_id);
                CREATE INDEX IF NOT EXISTS idx_role_assignments_business ON role_assignments (business_id)`,
		},
	}
}
