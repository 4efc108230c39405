package models

import "github.com/google/uuid"

type Role string

const (
	RoleMasterAdmin Role = "master_admin"
	RoleSuperAdmin  Role = "super_admin"
	RoleAdmin       Role = "admin"
	RoleSalesAgent  Role = "sales_agent"
	RoleInvestor    Role = "investor"
)

// Actor is the already-authenticated caller context. The engine never
// resolves credentials; it only authorizes tenant and capability scope.
type Actor struct {
	ID         uuid.UUID
	Role       Role
	TenantID   uuid.UUID
	InvestorID *uuid.UUID
	Elevated   bool
}

// PlatformScoped reports whether the actor may act across tenants.
func (a Actor) PlatformScoped() bool {
	return a.Role == RoleMasterAdmin || a.Elevated
}
