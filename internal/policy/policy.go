package policy

import (
	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

// Capability names a single engine operation for authorization purposes.
// Every service entry point checks exactly one capability against the
// table below; there is no blanket role string that bypasses the matrix.
type Capability string

const (
	CapCreateUnit      Capability = "unit:create"
	CapUpdateUnit      Capability = "unit:update"
	CapDeactivateUnit  Capability = "unit:deactivate"
	CapReactivateUnit  Capability = "unit:reactivate"
	CapLockUnit        Capability = "unit:lock"
	CapPlaceHold       Capability = "hold:place"
	CapReleaseHold     Capability = "hold:release"
	CapExtendHold      Capability = "hold:extend"
	CapCreateBooking   Capability = "booking:create"
	CapCancelBooking   Capability = "booking:cancel"
	CapDeleteBooking   Capability = "booking:delete"
	CapCreateTransfer  Capability = "transfer:create"
	CapApproveTransfer Capability = "transfer:approve"
	CapUpdateTransfer  Capability = "transfer:update"
	CapAssignInvestor  Capability = "consent:assign"
	CapManageConsent   Capability = "consent:manage"
	CapCreateProject   Capability = "project:create"
)

// adminCaps are shared by admin and super_admin.
var adminCaps = []Capability{
	CapCreateUnit, CapUpdateUnit, CapDeactivateUnit, CapLockUnit,
	CapPlaceHold, CapReleaseHold, CapExtendHold,
	CapCreateBooking, CapCancelBooking, CapDeleteBooking,
	CapCreateTransfer, CapApproveTransfer, CapUpdateTransfer,
	CapAssignInvestor, CapManageConsent, CapCreateProject,
}

var grants = map[models.Role]map[Capability]bool{
	models.RoleMasterAdmin: capSet(append(adminCaps, CapReactivateUnit)...),
	models.RoleSuperAdmin:  capSet(adminCaps...),
	models.RoleAdmin:       capSet(adminCaps...),
	models.RoleSalesAgent: capSet(
		CapPlaceHold, CapReleaseHold, CapExtendHold, CapCreateBooking,
	),
	models.RoleInvestor: capSet(CapManageConsent),
}

func capSet(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Can reports whether the actor's role grants the capability at all,
// independent of tenant scope.
func Can(actor models.Actor, cap Capability) bool {
	return grants[actor.Role][cap]
}

// Authorize checks capability and tenant scope in one step.
// resourceTenant is the tenant owning the target entity; uuid.Nil skips
// the tenant comparison (platform-level resources).
func Authorize(actor models.Actor, cap Capability, resourceTenant uuid.UUID) error {
	if !Can(actor, cap) {
		return utils.ErrForbidden
	}
	if resourceTenant != uuid.Nil && !actor.PlatformScoped() && actor.TenantID != resourceTenant {
		return utils.ErrTenantMismatch
	}
	return nil
}

// ElevatedScope reports whether the actor may act on holds it does not own
// (converting or releasing another agent's hold).
func ElevatedScope(actor models.Actor) bool {
	switch actor.Role {
	case models.RoleMasterAdmin, models.RoleSuperAdmin, models.RoleAdmin:
		return true
	}
	return actor.Elevated
}
