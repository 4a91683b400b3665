package enums

import "fmt"

// StaffRole maps to the staff_role enum in Postgres. General manager is a
// distinct role from admin; only the two manager roles carry discount
// approval authority.
type StaffRole string

const (
	StaffRoleSalesRep       StaffRole = "sales_rep"
	StaffRoleBranchManager  StaffRole = "branch_manager"
	StaffRoleGeneralManager StaffRole = "general_manager"
	StaffRoleAdmin          StaffRole = "admin"
)

var validStaffRoles = []StaffRole{
	StaffRoleSalesRep,
	StaffRoleBranchManager,
	StaffRoleGeneralManager,
	StaffRoleAdmin,
}

// IsValid checks whether the given role matches the canonical enum.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanApproveDiscounts reports whether the role holds any approval authority.
func (r StaffRole) CanApproveDiscounts() bool {
	return r == StaffRoleBranchManager || r == StaffRoleGeneralManager
}

// ParseStaffRole converts raw strings into StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
