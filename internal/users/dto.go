package users

import (
	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// CreateStaffUserDTO carries the fields needed to provision a staff account.
type CreateStaffUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         enums.StaffRole
	BranchID     uuid.UUID
}

// ToModel materializes the persisted representation.
func (d CreateStaffUserDTO) ToModel() *models.StaffUser {
	return &models.StaffUser{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Role:         d.Role,
		BranchID:     d.BranchID,
		Active:       true,
	}
}
