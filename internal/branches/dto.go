package branches

import "github.com/velocitymotors/dealerdesk-backend/pkg/db/models"

// CreateBranchDTO carries the fields needed to open a new branch.
type CreateBranchDTO struct {
	Name  string
	City  string
	Phone *string
}

// ToModel materializes the persisted representation.
func (d CreateBranchDTO) ToModel() *models.Branch {
	return &models.Branch{
		Name:  d.Name,
		City:  d.City,
		Phone: d.Phone,
	}
}
