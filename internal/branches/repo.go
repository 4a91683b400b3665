package branches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/internal/repo"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
)

// Repository handles branch persistence.
type Repository struct {
	base repo.Base
}

// NewRepository binds a GORM DB to branch operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// Create persists a new branch row.
func (r *Repository) Create(ctx context.Context, dto CreateBranchDTO) (*models.Branch, error) {
	branch := dto.ToModel()
	if err := r.base.DB(ctx).Create(branch).Error; err != nil {
		return nil, err
	}
	return branch, nil
}

// FindByID loads a branch by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.base.DB(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// List returns every branch ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	if err := r.base.DB(ctx).Order("name ASC").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}
