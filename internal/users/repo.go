package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/internal/repo"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// Repository exposes staff-user persistence operations.
type Repository struct {
	base repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// Create inserts a new staff user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateStaffUserDTO) (*models.StaffUser, error) {
	user := dto.ToModel()
	if err := r.base.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the staff user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.base.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a staff user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.base.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByBranchRole lists active users holding a role at one branch.
// Notification fan-out uses this to resolve role recipients.
func (r *Repository) FindActiveByBranchRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole) ([]models.StaffUser, error) {
	var staff []models.StaffUser
	err := r.base.DB(ctx).
		Where("branch_id = ? AND role = ? AND active", branchID, role).
		Order("created_at ASC").
		Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// Deactivate flips the active flag off; logins and notification fan-out skip
// inactive accounts from that point on.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.base.DB(ctx).
		Model(&models.StaffUser{}).
		Where("id = ?", id).
		UpdateColumn("active", false).Error
}
