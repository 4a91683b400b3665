package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
)

// Store adapts the repository for callers that run inside their own
// transaction, such as the discount workflow finalizing order pricing.
type Store struct {
	repo Repository
}

// NewStore wraps the repository for transactional callers.
func NewStore(repo Repository) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &Store{repo: repo}, nil
}

func (s *Store) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	return s.repo.WithTx(tx).FindByID(ctx, id)
}

func (s *Store) UpdateTotalAmount(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, amount decimal.Decimal) error {
	return s.repo.WithTx(tx).UpdateTotalAmount(ctx, orderID, amount)
}
