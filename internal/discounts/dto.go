package discounts

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// SubmitInput captures a salesperson's discount request.
type SubmitInput struct {
	OrderID           uuid.UUID
	OriginalPrice     decimal.Decimal
	CampaignDiscount  decimal.Decimal
	RequestedDiscount decimal.Decimal
	Justification     string
	RequestedBy       uuid.UUID
	// BrandCode overrides the order's brand for tier lookup when set.
	BrandCode string
}

// SubmitResult returns the created request plus non-fatal validation and
// delivery warnings.
type SubmitResult struct {
	Request  *models.DiscountRequest `json:"request"`
	Warnings []string                `json:"warnings,omitempty"`
}

// ApproveInput captures a manager sign-off at one approval level.
type ApproveInput struct {
	RequestID uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.StaffRole
	Comment   *string
}

// RejectInput captures a manager rejection with a mandatory reason.
type RejectInput struct {
	RequestID uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.StaffRole
	Reason    string
}

// DecisionResult returns the updated request plus delivery warnings.
type DecisionResult struct {
	Request  *models.DiscountRequest `json:"request"`
	Warnings []string                `json:"warnings,omitempty"`
}
