package auth

import (
	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// LoginRequest carries staff credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse returns the minted token plus the identity it encodes.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	UserID      uuid.UUID       `json:"user_id"`
	FullName    string          `json:"full_name"`
	Role        enums.StaffRole `json:"role"`
	BranchID    uuid.UUID       `json:"branch_id"`
}

// RegisterRequest provisions a staff account. Admin only.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Role     string `json:"role" validate:"required"`
	BranchID string `json:"branch_id" validate:"required,uuid"`
}

// RegisterResponse echoes the created account without the credential.
type RegisterResponse struct {
	UserID   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     enums.StaffRole `json:"role"`
	BranchID uuid.UUID       `json:"branch_id"`
}
