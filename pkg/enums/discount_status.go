package enums

import "fmt"

// DiscountStatus maps to the discount_status enum in Postgres.
type DiscountStatus string

const (
	// DiscountStatusDraft is retained for audit compatibility; requests are
	// created directly into pending_bm and no operation produces a draft.
	DiscountStatusDraft     DiscountStatus = "draft"
	DiscountStatusPendingBM DiscountStatus = "pending_bm"
	DiscountStatusPendingGM DiscountStatus = "pending_gm"
	DiscountStatusApproved  DiscountStatus = "approved"
	DiscountStatusRejected  DiscountStatus = "rejected"
)

var validDiscountStatuses = []DiscountStatus{
	DiscountStatusDraft,
	DiscountStatusPendingBM,
	DiscountStatusPendingGM,
	DiscountStatusApproved,
	DiscountStatusRejected,
}

// IsValid checks whether the given status matches the canonical enum.
func (s DiscountStatus) IsValid() bool {
	for _, candidate := range validDiscountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further mutation.
func (s DiscountStatus) IsTerminal() bool {
	return s == DiscountStatusApproved || s == DiscountStatusRejected
}

// ParseDiscountStatus converts raw strings into DiscountStatus.
func ParseDiscountStatus(value string) (DiscountStatus, error) {
	for _, candidate := range validDiscountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount status %q", value)
}
