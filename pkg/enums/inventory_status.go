package enums

import "fmt"

// InventoryStatus maps to the inventory_status enum in Postgres.
type InventoryStatus string

const (
	InventoryStatusInTransit InventoryStatus = "in_transit"
	InventoryStatusInYard    InventoryStatus = "in_yard"
	InventoryStatusReserved  InventoryStatus = "reserved"
	InventoryStatusSold      InventoryStatus = "sold"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusInTransit,
	InventoryStatusInYard,
	InventoryStatusReserved,
	InventoryStatusSold,
}

// IsValid checks whether the given status matches the canonical enum.
func (s InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsScorable reports whether the unit participates in aging/priority scoring.
// Reserved and sold units are excluded.
func (s InventoryStatus) IsScorable() bool {
	return s == InventoryStatusInTransit || s == InventoryStatusInYard
}

// ParseInventoryStatus converts raw strings into InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
