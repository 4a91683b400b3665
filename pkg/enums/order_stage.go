package enums

import "fmt"

// OrderStage maps to the order_stage enum in Postgres.
type OrderStage string

const (
	OrderStageInquiry     OrderStage = "inquiry"
	OrderStageTestDrive   OrderStage = "test_drive"
	OrderStageNegotiation OrderStage = "negotiation"
	OrderStageContract    OrderStage = "contract"
	OrderStageDelivery    OrderStage = "delivery"
	OrderStageClosed      OrderStage = "closed"
)

var validOrderStages = []OrderStage{
	OrderStageInquiry,
	OrderStageTestDrive,
	OrderStageNegotiation,
	OrderStageContract,
	OrderStageDelivery,
	OrderStageClosed,
}

// IsValid checks whether the given stage matches the canonical enum.
func (s OrderStage) IsValid() bool {
	for _, candidate := range validOrderStages {
		if candidate == s {
			return true
		}
	}
	return false
}

// Rank orders stages along the pipeline; unknown stages rank below inquiry.
func (s OrderStage) Rank() int {
	for i, candidate := range validOrderStages {
		if candidate == s {
			return i
		}
	}
	return -1
}

// ParseOrderStage converts raw strings into OrderStage.
func ParseOrderStage(value string) (OrderStage, error) {
	for _, candidate := range validOrderStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order stage %q", value)
}
