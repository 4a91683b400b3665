package demand

import (
	"math"

	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// Mismatch is the outcome of comparing demand against supply for one
// variant+color combination.
type Mismatch struct {
	Status enums.MismatchStatus `json:"status"`
	// Score is the absolute demand/supply gap, used to sort by magnitude
	// independent of direction.
	Score float64 `json:"score"`
}

// CalculateMismatch classifies the signed gap between demand and supply
// against a symmetric dead-band. Gaps inside the band are balanced.
func CalculateMismatch(demandScore, supplyScore, deadBand float64) Mismatch {
	gap := demandScore - supplyScore
	mismatch := Mismatch{Score: math.Abs(gap)}

	switch {
	case gap > deadBand:
		mismatch.Status = enums.MismatchStatusUndersupplied
	case gap < -deadBand:
		mismatch.Status = enums.MismatchStatusOversupplied
	default:
		mismatch.Status = enums.MismatchStatusBalanced
	}
	return mismatch
}
