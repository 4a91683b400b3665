package enums

// MismatchStatus classifies the demand/supply gap for a variant+color.
type MismatchStatus string

const (
	MismatchStatusUndersupplied MismatchStatus = "undersupplied"
	MismatchStatusOversupplied  MismatchStatus = "oversupplied"
	MismatchStatusBalanced      MismatchStatus = "balanced"
)

// IsValid checks whether the given status matches the canonical enum.
func (m MismatchStatus) IsValid() bool {
	switch m {
	case MismatchStatusUndersupplied, MismatchStatusOversupplied, MismatchStatusBalanced:
		return true
	}
	return false
}
