package enums

// SLAStatus reports how an order is tracking against its stage limit.
type SLAStatus string

const (
	SLAStatusOnTrack SLAStatus = "on_track"
	SLAStatusAtRisk  SLAStatus = "at_risk"
	SLAStatusOverdue SLAStatus = "overdue"
)

// IsValid checks whether the given status matches the canonical enum.
func (s SLAStatus) IsValid() bool {
	switch s {
	case SLAStatusOnTrack, SLAStatusAtRisk, SLAStatusOverdue:
		return true
	}
	return false
}
