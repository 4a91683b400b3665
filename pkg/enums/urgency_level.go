package enums

// UrgencyLevel buckets priority scores into sales-floor action windows.
type UrgencyLevel string

const (
	UrgencyLevelNow       UrgencyLevel = "now"
	UrgencyLevelThisWeek  UrgencyLevel = "this_week"
	UrgencyLevelThisMonth UrgencyLevel = "this_month"
)

// IsValid checks whether the given level matches the canonical enum.
func (u UrgencyLevel) IsValid() bool {
	switch u {
	case UrgencyLevelNow, UrgencyLevelThisWeek, UrgencyLevelThisMonth:
		return true
	}
	return false
}
