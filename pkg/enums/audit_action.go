package enums

// AuditAction names the workflow actions recorded in the discount audit trail.
type AuditAction string

const (
	AuditActionSubmitted  AuditAction = "submitted"
	AuditActionBMApproved AuditAction = "bm_approved"
	AuditActionGMApproved AuditAction = "gm_approved"
	AuditActionRejected   AuditAction = "rejected"
)

// IsValid checks whether the given action matches the canonical enum.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionSubmitted, AuditActionBMApproved, AuditActionGMApproved, AuditActionRejected:
		return true
	}
	return false
}
