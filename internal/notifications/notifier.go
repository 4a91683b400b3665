package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

type staffDirectory interface {
	FindActiveByBranchRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole) ([]models.StaffUser, error)
}

// Notifier fans out workflow messages to staff users. Callers invoke it after
// their transaction commits; a delivery failure is reported to the caller but
// must never roll back the state change it announces.
type Notifier struct {
	repo  Repository
	staff staffDirectory
}

// Message is one notification payload addressed to a user or a branch role.
type Message struct {
	Type        enums.NotificationType
	Title       string
	Body        string
	ReferenceID string
}

// NewNotifier builds a notifier over the notifications store and staff lookup.
func NewNotifier(repo Repository, staff staffDirectory) (*Notifier, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if staff == nil {
		return nil, fmt.Errorf("staff directory required")
	}
	return &Notifier{repo: repo, staff: staff}, nil
}

// NotifyUser delivers a message to a single staff user.
func (n *Notifier) NotifyUser(ctx context.Context, userID uuid.UUID, msg Message) error {
	if userID == uuid.Nil {
		return fmt.Errorf("recipient id required")
	}
	if !msg.Type.IsValid() {
		return fmt.Errorf("invalid notification type %q", msg.Type)
	}

	row := models.Notification{
		RecipientID: userID,
		Type:        msg.Type,
		Title:       msg.Title,
		Message:     msg.Body,
	}
	if msg.ReferenceID != "" {
		ref := msg.ReferenceID
		row.ReferenceID = &ref
	}
	return n.repo.Create(ctx, &row)
}

// NotifyRole delivers a message to every active staff user holding the role
// at the branch. Zero recipients is not an error; the message simply has no
// audience yet.
func (n *Notifier) NotifyRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole, msg Message) error {
	if branchID == uuid.Nil {
		return fmt.Errorf("branch id required")
	}
	if !role.IsValid() {
		return fmt.Errorf("invalid staff role %q", role)
	}
	if !msg.Type.IsValid() {
		return fmt.Errorf("invalid notification type %q", msg.Type)
	}

	recipients, err := n.staff.FindActiveByBranchRole(ctx, branchID, role)
	if err != nil {
		return fmt.Errorf("resolve %s recipients: %w", role, err)
	}
	if len(recipients) == 0 {
		return nil
	}

	rows := make([]models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		row := models.Notification{
			RecipientID: recipient.ID,
			Type:        msg.Type,
			Title:       msg.Title,
			Message:     msg.Body,
		}
		if msg.ReferenceID != "" {
			ref := msg.ReferenceID
			row.ReferenceID = &ref
		}
		rows = append(rows, row)
	}
	return n.repo.CreateBatch(ctx, rows)
}
