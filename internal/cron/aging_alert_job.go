package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/velocitymotors/dealerdesk-backend/internal/inventory"
	"github.com/velocitymotors/dealerdesk-backend/internal/notifications"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
)

// AgingAlertJobParams configure the daily stock-aging digest.
type AgingAlertJobParams struct {
	Logger    *logger.Logger
	Branches  branchLister
	Inventory priorityReporter
	Notifier  roleNotifier
}

type branchLister interface {
	List(ctx context.Context) ([]models.Branch, error)
}

type priorityReporter interface {
	PriorityReport(ctx context.Context, params inventory.ReportParams) (*inventory.Report, error)
}

type roleNotifier interface {
	NotifyRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole, msg notifications.Message) error
}

// NewAgingAlertJob constructs the job that pushes an aging digest to each
// branch manager whose lot holds units needing immediate attention.
func NewAgingAlertJob(params AgingAlertJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Branches == nil {
		return nil, fmt.Errorf("branch lister required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &agingAlertJob{
		logg:      params.Logger,
		branches:  params.Branches,
		inventory: params.Inventory,
		notifier:  params.Notifier,
	}, nil
}

type agingAlertJob struct {
	logg      *logger.Logger
	branches  branchLister
	inventory priorityReporter
	notifier  roleNotifier
}

func (j *agingAlertJob) Name() string { return "aging-alert" }

func (j *agingAlertJob) Run(ctx context.Context) error {
	branches, err := j.branches.List(ctx)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}

	var errs error
	alerted := 0
	for _, branch := range branches {
		sent, branchErr := j.alertBranch(ctx, branch)
		if branchErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("branch %s: %w", branch.ID, branchErr))
			continue
		}
		if sent {
			alerted++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"branches_total":   len(branches),
		"branches_alerted": alerted,
	})
	j.logg.Info(logCtx, "aging alert sweep complete")
	return errs
}

func (j *agingAlertJob) alertBranch(ctx context.Context, branch models.Branch) (bool, error) {
	branchID := branch.ID
	report, err := j.inventory.PriorityReport(ctx, inventory.ReportParams{BranchID: &branchID})
	if err != nil {
		return false, fmt.Errorf("priority report: %w", err)
	}

	urgent := report.Summary.ByUrgency[enums.UrgencyLevelNow]
	if urgent == 0 {
		return false, nil
	}

	oldest := oldestUrgentDays(report.Items)
	msg := notifications.Message{
		Type:  enums.NotificationTypeAgingAlert,
		Title: fmt.Sprintf("%d units need immediate attention", urgent),
		Body: fmt.Sprintf(
			"%s has %d units in the act-now band; the oldest has been in stock %d days. Review the priority report for recommended actions.",
			branch.Name, urgent, oldest,
		),
		ReferenceID: branchID.String(),
	}
	if err := j.notifier.NotifyRole(ctx, branchID, enums.StaffRoleBranchManager, msg); err != nil {
		return false, fmt.Errorf("notify branch manager: %w", err)
	}
	return true, nil
}

func oldestUrgentDays(items []inventory.ScoredItem) int {
	oldest := 0
	for _, item := range items {
		if item.Urgency != enums.UrgencyLevelNow {
			continue
		}
		if item.Aging.DaysInStock > oldest {
			oldest = item.Aging.DaysInStock
		}
	}
	return oldest
}
