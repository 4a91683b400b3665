package cron

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/internal/inventory"
	"github.com/velocitymotors/dealerdesk-backend/internal/notifications"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
)

func TestAgingAlertJobNotifiesBranchesWithUrgentStock(t *testing.T) {
	urgentBranch := models.Branch{ID: uuid.New(), Name: "Velocity North"}
	quietBranch := models.Branch{ID: uuid.New(), Name: "Velocity South"}

	reporter := &fakeReporter{reports: map[uuid.UUID]*inventory.Report{
		urgentBranch.ID: {
			Items: []inventory.ScoredItem{
				{Urgency: enums.UrgencyLevelNow, Aging: inventory.AgingResult{DaysInStock: 142}},
				{Urgency: enums.UrgencyLevelNow, Aging: inventory.AgingResult{DaysInStock: 97}},
				{Urgency: enums.UrgencyLevelThisMonth, Aging: inventory.AgingResult{DaysInStock: 12}},
			},
			Summary: inventory.Summary{ByUrgency: map[enums.UrgencyLevel]int{
				enums.UrgencyLevelNow:       2,
				enums.UrgencyLevelThisMonth: 1,
			}},
		},
		quietBranch.ID: {
			Summary: inventory.Summary{ByUrgency: map[enums.UrgencyLevel]int{}},
		},
	}}
	notifier := &fakeRoleNotifier{}
	job := newAgingAlertJob(t, []models.Branch{urgentBranch, quietBranch}, reporter, notifier)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.branchID != urgentBranch.ID {
		t.Fatalf("alert went to branch %s, want %s", sent.branchID, urgentBranch.ID)
	}
	if sent.role != enums.StaffRoleBranchManager {
		t.Fatalf("alert went to role %s, want branch manager", sent.role)
	}
	if sent.msg.Type != enums.NotificationTypeAgingAlert {
		t.Fatalf("alert type = %s, want aging_alert", sent.msg.Type)
	}
	if !strings.Contains(sent.msg.Body, "142 days") {
		t.Fatalf("body should name the oldest urgent unit, got %q", sent.msg.Body)
	}
	if sent.msg.ReferenceID != urgentBranch.ID.String() {
		t.Fatalf("reference id = %q, want branch id", sent.msg.ReferenceID)
	}
}

func TestAgingAlertJobContinuesPastFailingBranch(t *testing.T) {
	broken := models.Branch{ID: uuid.New(), Name: "Broken"}
	healthy := models.Branch{ID: uuid.New(), Name: "Healthy"}

	reporter := &fakeReporter{
		reports: map[uuid.UUID]*inventory.Report{
			healthy.ID: {
				Items: []inventory.ScoredItem{
					{Urgency: enums.UrgencyLevelNow, Aging: inventory.AgingResult{DaysInStock: 80}},
				},
				Summary: inventory.Summary{ByUrgency: map[enums.UrgencyLevel]int{
					enums.UrgencyLevelNow: 1,
				}},
			},
		},
		failFor: broken.ID,
	}
	notifier := &fakeRoleNotifier{}
	job := newAgingAlertJob(t, []models.Branch{broken, healthy}, reporter, notifier)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error for the failing branch")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].branchID != healthy.ID {
		t.Fatalf("healthy branch should still be alerted, sent=%v", notifier.sent)
	}
}

func TestAgingAlertJobPropagatesBranchListError(t *testing.T) {
	job := newAgingAlertJob(t, nil, &fakeReporter{}, &fakeRoleNotifier{})
	job.branches = failingBranchLister{}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newAgingAlertJob(t *testing.T, branches []models.Branch, reporter *fakeReporter, notifier *fakeRoleNotifier) *agingAlertJob {
	t.Helper()
	jobIface, err := NewAgingAlertJob(AgingAlertJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Branches:  staticBranchLister(branches),
		Inventory: reporter,
		Notifier:  notifier,
	})
	if err != nil {
		t.Fatalf("NewAgingAlertJob: %v", err)
	}
	job, ok := jobIface.(*agingAlertJob)
	if !ok {
		t.Fatalf("expected agingAlertJob, got %T", jobIface)
	}
	return job
}

type staticBranchLister []models.Branch

func (s staticBranchLister) List(ctx context.Context) ([]models.Branch, error) {
	return s, nil
}

type failingBranchLister struct{}

func (failingBranchLister) List(ctx context.Context) ([]models.Branch, error) {
	return nil, errors.New("db down")
}

type fakeReporter struct {
	reports map[uuid.UUID]*inventory.Report
	failFor uuid.UUID
}

func (f *fakeReporter) PriorityReport(ctx context.Context, params inventory.ReportParams) (*inventory.Report, error) {
	if params.BranchID == nil {
		return nil, errors.New("branch scope required")
	}
	if *params.BranchID == f.failFor {
		return nil, errors.New("report failed")
	}
	report, ok := f.reports[*params.BranchID]
	if !ok {
		return &inventory.Report{Summary: inventory.Summary{ByUrgency: map[enums.UrgencyLevel]int{}}}, nil
	}
	return report, nil
}

type sentAlert struct {
	branchID uuid.UUID
	role     enums.StaffRole
	msg      notifications.Message
}

type fakeRoleNotifier struct {
	sent []sentAlert
}

func (f *fakeRoleNotifier) NotifyRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole, msg notifications.Message) error {
	f.sent = append(f.sent, sentAlert{branchID: branchID, role: role, msg: msg})
	return nil
}
