package discounts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/internal/audit"
	"github.com/velocitymotors/dealerdesk-backend/internal/notifications"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeDiscountRepo struct {
	byID      map[uuid.UUID]*models.DiscountRequest
	active    map[uuid.UUID]*models.DiscountRequest
	created   []*models.DiscountRequest
	updated   []*models.DiscountRequest
	createErr error
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{
		byID:   map[uuid.UUID]*models.DiscountRequest{},
		active: map[uuid.UUID]*models.DiscountRequest{},
	}
}

func (f *fakeDiscountRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeDiscountRepo) Create(ctx context.Context, request *models.DiscountRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	request.ID = uuid.New()
	f.created = append(f.created, request)
	f.byID[request.ID] = request
	f.active[request.OrderID] = request
	return nil
}

func (f *fakeDiscountRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error) {
	if request, ok := f.byID[id]; ok {
		return request, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDiscountRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeDiscountRepo) FindActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*models.DiscountRequest, error) {
	if request, ok := f.active[orderID]; ok && !request.Status.IsTerminal() {
		return request, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDiscountRepo) Update(ctx context.Context, request *models.DiscountRequest) error {
	f.updated = append(f.updated, request)
	f.byID[request.ID] = request
	return nil
}

func (f *fakeDiscountRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.DiscountRequest, error) {
	var out []models.DiscountRequest
	for _, request := range f.byID {
		if request.OrderID == orderID {
			out = append(out, *request)
		}
	}
	return out, nil
}

type fakeOrderStore struct {
	order         *models.Order
	updatedAmount *decimal.Decimal
	updateCalls   int
}

func (f *fakeOrderStore) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.order, nil
}

func (f *fakeOrderStore) UpdateTotalAmount(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, amount decimal.Decimal) error {
	f.updatedAmount = &amount
	f.updateCalls++
	return nil
}

type fakeAuditRecorder struct {
	entries []audit.RecordEntryInput
}

func (f *fakeAuditRecorder) Record(ctx context.Context, tx *gorm.DB, input audit.RecordEntryInput) (*models.DiscountAuditEntry, error) {
	f.entries = append(f.entries, input)
	return &models.DiscountAuditEntry{}, nil
}

type fakeNotifier struct {
	userMsgs []notifications.Message
	roleMsgs []notifications.Message
	roles    []enums.StaffRole
	failAll  bool
}

func (f *fakeNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, msg notifications.Message) error {
	if f.failAll {
		return errors.New("sink unavailable")
	}
	f.userMsgs = append(f.userMsgs, msg)
	return nil
}

func (f *fakeNotifier) NotifyRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole, msg notifications.Message) error {
	if f.failAll {
		return errors.New("sink unavailable")
	}
	f.roleMsgs = append(f.roleMsgs, msg)
	f.roles = append(f.roles, role)
	return nil
}

type fakeMetrics struct {
	counts map[string]int
}

func (f *fakeMetrics) IncDecision(action, outcome string) {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[action+"/"+outcome]++
}

type serviceFixture struct {
	svc      Service
	repo     *fakeDiscountRepo
	orders   *fakeOrderStore
	audit    *fakeAuditRecorder
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	repo := newFakeDiscountRepo()
	orders := &fakeOrderStore{
		order: &models.Order{
			ID:          uuid.New(),
			OrderNumber: 4211,
			BranchID:    uuid.New(),
			BrandCode:   "VM",
			TotalAmount: decimal.NewFromInt(100000),
		},
	}
	auditRec := &fakeAuditRecorder{}
	notifier := &fakeNotifier{}
	metrics := &fakeMetrics{}

	svc, err := NewService(repo, &fakeTxRunner{}, orders, NewRuleSet(testPolicy()), auditRec, notifier, metrics)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return &serviceFixture{svc: svc, repo: repo, orders: orders, audit: auditRec, notifier: notifier, metrics: metrics}
}

func (fx *serviceFixture) submit(t *testing.T, requested string) *models.DiscountRequest {
	t.Helper()
	result, err := fx.svc.Submit(context.Background(), SubmitInput{
		OrderID:           fx.orders.order.ID,
		OriginalPrice:     decimal.NewFromInt(100000),
		CampaignDiscount:  decimal.NewFromInt(5000),
		RequestedDiscount: decimal.RequireFromString(requested),
		Justification:     "repeat customer closing this week",
		RequestedBy:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	return result.Request
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestSubmit_CreatesPendingBMRequest(t *testing.T) {
	fx := newServiceFixture(t)

	request := fx.submit(t, "8000")

	if request.Status != enums.DiscountStatusPendingBM {
		t.Fatalf("status = %s, want pending_bm", request.Status)
	}
	if request.CurrentLevel != 0 {
		t.Fatalf("current level = %d, want 0", request.CurrentLevel)
	}
	if request.RequiredLevel != 2 {
		t.Fatalf("8%% discount needs two approvals, got %d", request.RequiredLevel)
	}
	if !request.FinalPrice.Equal(decimal.NewFromInt(87000)) {
		t.Fatalf("final price = %s, want 87000", request.FinalPrice)
	}
	if request.BrandCode != "VM" {
		t.Fatalf("brand code should default from order, got %q", request.BrandCode)
	}
	if len(fx.audit.entries) != 1 || fx.audit.entries[0].Action != enums.AuditActionSubmitted {
		t.Fatalf("expected submitted audit entry, got %+v", fx.audit.entries)
	}
	if len(fx.notifier.roleMsgs) != 1 || fx.notifier.roles[0] != enums.StaffRoleBranchManager {
		t.Fatal("expected branch manager notification")
	}
}

func TestSubmit_RejectsOversizedDiscount(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.svc.Submit(context.Background(), SubmitInput{
		OrderID:           fx.orders.order.ID,
		OriginalPrice:     decimal.NewFromInt(100000),
		RequestedDiscount: decimal.NewFromInt(150000),
		Justification:     "customer is threatening to walk away",
		RequestedBy:       uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
	if len(fx.repo.created) != 0 {
		t.Fatal("invalid request must never be persisted")
	}
}

func TestSubmit_DuplicateActiveRequest(t *testing.T) {
	fx := newServiceFixture(t)
	fx.submit(t, "3000")

	_, err := fx.svc.Submit(context.Background(), SubmitInput{
		OrderID:           fx.orders.order.ID,
		OriginalPrice:     decimal.NewFromInt(100000),
		RequestedDiscount: decimal.NewFromInt(2000),
		Justification:     "second attempt while first pending",
		RequestedBy:       uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestSubmit_RacedDuplicateMapsIndexViolationToConflict(t *testing.T) {
	fx := newServiceFixture(t)

	// pre-check sees nothing, insert loses to a concurrent submit on the
	// partial index
	fx.repo.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_discount_requests_open_order" (SQLSTATE 23505)`)

	_, err := fx.svc.Submit(context.Background(), SubmitInput{
		OrderID:           fx.orders.order.ID,
		OriginalPrice:     decimal.NewFromInt(100000),
		RequestedDiscount: decimal.NewFromInt(2000),
		Justification:     "racing submit on the same order",
		RequestedBy:       uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)

	fx.repo.createErr = errors.New("connection refused")
	_, err = fx.svc.Submit(context.Background(), SubmitInput{
		OrderID:           fx.orders.order.ID,
		OriginalPrice:     decimal.NewFromInt(100000),
		RequestedDiscount: decimal.NewFromInt(2000),
		Justification:     "store failure should stay a dependency error",
		RequestedBy:       uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeDependency)
}

func TestSubmit_NotificationFailureIsWarning(t *testing.T) {
	fx := newServiceFixture(t)
	fx.notifier.failAll = true

	result, err := fx.svc.Submit(context.Background(), SubmitInput{
		OrderID:           fx.orders.order.ID,
		OriginalPrice:     decimal.NewFromInt(100000),
		RequestedDiscount: decimal.NewFromInt(3000),
		Justification:     "loyal customer year end purchase",
		RequestedBy:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("notification failure must not fail the submit: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected delivery warning")
	}
	if len(fx.repo.created) != 1 {
		t.Fatal("request should persist despite notification failure")
	}
}

func TestApprove_SingleLevelFinalizesOrder(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "3000") // 3% => requiredLevel 1

	if request.RequiredLevel != 1 {
		t.Fatalf("fixture expects level 1, got %d", request.RequiredLevel)
	}

	result, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	})
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if result.Request.Status != enums.DiscountStatusApproved {
		t.Fatalf("status = %s, want approved", result.Request.Status)
	}
	if result.Request.CurrentLevel != 1 {
		t.Fatalf("current level = %d, want 1", result.Request.CurrentLevel)
	}
	if fx.orders.updateCalls != 1 {
		t.Fatalf("order price must update exactly once, got %d", fx.orders.updateCalls)
	}
	if !fx.orders.updatedAmount.Equal(result.Request.FinalPrice) {
		t.Fatalf("order amount = %s, want %s", fx.orders.updatedAmount, result.Request.FinalPrice)
	}
	if len(fx.notifier.userMsgs) != 1 {
		t.Fatal("expected requester notification")
	}
}

func TestApprove_TwoLevelSequence(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "8000") // 8% => requiredLevel 2

	bm, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	})
	if err != nil {
		t.Fatalf("BM approve error: %v", err)
	}
	if bm.Request.Status != enums.DiscountStatusPendingGM {
		t.Fatalf("after BM status = %s, want pending_gm", bm.Request.Status)
	}
	if fx.orders.updateCalls != 0 {
		t.Fatal("BM approval alone must not finalize pricing on a two-level request")
	}
	if fx.notifier.roles[len(fx.notifier.roles)-1] != enums.StaffRoleGeneralManager {
		t.Fatal("expected escalation notification to general manager")
	}

	gm, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleGeneralManager,
	})
	if err != nil {
		t.Fatalf("GM approve error: %v", err)
	}
	if gm.Request.Status != enums.DiscountStatusApproved || gm.Request.CurrentLevel != 2 {
		t.Fatalf("after GM status = %s level %d", gm.Request.Status, gm.Request.CurrentLevel)
	}
	if fx.orders.updateCalls != 1 || !fx.orders.updatedAmount.Equal(decimal.NewFromInt(87000)) {
		t.Fatalf("order amount = %v after %d updates", fx.orders.updatedAmount, fx.orders.updateCalls)
	}

	wantActions := []enums.AuditAction{enums.AuditActionSubmitted, enums.AuditActionBMApproved, enums.AuditActionGMApproved}
	if len(fx.audit.entries) != len(wantActions) {
		t.Fatalf("audit trail %d entries, want %d", len(fx.audit.entries), len(wantActions))
	}
	for i, want := range wantActions {
		if fx.audit.entries[i].Action != want {
			t.Fatalf("audit[%d] = %s, want %s", i, fx.audit.entries[i].Action, want)
		}
	}
}

func TestApprove_GMBeforeBMIsSequenceError(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "8000")

	_, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleGeneralManager,
	})
	expectCode(t, err, pkgerrors.CodeSequence)

	reloaded, _ := fx.repo.FindByID(context.Background(), request.ID)
	if reloaded.CurrentLevel != 0 || reloaded.Status != enums.DiscountStatusPendingBM {
		t.Fatalf("state must be unchanged, got level %d status %s", reloaded.CurrentLevel, reloaded.Status)
	}
}

func TestApprove_SecondBMIsSequenceError(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "8000")

	if _, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	}); err != nil {
		t.Fatalf("first BM approve error: %v", err)
	}

	_, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	})
	expectCode(t, err, pkgerrors.CodeSequence)

	reloaded, _ := fx.repo.FindByID(context.Background(), request.ID)
	if reloaded.CurrentLevel != 1 {
		t.Fatalf("level must stay at 1, got %d", reloaded.CurrentLevel)
	}
}

func TestApprove_TerminalIsStateConflict(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "3000")

	if _, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	}); err != nil {
		t.Fatalf("approve error: %v", err)
	}

	_, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleGeneralManager,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApprove_RoleGate(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "3000")

	for _, role := range []enums.StaffRole{enums.StaffRoleSalesRep, enums.StaffRoleAdmin} {
		_, err := fx.svc.Approve(context.Background(), ApproveInput{
			RequestID: request.ID,
			ActorID:   uuid.New(),
			ActorRole: role,
		})
		expectCode(t, err, pkgerrors.CodeForbidden)
	}
}

func TestApprove_UnknownRequest(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: uuid.New(),
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestReject_FromEitherPendingState(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "8000")

	if _, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	}); err != nil {
		t.Fatalf("approve error: %v", err)
	}

	result, err := fx.svc.Reject(context.Background(), RejectInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleGeneralManager,
		Reason:    "margin too thin for this quarter",
	})
	if err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if result.Request.Status != enums.DiscountStatusRejected {
		t.Fatalf("status = %s, want rejected", result.Request.Status)
	}
	if fx.orders.updateCalls != 0 {
		t.Fatal("rejection must not touch order pricing")
	}
	if len(fx.notifier.userMsgs) != 1 {
		t.Fatal("expected requester notification with the reason")
	}
}

func TestReject_TerminalAndShortReason(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "3000")

	_, err := fx.svc.Reject(context.Background(), RejectInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
		Reason:    "no",
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	if _, err := fx.svc.Approve(context.Background(), ApproveInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
	}); err != nil {
		t.Fatalf("approve error: %v", err)
	}

	_, err = fx.svc.Reject(context.Background(), RejectInput{
		RequestID: request.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.StaffRoleBranchManager,
		Reason:    "approved requests cannot be rejected",
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestGetAndListByOrder(t *testing.T) {
	fx := newServiceFixture(t)
	request := fx.submit(t, "3000")

	got, err := fx.svc.Get(context.Background(), request.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != request.ID {
		t.Fatalf("got wrong request %s", got.ID)
	}

	list, err := fx.svc.ListByOrder(context.Background(), fx.orders.order.ID)
	if err != nil {
		t.Fatalf("ListByOrder error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 request, got %d", len(list))
	}

	if _, err := fx.svc.Get(context.Background(), uuid.New()); pkgerrors.As(err) == nil {
		t.Fatal("expected not found error")
	}
}
