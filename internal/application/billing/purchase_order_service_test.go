package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestPOService(repo *MockPurchaseOrderRepository) *PurchaseOrderService {
	return NewPurchaseOrderService(repo, decimal.NewFromInt(500), 50)
}

func createTestPO(status billing.POStatus, amount decimal.Decimal) *billing.PurchaseOrder {
	jobUUID := uuid.New()
	translatorID := uuid.New()
	po, _ := billing.NewPurchaseOrder(&jobUUID, &translatorID, amount, "EUR", "translation")
	po.Status = status
	return po
}

func TestPurchaseOrderService_Create_Success(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	jobUUID := uuid.New()
	req := CreatePurchaseOrderRequest{
		JobUUID:  &jobUUID,
		Amount:   decimal.NewFromFloat(300.00),
		Currency: "EUR",
		POType:   "translation",
	}

	mockRepo.On("Save", ctx, mock.AnythingOfType("*billing.PurchaseOrder")).Return(nil)
	mockRepo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(createTestPO(billing.POStatusPending, req.Amount), nil)

	result, err := service.Create(ctx, req, testUser)

	assert.NoError(t, err)
	assert.Equal(t, "Pending", result.Status)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Approve_RequiresCompletedOrDisputed(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusPending, decimal.NewFromFloat(300.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)

	result, err := service.Approve(ctx, po.ID, testUser)

	assert.Error(t, err)
	assert.Nil(t, result)
	var transitionErr *billing.InvalidStatusTransitionError
	assert.ErrorAs(t, err, &transitionErr)
	mockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_Approve_BelowThresholdWithoutActor(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusCompleted, decimal.NewFromFloat(120.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)
	mockRepo.On("SaveWithLock", ctx, po).Return(nil)

	result, err := service.Approve(ctx, po.ID, "")

	assert.NoError(t, err)
	assert.Equal(t, "Approved", result.Status)
	assert.True(t, result.ApprovedForPay)
	assert.Equal(t, "auto-approval", result.ApprovedBy)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Approve_AtThresholdNeedsActor(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusCompleted, decimal.NewFromInt(500))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)

	result, err := service.Approve(ctx, po.ID, "")

	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_Approve_FromDisputed(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusDisputed, decimal.NewFromFloat(800.00))
	po.IsDisputed = true

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)
	mockRepo.On("SaveWithLock", ctx, po).Return(nil)

	result, err := service.Approve(ctx, po.ID, testUser)

	assert.NoError(t, err)
	assert.Equal(t, "Approved", result.Status)
	assert.False(t, result.IsDisputed)
	assert.Equal(t, testUser, result.ApprovedBy)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Dispute_FlagsOrder(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusAccepted, decimal.NewFromFloat(800.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)
	mockRepo.On("SaveWithLock", ctx, po).Return(nil)

	result, err := service.Dispute(ctx, po.ID)

	assert.NoError(t, err)
	assert.Equal(t, "Disputed", result.Status)
	assert.True(t, result.IsDisputed)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Dispute_TerminalOrderRejected(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusCancelled, decimal.NewFromFloat(800.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)

	result, err := service.Dispute(ctx, po.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_Update_StatusUsesLock(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusPending, decimal.NewFromFloat(300.00))
	status := "Accepted"

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)
	mockRepo.On("SaveWithLock", ctx, po).Return(nil)

	result, err := service.Update(ctx, po.ID, UpdatePurchaseOrderRequest{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, "Accepted", result.Status)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Delete_AlreadyDeletedIsNoOp(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusPending, decimal.NewFromFloat(300.00))
	po.SoftDelete()

	mockRepo.On("FindByIDIncludingDeleted", ctx, po.ID).Return(po, nil)

	err := service.Delete(ctx, po.ID)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_BatchApprove_PartialFailure(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	good := createTestPO(billing.POStatusCompleted, decimal.NewFromFloat(200.00))
	bad := createTestPO(billing.POStatusPending, decimal.NewFromFloat(200.00))
	missing := uuid.New()

	mockRepo.On("FindByID", ctx, good.ID).Return(good, nil)
	mockRepo.On("FindByID", ctx, bad.ID).Return(bad, nil)
	mockRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	mockRepo.On("SaveWithLock", ctx, good).Return(nil)

	result, err := service.BatchApprove(ctx, []uuid.UUID{good.ID, bad.ID, missing}, testUser)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Results[0].Success)
	assert.Empty(t, result.Results[0].Code)
	assert.False(t, result.Results[1].Success)
	assert.NotEmpty(t, result.Results[1].Error)
	assert.False(t, result.Results[2].Success)
}

func TestPurchaseOrderService_BatchApprove_ItemErrorsCarryCode(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	pending := createTestPO(billing.POStatusPending, decimal.NewFromFloat(200.00))
	big := createTestPO(billing.POStatusCompleted, decimal.NewFromFloat(9000.00))
	missing := uuid.New()

	mockRepo.On("FindByID", ctx, pending.ID).Return(pending, nil)
	mockRepo.On("FindByID", ctx, big.ID).Return(big, nil)
	mockRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	// empty approver: the over-threshold order is refused outright
	result, err := service.BatchApprove(ctx, []uuid.UUID{pending.ID, big.ID, missing}, "")

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Failed)
	// each failure names its error kind, not just a message
	assert.Equal(t, "INVALID_STATUS_TRANSITION", result.Results[0].Code)
	assert.Equal(t, "FORBIDDEN", result.Results[1].Code)
	assert.Equal(t, "NOT_FOUND", result.Results[2].Code)
	for _, item := range result.Results {
		assert.NotEmpty(t, item.Error)
	}
}

func TestPurchaseOrderService_BatchApprove_EmptyInput(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	result, err := service.BatchApprove(context.Background(), nil, testUser)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_BATCH", domainErr.Code)
}

func TestPurchaseOrderService_BatchDelete_OversizedInput(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := NewPurchaseOrderService(mockRepo, decimal.NewFromInt(500), 2)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	result, err := service.BatchDelete(context.Background(), ids)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BATCH_TOO_LARGE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "FindByIDIncludingDeleted", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_CreateMilestone_Success(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusAccepted, decimal.NewFromFloat(300.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)
	mockRepo.On("SaveMilestone", ctx, mock.AnythingOfType("*billing.POMilestone")).Return(nil)

	result, err := service.CreateMilestone(ctx, po.ID, CreatePOMilestoneRequest{Milestone: 50})

	assert.NoError(t, err)
	assert.Equal(t, 50, result.Milestone)
	assert.False(t, result.Confirmed)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_CreateMilestone_InvalidPercentage(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusAccepted, decimal.NewFromFloat(300.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)

	result, err := service.CreateMilestone(ctx, po.ID, CreatePOMilestoneRequest{Milestone: 120})

	assert.Error(t, err)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "SaveMilestone", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_GetMilestone(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	milestone, _ := billing.NewPOMilestone(uuid.New(), 25, "kickoff")

	mockRepo.On("FindMilestoneByID", ctx, milestone.ID).Return(milestone, nil)

	result, err := service.GetMilestone(ctx, milestone.ID)

	assert.NoError(t, err)
	assert.Equal(t, milestone.ID, result.ID)
	assert.Equal(t, 25, result.Milestone)
	assert.Equal(t, "kickoff", result.Notes)
}

func TestPurchaseOrderService_GetMilestone_NotFound(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	id := uuid.New()

	mockRepo.On("FindMilestoneByID", ctx, id).Return(nil, shared.ErrNotFound)

	result, err := service.GetMilestone(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
}

func TestPurchaseOrderService_GetDisbursement(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	item, _ := billing.NewPODisbursementItem(uuid.New(), "courier", "", 3, decimal.NewFromFloat(10.00), decimal.NewFromFloat(30.00))

	mockRepo.On("FindDisbursementByID", ctx, item.ID).Return(item, nil)

	result, err := service.GetDisbursement(ctx, item.ID)

	assert.NoError(t, err)
	assert.Equal(t, item.ID, result.ID)
	assert.Equal(t, "courier", result.ItemType)
	assert.True(t, result.TotalCost.Equal(decimal.NewFromFloat(30.00)))
}

func TestPurchaseOrderService_UpdateMilestone_ConfirmStampsCompletion(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	milestone, _ := billing.NewPOMilestone(uuid.New(), 25, "")
	confirmed := true

	mockRepo.On("FindMilestoneByID", ctx, milestone.ID).Return(milestone, nil)
	mockRepo.On("SaveMilestone", ctx, milestone).Return(nil)

	result, err := service.UpdateMilestone(ctx, milestone.ID, UpdatePOMilestoneRequest{Confirmed: &confirmed})

	assert.NoError(t, err)
	assert.True(t, result.Confirmed)
	assert.NotNil(t, result.CompletedAt)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_CreateDisbursement_TotalMismatch(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	po := createTestPO(billing.POStatusAccepted, decimal.NewFromFloat(300.00))

	mockRepo.On("FindByID", ctx, po.ID).Return(po, nil)

	req := CreatePODisbursementRequest{
		ItemType:    "courier",
		NoOfUnits:   3,
		RatePerUnit: decimal.NewFromFloat(10.00),
		TotalCost:   decimal.NewFromFloat(35.00),
	}
	result, err := service.CreateDisbursement(ctx, po.ID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOTAL_COST", domainErr.Code)
	mockRepo.AssertNotCalled(t, "SaveDisbursement", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_UpdateDisbursement_RechecksTotal(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	service := newTestPOService(mockRepo)

	ctx := context.Background()
	item, _ := billing.NewPODisbursementItem(uuid.New(), "courier", "", 3, decimal.NewFromFloat(10.00), decimal.NewFromFloat(30.00))
	badTotal := decimal.NewFromFloat(99.00)

	mockRepo.On("FindDisbursementByID", ctx, item.ID).Return(item, nil)

	result, err := service.UpdateDisbursement(ctx, item.ID, UpdatePODisbursementRequest{TotalCost: &badTotal})

	assert.Error(t, err)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "SaveDisbursement", mock.Anything, mock.Anything)
}
