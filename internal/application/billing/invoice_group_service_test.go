package billing

import (
	"context"
	"testing"

	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestGroup() *billing.InvoiceGroup {
	group, _ := billing.NewInvoiceGroup("EUR", testUser)
	return group
}

func TestInvoiceGroupService_Create_Success(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	req := CreateInvoiceGroupRequest{
		Currency:     "EUR",
		ClientName:   "Acme GmbH",
		InclInvoices: true,
		InclJobTitle: true,
	}

	mockGroupRepo.On("Save", ctx, mock.AnythingOfType("*billing.InvoiceGroup")).Return(nil)

	result, err := service.Create(ctx, req, testUser)

	assert.NoError(t, err)
	assert.Equal(t, "Draft", result.Status)
	assert.Equal(t, "EUR", result.Currency)
	assert.True(t, result.InclInvoices)
	assert.True(t, result.InclJobTitle)
	assert.False(t, result.InclPO)
	mockGroupRepo.AssertExpectations(t)
}

func TestInvoiceGroupService_AddInvoice_RecalculatesTotals(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	inv := createTestInvoice()

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockInvoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
	mockInvoiceRepo.On("Save", ctx, inv).Return(nil)
	mockGroupRepo.On("FindMembers", ctx, group.ID).Return([]billing.Invoice{*inv}, nil)
	mockGroupRepo.On("Save", ctx, group).Return(nil)

	result, err := service.AddInvoice(ctx, group.ID, inv.ID, testUser)

	assert.NoError(t, err)
	assert.Equal(t, &group.ID, inv.InvoiceGroupID)
	assert.True(t, result.Amount.Equal(inv.Amount))
	assert.Len(t, result.Invoices, 1)
	mockGroupRepo.AssertExpectations(t)
	mockInvoiceRepo.AssertExpectations(t)
}

func TestInvoiceGroupService_AddInvoice_CurrencyMismatch(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	inv := createTestInvoice()
	inv.Currency = "USD"

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockInvoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

	result, err := service.AddInvoice(ctx, group.ID, inv.ID, testUser)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
	mockInvoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceGroupService_AddInvoice_AlreadyMemberIsNoOp(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	inv := createTestInvoice()
	inv.AssignToGroup(group.ID)

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockInvoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
	mockGroupRepo.On("FindMembers", ctx, group.ID).Return([]billing.Invoice{*inv}, nil)
	mockGroupRepo.On("Save", ctx, group).Return(nil)

	_, err := service.AddInvoice(ctx, group.ID, inv.ID, testUser)

	assert.NoError(t, err)
	mockInvoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceGroupService_AddInvoice_GroupedElsewhere(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	other := createTestGroup()
	inv := createTestInvoice()
	inv.AssignToGroup(other.ID)

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockInvoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

	result, err := service.AddInvoice(ctx, group.ID, inv.ID, testUser)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_GROUPED", domainErr.Code)
}

func TestInvoiceGroupService_AddInvoice_RejectsSalesOrder(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	so := createTestSalesOrder(billing.SalesOrderStatusDraft)

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockInvoiceRepo.On("FindByID", ctx, so.ID).Return(so, nil)

	result, err := service.AddInvoice(ctx, group.ID, so.ID, testUser)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INVOICE_TYPE", domainErr.Code)
}

func TestInvoiceGroupService_RemoveInvoice_NonMemberIsNoOp(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	inv := createTestInvoice()

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockInvoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
	mockGroupRepo.On("FindMembers", ctx, group.ID).Return([]billing.Invoice{}, nil)
	mockGroupRepo.On("Save", ctx, group).Return(nil)

	result, err := service.RemoveInvoice(ctx, group.ID, inv.ID, testUser)

	assert.NoError(t, err)
	assert.True(t, result.Amount.Equal(decimal.Zero))
	mockInvoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceGroupService_Delete_DetachesMembers(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	inv := createTestInvoice()
	inv.AssignToGroup(group.ID)

	mockGroupRepo.On("FindByIDIncludingDeleted", ctx, group.ID).Return(group, nil)
	mockGroupRepo.On("FindMembers", ctx, group.ID).Return([]billing.Invoice{*inv}, nil)
	mockInvoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	mockGroupRepo.On("Save", ctx, group).Return(nil)

	err := service.Delete(ctx, group.ID, testUser)

	assert.NoError(t, err)
	assert.True(t, group.Deleted)
	mockGroupRepo.AssertExpectations(t)
	mockInvoiceRepo.AssertExpectations(t)
}

func TestInvoiceGroupService_Delete_AlreadyDeletedIsNoOp(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	group.SoftDelete(testUser)

	mockGroupRepo.On("FindByIDIncludingDeleted", ctx, group.ID).Return(group, nil)

	err := service.Delete(ctx, group.ID, testUser)

	assert.NoError(t, err)
	mockGroupRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceGroupService_Update_StatusUsesLock(t *testing.T) {
	mockGroupRepo := new(MockInvoiceGroupRepository)
	mockInvoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceGroupService(mockGroupRepo, mockInvoiceRepo)

	ctx := context.Background()
	group := createTestGroup()
	status := "Pending"

	mockGroupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	mockGroupRepo.On("SaveWithLock", ctx, group).Return(nil)

	result, err := service.Update(ctx, group.ID, UpdateInvoiceGroupRequest{Status: &status}, testUser)

	assert.NoError(t, err)
	assert.Equal(t, "Pending", result.Status)
	mockGroupRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockGroupRepo.AssertExpectations(t)
}
