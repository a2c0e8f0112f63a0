package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Transform(ctx context.Context, salesOrder, invoice *billing.Invoice) error {
	args := m.Called(ctx, salesOrder, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*billing.InvoiceItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepository) FindItems(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]billing.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepository) SaveItem(ctx context.Context, item *billing.InvoiceItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// MockInvoiceGroupRepository is a mock implementation of InvoiceGroupRepository
type MockInvoiceGroupRepository struct {
	mock.Mock
}

func (m *MockInvoiceGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceGroup), args.Error(1)
}

func (m *MockInvoiceGroupRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*billing.InvoiceGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceGroup), args.Error(1)
}

func (m *MockInvoiceGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.InvoiceGroup, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.InvoiceGroup), args.Error(1)
}

func (m *MockInvoiceGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceGroupRepository) Save(ctx context.Context, group *billing.InvoiceGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockInvoiceGroupRepository) SaveWithLock(ctx context.Context, group *billing.InvoiceGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockInvoiceGroupRepository) FindMembers(ctx context.Context, groupID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*billing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *billing.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *billing.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindMilestones(ctx context.Context, poID uuid.UUID) ([]billing.POMilestone, error) {
	args := m.Called(ctx, poID)
	return args.Get(0).([]billing.POMilestone), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindMilestoneByID(ctx context.Context, milestoneID uuid.UUID) (*billing.POMilestone, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.POMilestone), args.Error(1)
}

func (m *MockPurchaseOrderRepository) SaveMilestone(ctx context.Context, milestone *billing.POMilestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindDisbursements(ctx context.Context, poID uuid.UUID) ([]billing.PODisbursementItem, error) {
	args := m.Called(ctx, poID)
	return args.Get(0).([]billing.PODisbursementItem), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindDisbursementByID(ctx context.Context, itemID uuid.UUID) (*billing.PODisbursementItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PODisbursementItem), args.Error(1)
}

func (m *MockPurchaseOrderRepository) SaveDisbursement(ctx context.Context, item *billing.PODisbursementItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) DeleteDisbursement(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
