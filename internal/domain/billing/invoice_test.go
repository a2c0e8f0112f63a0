package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	jobID := int64(123)
	inv, err := NewInvoice(&jobID, decimal.NewFromFloat(1000.00), "USD", "", "user-1")
	require.NoError(t, err)
	return inv
}

func TestNewInvoiceDefaults(t *testing.T) {
	inv := newTestInvoice(t)

	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.Equal(t, InvoiceTypeTaxInvoice, inv.InvoiceType)
	assert.False(t, inv.Deleted)
	assert.Nil(t, inv.PreviousStatus)
	assert.Equal(t, 1, inv.Version)
}

func TestNewInvoiceValidation(t *testing.T) {
	_, err := NewInvoice(nil, decimal.NewFromInt(-5), "USD", "", "u")
	assert.Error(t, err)

	_, err = NewInvoice(nil, decimal.NewFromInt(5), "", "", "u")
	assert.Error(t, err)

	_, err = NewInvoice(nil, decimal.NewFromInt(5), "USD", "Not A Type", "u")
	assert.Error(t, err)
}

func TestInvoiceStatusChange(t *testing.T) {
	inv := newTestInvoice(t)

	// Draft cannot jump straight to Sent
	err := inv.ChangeStatus(InvoiceStatusSent, "user-2")
	require.Error(t, err)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)

	require.NoError(t, inv.ChangeStatus(InvoiceStatusPending, "user-2"))
	require.NoError(t, inv.ChangeStatus(InvoiceStatusSent, "user-2"))
	assert.NotNil(t, inv.SentAt)

	require.NoError(t, inv.ChangeStatus(InvoiceStatusPaid, "user-2"))
	assert.NotNil(t, inv.PaidAt)
	assert.Equal(t, "user-2", inv.ModifiedBy)
}

func TestInvoiceSoftDeleteIdempotent(t *testing.T) {
	inv := newTestInvoice(t)

	inv.SoftDelete("user-1")
	assert.True(t, inv.Deleted)
	first := inv.UpdatedAt

	inv.SoftDelete("user-2")
	assert.True(t, inv.Deleted)
	assert.Equal(t, first, inv.UpdatedAt)
	assert.Equal(t, "user-1", inv.ModifiedBy)
}

func TestInvoiceArchiveRestore(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.ChangeStatus(InvoiceStatusPending, "u"))
	require.NoError(t, inv.ChangeStatus(InvoiceStatusSent, "u"))

	require.NoError(t, inv.Archive("u"))
	assert.Equal(t, InvoiceStatusArchived, inv.Status)
	assert.True(t, inv.Deleted)
	require.NotNil(t, inv.PreviousStatus)
	assert.Equal(t, InvoiceStatusSent, *inv.PreviousStatus)

	// Archiving twice fails
	assert.Error(t, inv.Archive("u"))

	require.NoError(t, inv.Restore("u"))
	assert.Equal(t, InvoiceStatusSent, inv.Status)
	assert.False(t, inv.Deleted)
	assert.Nil(t, inv.PreviousStatus)

	// Restoring a live invoice fails
	assert.Error(t, inv.Restore("u"))
}

func TestInvoiceGroupMembershipIdempotent(t *testing.T) {
	inv := newTestInvoice(t)
	group, err := NewInvoiceGroup("USD", "u")
	require.NoError(t, err)

	inv.AssignToGroup(group.ID)
	require.NotNil(t, inv.InvoiceGroupID)
	stamp := inv.UpdatedAt

	inv.AssignToGroup(group.ID)
	assert.Equal(t, stamp, inv.UpdatedAt)

	inv.RemoveFromGroup()
	assert.Nil(t, inv.InvoiceGroupID)
	inv.RemoveFromGroup()
	assert.Nil(t, inv.InvoiceGroupID)
}

func TestInvoiceItemSortOrder(t *testing.T) {
	inv := newTestInvoice(t)
	fr := "fr"
	de := "de"

	itemFr, err := NewInvoiceItem(inv.ID, ItemTypeLanguagePair, "en", &fr, "USD", decimal.NewFromInt(10), decimal.NewFromInt(100))
	require.NoError(t, err)
	itemDe, err := NewInvoiceItem(inv.ID, ItemTypeOther, "en", &de, "USD", decimal.NewFromInt(10), decimal.NewFromInt(100))
	require.NoError(t, err)
	itemNoTarget, err := NewInvoiceItem(inv.ID, ItemTypeAdditionalItem, "", nil, "USD", decimal.NewFromInt(5), decimal.NewFromInt(5))
	require.NoError(t, err)

	inv.Items = []InvoiceItem{*itemFr, *itemDe, *itemNoTarget}
	inv.SortItems()

	assert.Nil(t, inv.Items[0].TargetLang)
	assert.Equal(t, ItemTypeLanguagePair, inv.Items[1].ItemType)
	assert.Equal(t, ItemTypeOther, inv.Items[2].ItemType)
}

func TestInvoiceItemValidation(t *testing.T) {
	inv := newTestInvoice(t)

	_, err := NewInvoiceItem(inv.ID, "bogus", "", nil, "USD", decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewInvoiceItem(inv.ID, ItemTypeOther, "", nil, "USD", decimal.NewFromInt(-1), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestSalesOrderWorkflowOnInvoice(t *testing.T) {
	inv, err := NewInvoice(nil, decimal.NewFromInt(500), "EUR", InvoiceTypeProForma, "u")
	require.NoError(t, err)
	require.True(t, inv.IsSalesOrder())

	require.NoError(t, inv.ChangeStatus(InvoiceStatusPending, "u"))
	require.NoError(t, inv.ChangeStatus(InvoiceStatusSent, "u"))

	// Paid is not a sales order status
	assert.Error(t, inv.ChangeStatus(InvoiceStatusPaid, "u"))
	// Cancellation is allowed from Sent
	require.NoError(t, inv.ChangeStatus(InvoiceStatusCancelled, "u"))
}

func TestTransformToInvoice(t *testing.T) {
	fr := "fr"
	so, err := NewInvoice(nil, decimal.NewFromInt(750), "NZD", InvoiceTypeSalesOrder, "u")
	require.NoError(t, err)
	item, err := NewInvoiceItem(so.ID, ItemTypeLanguagePair, "en", &fr, "NZD", decimal.NewFromInt(15), decimal.NewFromInt(750))
	require.NoError(t, err)
	so.Items = []InvoiceItem{*item}

	// Not allowed before Sent
	_, err = so.TransformToInvoice("", nil, "u")
	require.Error(t, err)

	require.NoError(t, so.ChangeStatus(InvoiceStatusPending, "u"))
	require.NoError(t, so.ChangeStatus(InvoiceStatusSent, "u"))

	created, err := so.TransformToInvoice("", nil, "u")
	require.NoError(t, err)

	assert.Equal(t, InvoiceStatus(SalesOrderStatusTransformed), so.Status)
	assert.Equal(t, InvoiceTypeTaxInvoice, created.InvoiceType)
	assert.Equal(t, InvoiceStatusDraft, created.Status)
	assert.True(t, created.Amount.Equal(so.Amount))
	require.Len(t, created.Items, 1)
	assert.Equal(t, created.ID, created.Items[0].InvoiceID)
	assert.NotEqual(t, so.Items[0].ID, created.Items[0].ID)
}

func TestTransformRejectsPlainInvoice(t *testing.T) {
	inv := newTestInvoice(t)
	_, err := inv.TransformToInvoice("", nil, "u")
	assert.Error(t, err)
}
