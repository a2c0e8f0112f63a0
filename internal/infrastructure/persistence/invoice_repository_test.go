package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_FindByID(t *testing.T) {
	t.Run("enriches the invoice with the joined job UUID", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		jobUUID := uuid.New()
		jobID := int64(4711)

		rows := sqlmock.NewRows([]string{"id", "version", "invoice_type", "status", "amount", "amount_nett", "currency", "deleted", "job_id", "job_uuid"}).
			AddRow(invoiceID, 1, "Tax Invoice", "Sent", decimal.RequireFromString("250"), decimal.RequireFromString("250"), "EUR", false, jobID, jobUUID)

		mock.ExpectQuery(`SELECT invoices\.\*, jobs\.uuid AS job_uuid FROM "invoices" LEFT JOIN jobs ON invoices\.job_id = jobs\.id WHERE invoices\.id = \$1 AND invoices\.deleted = \$2`).
			WithArgs(invoiceID, false, 1).
			WillReturnRows(rows)

		mock.ExpectQuery(`SELECT \* FROM "invoice_items" WHERE "invoice_items"\."invoice_id" = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "item_type"}))

		inv, err := repo.FindByID(context.Background(), invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, inv)
		assert.Equal(t, invoiceID, inv.ID)
		assert.Equal(t, billing.InvoiceStatusSent, inv.Status)
		require.NotNil(t, inv.JobUUID)
		assert.Equal(t, jobUUID, *inv.JobUUID)
		require.NotNil(t, inv.JobID)
		assert.Equal(t, jobID, *inv.JobID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		mock.ExpectQuery(`SELECT invoices\.\*, jobs\.uuid AS job_uuid FROM "invoices"`).
			WillReturnError(gorm.ErrRecordNotFound)

		inv, err := repo.FindByID(context.Background(), invoiceID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, inv)
	})

	t.Run("excludes soft deleted invoices", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		mock.ExpectQuery(`WHERE invoices\.id = \$1 AND invoices\.deleted = \$2`).
			WithArgs(invoiceID, false, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), invoiceID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindByIDIncludingDeleted(t *testing.T) {
	t.Run("returns deleted invoices too", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "invoice_type", "status", "currency", "deleted"}).
			AddRow(invoiceID, 2, "Tax Invoice", "Archived", "EUR", true)

		mock.ExpectQuery(`SELECT invoices\.\*, jobs\.uuid AS job_uuid FROM "invoices" LEFT JOIN jobs ON invoices\.job_id = jobs\.id WHERE invoices\.id = \$1`).
			WithArgs(invoiceID, 1).
			WillReturnRows(rows)

		mock.ExpectQuery(`SELECT \* FROM "invoice_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "item_type"}))

		inv, err := repo.FindByIDIncludingDeleted(context.Background(), invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, inv)
		assert.True(t, inv.Deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_Count(t *testing.T) {
	t.Run("counts live invoices", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" LEFT JOIN jobs ON invoices\.job_id = jobs\.id WHERE invoices\.deleted = \$1`).
			WithArgs(false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), shared.NewFilter())

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("returns concurrency conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv, err := billing.NewInvoice(nil, decimal.RequireFromString("100"), "EUR", billing.InvoiceTypeTaxInvoice, "tester")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.SaveWithLock(context.Background(), inv)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments the version on success", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv, err := billing.NewInvoice(nil, decimal.RequireFromString("100"), "EUR", billing.InvoiceTypeTaxInvoice, "tester")
		require.NoError(t, err)
		require.Equal(t, 1, inv.Version)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "invoice_items" WHERE invoice_id = \$1`).
			WithArgs(inv.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = repo.SaveWithLock(context.Background(), inv)

		assert.NoError(t, err)
		assert.Equal(t, 2, inv.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_Transform(t *testing.T) {
	newPair := func(t *testing.T) (*billing.Invoice, *billing.Invoice) {
		so, err := billing.NewInvoice(nil, decimal.RequireFromString("900"), "GBP", billing.InvoiceTypeSalesOrder, "tester")
		require.NoError(t, err)
		so.Status = billing.InvoiceStatus(billing.SalesOrderStatusSent)
		inv, err := so.TransformToInvoice(billing.InvoiceTypeTaxInvoice, nil, "tester")
		require.NoError(t, err)
		return so, inv
	}

	t.Run("commits both records in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		so, inv := newPair(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "invoice_items" WHERE invoice_id = \$1`).
			WithArgs(so.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "invoice_items" WHERE invoice_id = \$1`).
			WithArgs(inv.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Transform(context.Background(), so, inv)

		assert.NoError(t, err)
		assert.Equal(t, 2, so.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the sales order write when the invoice write fails", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		so, inv := newPair(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "invoice_items" WHERE invoice_id = \$1`).
			WithArgs(so.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.Transform(context.Background(), so, inv)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_DeleteItem(t *testing.T) {
	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()
		mock.ExpectExec(`DELETE FROM "invoice_items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteItem(context.Background(), itemID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
