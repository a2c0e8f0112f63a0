package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInvoiceGroupRepository creates a GormInvoiceGroupRepository with a mocked SQL connection
func newMockInvoiceGroupRepository(t *testing.T) (*GormInvoiceGroupRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormInvoiceGroupRepository(gormDB), mock, mockDB
}

func TestGormInvoiceGroupRepository_FindByID(t *testing.T) {
	t.Run("finds a live group", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceGroupRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "status", "currency", "deleted"}).
			AddRow(groupID, 1, "Draft", "EUR", false)

		mock.ExpectQuery(`SELECT \* FROM "invoice_groups" WHERE id = \$1 AND deleted = \$2`).
			WithArgs(groupID, false, 1).
			WillReturnRows(rows)

		group, err := repo.FindByID(context.Background(), groupID)

		assert.NoError(t, err)
		require.NotNil(t, group)
		assert.Equal(t, groupID, group.ID)
		assert.Equal(t, billing.InvoiceStatusDraft, group.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing group", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceGroupRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoice_groups"`).
			WillReturnError(gorm.ErrRecordNotFound)

		group, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, group)
	})
}

func TestGormInvoiceGroupRepository_SaveWithLock(t *testing.T) {
	t.Run("returns concurrency conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceGroupRepository(t)
		defer mockDB.Close()

		group, err := billing.NewInvoiceGroup("EUR", "tester")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "invoice_groups" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), group)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceGroupRepository_FindMembers(t *testing.T) {
	t.Run("lists live member invoices with job enrichment", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceGroupRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		memberID := uuid.New()
		jobUUID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "invoice_group_id", "invoice_type", "status", "currency", "deleted", "job_uuid"}).
			AddRow(memberID, 1, groupID, "Tax Invoice", "Sent", "EUR", false, jobUUID)

		mock.ExpectQuery(`SELECT invoices\.\*, jobs\.uuid AS job_uuid FROM "invoices" LEFT JOIN jobs ON invoices\.job_id = jobs\.id WHERE invoices\.invoice_group_id = \$1 AND invoices\.deleted = \$2 ORDER BY invoices\.created_at ASC`).
			WithArgs(groupID, false).
			WillReturnRows(rows)

		mock.ExpectQuery(`SELECT \* FROM "invoice_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "item_type"}))

		members, err := repo.FindMembers(context.Background(), groupID)

		assert.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, memberID, members[0].ID)
		require.NotNil(t, members[0].JobUUID)
		assert.Equal(t, jobUUID, *members[0].JobUUID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
