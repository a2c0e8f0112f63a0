package integration

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/langbridge/billing/internal/application/billing"
	"github.com/langbridge/billing/internal/infrastructure/persistence"
	"github.com/langbridge/billing/internal/infrastructure/persistence/models"
)

var testDBSeq atomic.Int64

// purchaseOrdersDDL mirrors the purchase_orders schema by hand. The order
// number is a non-key serial column, which sqlite cannot express, so the
// table is created directly instead of through AutoMigrate and unassigned
// order numbers stay NULL.
const purchaseOrdersDDL = `
CREATE TABLE purchase_orders (
	id uuid PRIMARY KEY,
	created_at datetime NOT NULL,
	updated_at datetime NOT NULL,
	version integer NOT NULL DEFAULT 1,
	order_number integer,
	job_uuid uuid,
	translator_id uuid,
	project_manager_id uuid,
	order_date datetime,
	amount decimal(18,4) NOT NULL DEFAULT 0,
	amount_nett decimal(18,4) NOT NULL DEFAULT 0,
	currency varchar(3) NOT NULL,
	status varchar(20) NOT NULL DEFAULT 'Pending',
	previous_status varchar(20),
	po_type varchar(50),
	target_lang varchar(10),
	date_start datetime,
	date_due datetime,
	order_notes text,
	decline_note text,
	is_internal boolean NOT NULL DEFAULT false,
	is_disputed boolean NOT NULL DEFAULT false,
	approved_for_pay boolean NOT NULL DEFAULT false,
	approved_at datetime,
	approved_by varchar(100),
	deleted boolean NOT NULL DEFAULT false,
	job_id integer
)`

// newTestDB opens a private in-memory database and installs the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:billing_it_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive for the
	// whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.JobModel{},
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
		&models.InvoiceGroupModel{},
		&models.POMilestoneModel{},
		&models.PODisbursementItemModel{},
	))
	require.NoError(t, db.Exec(purchaseOrdersDDL).Error)

	return db
}

// testEnv wires the repositories and services against a fresh database the
// same way cmd/server does.
type testEnv struct {
	db *gorm.DB

	invoiceRepo *persistence.GormInvoiceRepository
	groupRepo   *persistence.GormInvoiceGroupRepository
	poRepo      *persistence.GormPurchaseOrderRepository

	invoices *billingapp.InvoiceService
	groups   *billingapp.InvoiceGroupService
	orders   *billingapp.PurchaseOrderService
	sales    *billingapp.SalesOrderService
}

const (
	testAutoApproveThreshold = 1000
	testMaxBatchSize         = 50
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	groupRepo := persistence.NewGormInvoiceGroupRepository(db)
	poRepo := persistence.NewGormPurchaseOrderRepository(db)

	return &testEnv{
		db:          db,
		invoiceRepo: invoiceRepo,
		groupRepo:   groupRepo,
		poRepo:      poRepo,
		invoices:    billingapp.NewInvoiceService(invoiceRepo),
		groups:      billingapp.NewInvoiceGroupService(groupRepo, invoiceRepo),
		orders:      billingapp.NewPurchaseOrderService(poRepo, decimal.NewFromInt(testAutoApproveThreshold), testMaxBatchSize),
		sales:       billingapp.NewSalesOrderService(invoiceRepo),
	}
}

// seedJob inserts a jobs row and returns its UUID for enrichment checks.
func (e *testEnv) seedJob(t *testing.T, id int64, title string) uuid.UUID {
	t.Helper()

	job := models.JobModel{ID: id, UUID: uuid.New(), Title: title}
	require.NoError(t, e.db.Create(&job).Error)
	return job.UUID
}
