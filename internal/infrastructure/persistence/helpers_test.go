package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupPricingTestDB opens a private in-memory SQLite database with the
// pricing schema. A single connection keeps every query on the same database.
func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.TenantModel{},
		&models.PriceListModel{},
		&models.PriceListEntryModel{},
		&models.PriceListAssignmentModel{},
		&models.QuoteAuditModel{},
	))
	return db
}

// newMockGormDB wires gorm's postgres dialector to sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newPriceList(kind pricing.ListKind, owner *uuid.UUID) *pricing.PriceList {
	return &pricing.PriceList{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          "BRT " + string(kind),
		OwnerID:       owner,
		Kind:          kind,
		Status:        pricing.StatusActive,
		TaxConvention: pricing.TaxExclusive,
		Carrier: pricing.CarrierContractRef{
			CarrierCode:  "brt",
			ContractCode: "brt-standard",
			ConfigID:     "cfg-brt",
		},
	}
}

func newEntry(zone string, from, to, base string) pricing.Entry {
	return pricing.Entry{
		ID:          uuid.New(),
		WeightFrom:  dec(from),
		WeightTo:    dec(to),
		ZoneCode:    zone,
		ServiceType: pricing.ServiceStandard,
		BasePrice:   dec(base),
		Delivery:    pricing.DeliveryEstimate{MinDays: 1, MaxDays: 3},
	}
}

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
