package store

import (
	"testing"
	"time"

	"ecoharvest-api/internal/database"
	"ecoharvest-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestStore spins up a fresh in-memory database per test.
func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return New(db), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:   name,
		Price:  price,
		Status: 1,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedReceipt(t *testing.T, db *gorm.DB) *models.ImportReceipt {
	t.Helper()

	receipt := &models.ImportReceipt{
		SupplierName: "Dalat Farms",
		ImportDate:   time.Now(),
	}
	require.NoError(t, db.Create(receipt).Error)
	return receipt
}

// seedBatch inserts a batch through the store so reconciliation runs.
func seedBatch(t *testing.T, s *Store, productID string, receiptID uint, code string, imported int, unitCost int64) *models.Batch {
	t.Helper()

	batch := &models.Batch{
		ProductID:        productID,
		ImportReceiptID:  receiptID,
		BatchCode:        code,
		QuantityImported: imported,
		UnitCost:         unitCost,
	}
	require.NoError(t, s.CreateBatch(batch))
	return batch
}
