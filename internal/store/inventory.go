package store

import (
	"time"

	"ecoharvest-api/internal/models"

	"gorm.io/gorm"
)

// RecomputeReceiptTotal recalculates an import receipt's denormalized total
// from its batches and writes it back. A receipt id with no batches (or no
// receipt row at all) yields 0; the latter is a zero-row update, not an error.
func (s *Store) RecomputeReceiptTotal(receiptID uint) (int64, error) {
	var total int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		total, txErr = recomputeReceiptTotal(tx, receiptID)
		return txErr
	})
	return total, err
}

func recomputeReceiptTotal(tx *gorm.DB, receiptID uint) (int64, error) {
	var total int64
	err := tx.Model(&models.Batch{}).
		Where("import_receipt_id = ?", receiptID).
		Select("COALESCE(SUM(unit_cost * quantity_imported), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	err = tx.Model(&models.ImportReceipt{}).
		Where("id = ?", receiptID).
		Updates(map[string]interface{}{
			"total_amount": total,
			"updated_at":   time.Now(),
		}).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

// syncProductQuantity writes the sum of quantity_remaining over a product's
// batches into the denormalized products.quantity column.
func syncProductQuantity(tx *gorm.DB, productID string) (int, error) {
	var total int
	err := tx.Model(&models.Batch{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity_remaining), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	err = tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":   total,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

// SyncProductQuantity is the standalone variant for callers outside a
// transaction (admin tooling, batch handlers).
func (s *Store) SyncProductQuantity(productID string) (int, error) {
	var total int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		total, txErr = syncProductQuantity(tx, productID)
		return txErr
	})
	return total, err
}

// deductStock consumes stock for one product FIFO across its batches,
// oldest import first. Rows are locked for the duration of the caller's
// transaction. Insufficient stock is a validation error; the caller is
// expected to roll back.
func deductStock(tx *gorm.DB, productID string, quantity int) error {
	var batchList []models.Batch
	err := lockForUpdate(tx).
		Where("product_id = ? AND quantity_remaining > 0", productID).
		Order("import_date asc, id asc").
		Find(&batchList).Error
	if err != nil {
		return err
	}

	remaining := quantity
	for i := range batchList {
		if remaining <= 0 {
			break
		}
		b := &batchList[i]

		deduct := b.QuantityRemaining
		if deduct > remaining {
			deduct = remaining
		}

		err = tx.Model(&models.Batch{}).
			Where("id = ?", b.ID).
			Updates(map[string]interface{}{
				"quantity_remaining": b.QuantityRemaining - deduct,
				"updated_at":         time.Now(),
			}).Error
		if err != nil {
			return err
		}
		remaining -= deduct
	}

	if remaining > 0 {
		return invalidf("insufficient stock for product %s (short %d units)", productID, remaining)
	}

	_, err = syncProductQuantity(tx, productID)
	return err
}

// restoreStock returns quantity to a product's batches after a cancellation,
// newest import first, never exceeding each batch's imported quantity.
// Quantity that cannot be placed anywhere is dropped silently; that only
// happens if batch rows were deleted after the deduction.
func restoreStock(tx *gorm.DB, productID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	var batchList []models.Batch
	err := lockForUpdate(tx).
		Where("product_id = ?", productID).
		Order("import_date desc, id desc").
		Find(&batchList).Error
	if err != nil {
		return err
	}

	remaining := quantity
	for i := range batchList {
		if remaining <= 0 {
			break
		}
		b := &batchList[i]

		capacity := b.QuantityImported - b.QuantityRemaining
		if capacity <= 0 {
			continue
		}
		restore := capacity
		if restore > remaining {
			restore = remaining
		}

		err = tx.Model(&models.Batch{}).
			Where("id = ?", b.ID).
			Updates(map[string]interface{}{
				"quantity_remaining": b.QuantityRemaining + restore,
				"updated_at":         time.Now(),
			}).Error
		if err != nil {
			return err
		}
		remaining -= restore
	}

	_, err = syncProductQuantity(tx, productID)
	return err
}
