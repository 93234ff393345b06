package store

import (
	"errors"
	"time"

	"ecoharvest-api/internal/models"

	"gorm.io/gorm"
)

// CreateReceipt inserts a new import receipt. The total starts at whatever the
// caller supplied and is overwritten as soon as batches are attached.
func (s *Store) CreateReceipt(receipt *models.ImportReceipt) error {
	if receipt.ImportDate.IsZero() {
		receipt.ImportDate = time.Now()
	}
	return s.db.Create(receipt).Error
}

func (s *Store) ListReceipts() ([]models.ImportReceipt, error) {
	var receipts []models.ImportReceipt
	err := s.db.Order("import_date desc, id desc").Find(&receipts).Error
	return receipts, err
}

func (s *Store) GetReceipt(id uint) (*models.ImportReceipt, error) {
	var receipt models.ImportReceipt
	if err := s.db.First(&receipt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// UpdateReceipt applies a partial update. The denormalized total is not
// writable here; it only changes through RecomputeReceiptTotal.
func (s *Store) UpdateReceipt(id uint, updates map[string]interface{}) (*models.ImportReceipt, error) {
	allowed := map[string]bool{
		"supplier_name": true,
		"import_date":   true,
		"notes":         true,
	}
	filtered := map[string]interface{}{"updated_at": time.Now()}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	res := s.db.Model(&models.ImportReceipt{}).Where("id = ?", id).Updates(filtered)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetReceipt(id)
}

// DeleteReceipt refuses to remove a receipt that still has batches: the
// batches are the stock history and must be deleted (or moved) first.
func (s *Store) DeleteReceipt(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var batchCount int64
		if err := tx.Model(&models.Batch{}).Where("import_receipt_id = ?", id).Count(&batchCount).Error; err != nil {
			return err
		}
		if batchCount > 0 {
			return invalidf("receipt %d still has %d batches", id, batchCount)
		}

		res := tx.Delete(&models.ImportReceipt{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateBatch inserts a batch and reconciles the receipt total and the
// product's denormalized quantity in the same transaction.
func (s *Store) CreateBatch(batch *models.Batch) error {
	if batch.QuantityImported <= 0 {
		return invalidf("quantity_imported must be positive")
	}
	if batch.QuantityRemaining == 0 {
		batch.QuantityRemaining = batch.QuantityImported
	}
	if batch.QuantityRemaining < 0 || batch.QuantityRemaining > batch.QuantityImported {
		return invalidf("quantity_remaining must be between 0 and quantity_imported")
	}
	if batch.ImportDate.IsZero() {
		batch.ImportDate = time.Now()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		if _, err := recomputeReceiptTotal(tx, batch.ImportReceiptID); err != nil {
			return err
		}
		_, err := syncProductQuantity(tx, batch.ProductID)
		return err
	})
}

func (s *Store) GetBatch(id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := s.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// ListBatches filters by product or receipt; productId wins when both are set.
func (s *Store) ListBatches(productID string, receiptID uint) ([]models.Batch, error) {
	q := s.db.Order("import_date asc, id asc")
	if productID != "" {
		q = q.Where("product_id = ?", productID)
	} else if receiptID != 0 {
		q = q.Where("import_receipt_id = ?", receiptID)
	}

	var batchList []models.Batch
	err := q.Find(&batchList).Error
	return batchList, err
}

// UpdateBatch applies a partial update and re-runs reconciliation. Quantities
// must keep 0 <= remaining <= imported.
func (s *Store) UpdateBatch(id uint, updates map[string]interface{}) (*models.Batch, error) {
	allowed := map[string]bool{
		"batch_code":         true,
		"import_date":        true,
		"expiry_date":        true,
		"quantity_imported":  true,
		"quantity_remaining": true,
		"unit_cost":          true,
		"notes":              true,
	}
	filtered := map[string]interface{}{"updated_at": time.Now()}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	var updated models.Batch
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var batch models.Batch
		if err := tx.First(&batch, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&batch).Updates(filtered).Error; err != nil {
			return err
		}

		if err := tx.First(&updated, id).Error; err != nil {
			return err
		}
		if updated.QuantityRemaining < 0 || updated.QuantityRemaining > updated.QuantityImported {
			return invalidf("quantity_remaining must be between 0 and quantity_imported")
		}

		if _, err := recomputeReceiptTotal(tx, updated.ImportReceiptID); err != nil {
			return err
		}
		_, err := syncProductQuantity(tx, updated.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBatch removes a batch (and its documents) and reconciles the receipt
// total and product quantity it was contributing to.
func (s *Store) DeleteBatch(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var batch models.Batch
		if err := tx.First(&batch, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("batch_id = ?", id).Delete(&models.BatchDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Batch{}, id).Error; err != nil {
			return err
		}

		if _, err := recomputeReceiptTotal(tx, batch.ImportReceiptID); err != nil {
			return err
		}
		_, err := syncProductQuantity(tx, batch.ProductID)
		return err
	})
}

// AddBatchDocument attaches a document record to an existing batch.
func (s *Store) AddBatchDocument(doc *models.BatchDocument) error {
	var count int64
	if err := s.db.Model(&models.Batch{}).Where("id = ?", doc.BatchID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return s.db.Create(doc).Error
}

func (s *Store) ListBatchDocuments(batchID uint) ([]models.BatchDocument, error) {
	var docs []models.BatchDocument
	err := s.db.Where("batch_id = ?", batchID).Order("id asc").Find(&docs).Error
	return docs, err
}

func (s *Store) DeleteBatchDocument(id uint) error {
	res := s.db.Delete(&models.BatchDocument{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
