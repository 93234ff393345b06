package store

import (
	"errors"

	"ecoharvest-api/internal/models"

	"gorm.io/gorm"
)

// AddProductImage attaches an image record to a product. The first image of a
// product always becomes primary; marking a later one primary demotes the
// previous primary in the same transaction, keeping exactly one primary image
// whenever any exist.
func (s *Store) AddProductImage(img *models.ProductImage) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var productCount int64
		if err := tx.Model(&models.Product{}).Where("id = ?", img.ProductID).Count(&productCount).Error; err != nil {
			return err
		}
		if productCount == 0 {
			return ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", img.ProductID).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			img.IsPrimary = true
		} else if img.IsPrimary {
			err := tx.Model(&models.ProductImage{}).
				Where("product_id = ? AND is_primary = ?", img.ProductID, true).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
		}

		return tx.Create(img).Error
	})
}

func (s *Store) ListProductImages(productID string) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := s.db.Where("product_id = ?", productID).Order("id asc").Find(&images).Error
	return images, err
}

// DeleteProductImage removes an image. If it was the primary one, the oldest
// remaining image is promoted so the one-primary invariant holds.
func (s *Store) DeleteProductImage(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var img models.ProductImage
		if err := tx.First(&img, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&img).Error; err != nil {
			return err
		}

		if img.IsPrimary {
			var next models.ProductImage
			err := tx.Where("product_id = ?", img.ProductID).Order("id asc").First(&next).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			return tx.Model(&next).Update("is_primary", true).Error
		}
		return nil
	})
}

// AddCertification attaches a certification record to a product.
func (s *Store) AddCertification(cert *models.ProductCertification) error {
	if cert.Name == "" {
		return invalidf("name is required")
	}
	var count int64
	if err := s.db.Model(&models.Product{}).Where("id = ?", cert.ProductID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return s.db.Create(cert).Error
}

func (s *Store) ListCertifications(productID string) ([]models.ProductCertification, error) {
	var certs []models.ProductCertification
	err := s.db.Where("product_id = ?", productID).Order("id asc").Find(&certs).Error
	return certs, err
}

func (s *Store) DeleteCertification(id uint) error {
	res := s.db.Delete(&models.ProductCertification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
