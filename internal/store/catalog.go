package store

import (
	"errors"
	"strings"
	"time"

	"ecoharvest-api/internal/models"

	"gorm.io/gorm"
)

// ListProductsParams - catalog query knobs. Zero values mean "no filter"
// except Status, where nil means the default (active only).
type ListProductsParams struct {
	Page          int
	Limit         int
	Search        string
	Status        *int
	CategoryID    uint
	SubCategoryID uint
	SortBy        string
	SortDir       string
}

// ProductPage is one page of the catalog plus the pagination envelope.
type ProductPage struct {
	Data       []models.Product `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
	HasMore    bool             `json:"hasMore"`
}

// Sortable columns. Anything outside this set falls back to created_at so a
// caller can never smuggle arbitrary SQL into ORDER BY.
var allowedSortColumns = map[string]string{
	"price":      "price",
	"created_at": "created_at",
}

// ListProducts runs the filtered, sorted, paginated catalog query.
// Soft-deleted products never appear.
func (s *Store) ListProducts(p ListProductsParams) (*ProductPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}

	q := s.db.Model(&models.Product{}).Where("is_deleted = 0")

	if p.Status != nil {
		q = q.Where("status = ?", *p.Status)
	}

	// Sub-category beats category: a sub-category pins one node, a category
	// expands to all its sub-categories.
	if p.SubCategoryID != 0 {
		q = q.Where("sub_category_id = ?", p.SubCategoryID)
	} else if p.CategoryID != 0 {
		var subIDs []uint
		err := s.db.Model(&models.SubCategory{}).
			Where("parent_id = ?", p.CategoryID).
			Pluck("id", &subIDs).Error
		if err != nil {
			return nil, err
		}
		if len(subIDs) == 0 {
			return &ProductPage{
				Data:  []models.Product{},
				Page:  p.Page,
				Limit: p.Limit,
			}, nil
		}
		q = q.Where("sub_category_id IN ?", subIDs)
	}

	if kw := strings.TrimSpace(p.Search); kw != "" {
		pattern := "%" + strings.ToLower(kw) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	column, ok := allowedSortColumns[p.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "desc"
	if strings.EqualFold(p.SortDir, "asc") {
		direction = "asc"
	}

	var data []models.Product
	err := q.Order(column + " " + direction).
		Limit(p.Limit).
		Offset((p.Page - 1) * p.Limit).
		Preload("Images").
		Find(&data).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &ProductPage{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		HasMore:    p.Page < totalPages,
	}, nil
}

func (s *Store) GetProduct(id string) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Images").Preload("Certifications").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) CreateProduct(product *models.Product) error {
	if product.Name == "" {
		return invalidf("name is required")
	}
	return s.db.Create(product).Error
}

// UpdateProduct applies a partial update restricted to the writable columns.
// quantity and sold are derived fields and stay read-only here.
func (s *Store) UpdateProduct(id string, updates map[string]interface{}) (*models.Product, error) {
	allowed := map[string]bool{
		"name":            true,
		"description":     true,
		"sub_category_id": true,
		"price":           true,
		"unit":            true,
		"origin":          true,
		"status":          true,
	}
	filtered := map[string]interface{}{"updated_at": time.Now()}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	res := s.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = 0", id).
		Updates(filtered)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetProduct(id)
}

// DeleteProduct soft-deletes: the row stays for order history but drops out
// of every listing.
func (s *Store) DeleteProduct(id string) error {
	now := time.Now()
	res := s.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = 0", id).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"deleted_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns the category tree.
func (s *Store) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Preload("SubCategories").Order("id asc").Find(&categories).Error
	return categories, err
}

func (s *Store) CreateCategory(category *models.Category) error {
	if category.Name == "" {
		return invalidf("name is required")
	}
	return s.db.Create(category).Error
}

func (s *Store) CreateSubCategory(sub *models.SubCategory) error {
	if sub.Name == "" {
		return invalidf("name is required")
	}
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", sub.ParentID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return s.db.Create(sub).Error
}
