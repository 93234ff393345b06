package store

import (
	"fmt"
	"testing"

	"ecoharvest-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductsPagination(t *testing.T) {
	s, db := newTestStore(t)
	for i := 1; i <= 25; i++ {
		seedProduct(t, db, fmt.Sprintf("Product %02d", i), int64(i*1000))
	}

	page, err := s.ListProducts(ListProductsParams{
		Page:    2,
		Limit:   10,
		SortBy:  "price",
		SortDir: "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasMore)
	require.Len(t, page.Data, 10)
	assert.Equal(t, "Product 11", page.Data[0].Name)
	assert.Equal(t, "Product 20", page.Data[9].Name)

	// The last page is short and reports no more.
	last, err := s.ListProducts(ListProductsParams{
		Page:    3,
		Limit:   10,
		SortBy:  "price",
		SortDir: "asc",
	})
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)
	assert.False(t, last.HasMore)
}

func TestListProductsDefaultsPageAndLimit(t *testing.T) {
	s, db := newTestStore(t)
	for i := 0; i < 12; i++ {
		seedProduct(t, db, fmt.Sprintf("Item %d", i), 1000)
	}

	page, err := s.ListProducts(ListProductsParams{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Data, 10)
}

func TestListProductsSearch(t *testing.T) {
	s, db := newTestStore(t)
	seedProduct(t, db, "Organic Carrots", 20000)
	seedProduct(t, db, "Baby Carrots", 25000)
	seedProduct(t, db, "Spinach", 15000)

	page, err := s.ListProducts(ListProductsParams{Search: "CARROT"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, p := range page.Data {
		assert.Contains(t, p.Name, "Carrots")
	}
}

func TestListProductsCategoryExpandsToSubCategories(t *testing.T) {
	s, db := newTestStore(t)

	veg := &models.Category{Name: "Vegetables"}
	require.NoError(t, s.CreateCategory(veg))
	leafy := &models.SubCategory{Name: "Leafy Greens", ParentID: veg.ID}
	require.NoError(t, s.CreateSubCategory(leafy))
	root := &models.SubCategory{Name: "Root Vegetables", ParentID: veg.ID}
	require.NoError(t, s.CreateSubCategory(root))

	fruit := &models.Category{Name: "Fruit"}
	require.NoError(t, s.CreateCategory(fruit))
	citrus := &models.SubCategory{Name: "Citrus", ParentID: fruit.ID}
	require.NoError(t, s.CreateSubCategory(citrus))

	kale := seedProduct(t, db, "Kale", 18000)
	require.NoError(t, db.Model(kale).Update("sub_category_id", leafy.ID).Error)
	carrot := seedProduct(t, db, "Carrot", 12000)
	require.NoError(t, db.Model(carrot).Update("sub_category_id", root.ID).Error)
	orange := seedProduct(t, db, "Orange", 30000)
	require.NoError(t, db.Model(orange).Update("sub_category_id", citrus.ID).Error)

	// Category filter covers every sub-category underneath it.
	page, err := s.ListProducts(ListProductsParams{CategoryID: veg.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// Sub-category pins one node and wins over the category filter.
	page, err = s.ListProducts(ListProductsParams{CategoryID: fruit.ID, SubCategoryID: leafy.ID})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Kale", page.Data[0].Name)
}

func TestListProductsEmptyCategoryShortCircuits(t *testing.T) {
	s, db := newTestStore(t)
	seedProduct(t, db, "Kale", 18000)

	empty := &models.Category{Name: "Empty"}
	require.NoError(t, s.CreateCategory(empty))

	page, err := s.ListProducts(ListProductsParams{CategoryID: empty.ID})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Total)
	assert.False(t, page.HasMore)
}

func TestListProductsSortAllowlist(t *testing.T) {
	s, db := newTestStore(t)
	seedProduct(t, db, "Cheap", 1000)
	seedProduct(t, db, "Pricey", 99000)

	page, err := s.ListProducts(ListProductsParams{SortBy: "price", SortDir: "desc"})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Pricey", page.Data[0].Name)

	// Unknown sort columns never reach the query.
	page, err = s.ListProducts(ListProductsParams{SortBy: "name; DROP TABLE products"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestListProductsStatusFilter(t *testing.T) {
	s, db := newTestStore(t)
	seedProduct(t, db, "Active", 1000)
	off := seedProduct(t, db, "Discontinued", 2000)
	require.NoError(t, db.Model(off).Update("status", 0).Error)

	active := 1
	page, err := s.ListProducts(ListProductsParams{Status: &active})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Active", page.Data[0].Name)

	// nil status means no filter at all.
	page, err = s.ListProducts(ListProductsParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestSoftDeletedProductsDisappear(t *testing.T) {
	s, db := newTestStore(t)
	keep := seedProduct(t, db, "Keep", 1000)
	gone := seedProduct(t, db, "Gone", 2000)

	require.NoError(t, s.DeleteProduct(gone.ID))

	page, err := s.ListProducts(ListProductsParams{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, keep.ID, page.Data[0].ID)

	// The row itself survives for order history.
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gone.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Deleting twice is a 404, as is deleting nothing.
	assert.ErrorIs(t, s.DeleteProduct(gone.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct("no-such-id"), ErrNotFound)
}

func TestUpdateProductIgnoresDerivedColumns(t *testing.T) {
	s, db := newTestStore(t)
	product := seedProduct(t, db, "Radish", 5000)
	receipt := seedReceipt(t, db)
	seedBatch(t, s, product.ID, receipt.ID, "R-001", 40, 3000)

	updated, err := s.UpdateProduct(product.ID, map[string]interface{}{
		"name":     "Red Radish",
		"price":    int64(6000),
		"quantity": 9999,
		"sold":     500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Red Radish", updated.Name)
	assert.Equal(t, int64(6000), updated.Price)
	assert.Equal(t, 40, updated.Quantity)
	assert.Equal(t, 0, updated.Sold)

	_, err = s.UpdateProduct("no-such-id", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSubCategoryRequiresParent(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.CreateSubCategory(&models.SubCategory{Name: "Orphan", ParentID: 42})
	assert.ErrorIs(t, err, ErrNotFound)

	parent := &models.Category{Name: "Herbs"}
	require.NoError(t, s.CreateCategory(parent))
	require.NoError(t, s.CreateSubCategory(&models.SubCategory{Name: "Fresh Herbs", ParentID: parent.ID}))

	categories, err := s.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].SubCategories, 1)
	assert.Equal(t, "Fresh Herbs", categories[0].SubCategories[0].Name)
}
