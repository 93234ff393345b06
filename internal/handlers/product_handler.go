package handlers

import (
	"net/http"
	"strconv"

	"ecoharvest-api/internal/models"
	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewProductHandler(s *store.Store, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{store: s, logger: logger}
}

// --- GET /api/products ---
// Paginated, filterable, sortable catalog. Pagination fields sit at the top
// level of the envelope next to data.
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	params := store.ListProductsParams{
		Page:    page,
		Limit:   limit,
		Search:  c.Query("search"),
		SortBy:  c.DefaultQuery("sort_by", "created_at"),
		SortDir: c.DefaultQuery("sort", "desc"),
	}

	// Listings default to active products; an explicit empty status drops
	// the filter (admin views want discontinued rows too).
	if raw := c.DefaultQuery("status", "1"); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid status")
			return
		}
		params.Status = &status
	}

	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		params.CategoryID = uint(id)
	}
	if raw := c.Query("subCategoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid subCategoryId")
			return
		}
		params.SubCategoryID = uint(id)
	}

	pageResult, err := h.store.ListProducts(params)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"total":      pageResult.Total,
		"page":       pageResult.Page,
		"limit":      pageResult.Limit,
		"totalPages": pageResult.TotalPages,
		"hasMore":    pageResult.HasMore,
		"data":       pageResult.Data,
	})
}

// --- GET /api/products/:id ---
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.store.GetProduct(c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", product)
}

// --- POST /api/products ---
func (h *ProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.store.CreateProduct(&product); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Product created successfully", product)
}

// --- PATCH /api/products/:id ---
// Partial update: only the fields present in the body change.
func (h *ProductHandler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	product, err := h.store.UpdateProduct(c.Param("id"), updates)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Product updated successfully", product)
}

// --- DELETE /api/products/:id ---
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteProduct(c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Product deleted successfully", nil)
}

// --- GET /api/categories ---
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", categories)
}

// --- POST /api/categories ---
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.store.CreateCategory(&category); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Category created successfully", category)
}

// --- POST /api/categories/:id/sub ---
func (h *ProductHandler) CreateSubCategory(c *gin.Context) {
	parentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	var sub models.SubCategory
	if err := c.ShouldBindJSON(&sub); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}
	sub.ParentID = uint(parentID)

	if err := h.store.CreateSubCategory(&sub); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Sub-category created successfully", sub)
}
