package handlers

import (
	"net/http"
	"strconv"

	"ecoharvest-api/internal/models"
	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaHandler covers product images and certifications. Files themselves
// live in external object storage; these endpoints only manage the URL rows.
type MediaHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewMediaHandler(s *store.Store, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{store: s, logger: logger}
}

type addImageRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	ImageURL  string `json:"image_url" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
	AltText   string `json:"alt_text"`
}

// --- POST /api/product-images ---
func (h *MediaHandler) AddImage(c *gin.Context) {
	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "product_id and image_url are required")
		return
	}

	img := models.ProductImage{
		ProductID: req.ProductID,
		ImageURL:  req.ImageURL,
		IsPrimary: req.IsPrimary,
		AltText:   req.AltText,
	}
	if err := h.store.AddProductImage(&img); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Image added successfully", img)
}

// --- GET /api/product-images/:productId ---
func (h *MediaHandler) ListImages(c *gin.Context) {
	images, err := h.store.ListProductImages(c.Param("productId"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", images)
}

// --- DELETE /api/product-images/:id ---
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid image id")
		return
	}

	if err := h.store.DeleteProductImage(uint(id)); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Image deleted successfully", nil)
}

type addCertificationRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	IssuedBy       string `json:"issued_by"`
	CertificateURL string `json:"certificate_url"`
}

// --- POST /api/product-certifications ---
func (h *MediaHandler) AddCertification(c *gin.Context) {
	var req addCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "product_id and name are required")
		return
	}

	cert := models.ProductCertification{
		ProductID:      req.ProductID,
		Name:           req.Name,
		IssuedBy:       req.IssuedBy,
		CertificateURL: req.CertificateURL,
	}
	if err := h.store.AddCertification(&cert); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Certification added successfully", cert)
}

// --- GET /api/product-certifications/:productId ---
func (h *MediaHandler) ListCertifications(c *gin.Context) {
	certs, err := h.store.ListCertifications(c.Param("productId"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", certs)
}

// --- DELETE /api/product-certifications/:id ---
func (h *MediaHandler) DeleteCertification(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid certification id")
		return
	}

	if err := h.store.DeleteCertification(uint(id)); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Certification deleted successfully", nil)
}
