package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ecoharvest-api/internal/models"
	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BatchHandler covers import receipts, batches and batch documents.
type BatchHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewBatchHandler(s *store.Store, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{store: s, logger: logger}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// --- POST /api/import-receipts ---
func (h *BatchHandler) CreateReceipt(c *gin.Context) {
	var receipt models.ImportReceipt
	if err := c.ShouldBindJSON(&receipt); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}
	receipt.CreatedBy = callerID(c)

	if err := h.store.CreateReceipt(&receipt); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Import receipt created successfully", receipt)
}

// --- GET /api/import-receipts ---
func (h *BatchHandler) ListReceipts(c *gin.Context) {
	receipts, err := h.store.ListReceipts()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", receipts)
}

// --- GET /api/import-receipts/:id ---
func (h *BatchHandler) GetReceipt(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	receipt, err := h.store.GetReceipt(id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", receipt)
}

// --- PATCH /api/import-receipts/:id ---
func (h *BatchHandler) UpdateReceipt(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	receipt, err := h.store.UpdateReceipt(id, updates)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Import receipt updated successfully", receipt)
}

// --- DELETE /api/import-receipts/:id ---
func (h *BatchHandler) DeleteReceipt(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.store.DeleteReceipt(id); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Import receipt deleted successfully", nil)
}

type createBatchRequest struct {
	ProductID         string     `json:"product_id" binding:"required"`
	ImportReceiptID   uint       `json:"import_receipt_id" binding:"required"`
	BatchCode         string     `json:"batch_code" binding:"required"`
	ImportDate        *time.Time `json:"import_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	QuantityImported  int        `json:"quantity_imported" binding:"required"`
	QuantityRemaining int        `json:"quantity_remaining"`
	UnitCost          int64      `json:"unit_cost"`
	Notes             string     `json:"notes"`
}

// --- POST /api/batches ---
// Creating a batch reconciles the receipt total and product quantity as a
// side effect, inside one transaction.
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	batch := models.Batch{
		ProductID:         req.ProductID,
		ImportReceiptID:   req.ImportReceiptID,
		BatchCode:         req.BatchCode,
		ExpiryDate:        req.ExpiryDate,
		QuantityImported:  req.QuantityImported,
		QuantityRemaining: req.QuantityRemaining,
		UnitCost:          req.UnitCost,
		Notes:             req.Notes,
	}
	if req.ImportDate != nil {
		batch.ImportDate = *req.ImportDate
	}

	if err := h.store.CreateBatch(&batch); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Batch created successfully", batch)
}

// --- GET /api/batches?productId=&importReceiptId= ---
func (h *BatchHandler) ListBatches(c *gin.Context) {
	var receiptID uint
	if raw := c.Query("importReceiptId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid importReceiptId")
			return
		}
		receiptID = uint(id)
	}

	batches, err := h.store.ListBatches(c.Query("productId"), receiptID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", batches)
}

// --- GET /api/batches/:id ---
func (h *BatchHandler) GetBatch(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	batch, err := h.store.GetBatch(id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", batch)
}

// --- PATCH /api/batches/:id ---
func (h *BatchHandler) UpdateBatch(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	batch, err := h.store.UpdateBatch(id, updates)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Batch updated successfully", batch)
}

// --- DELETE /api/batches/:id ---
func (h *BatchHandler) DeleteBatch(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.store.DeleteBatch(id); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Batch deleted successfully", nil)
}

type addDocumentRequest struct {
	BatchID      uint   `json:"batch_id" binding:"required"`
	DocumentType string `json:"document_type"`
	FileURL      string `json:"file_url" binding:"required"`
}

// --- POST /api/batch-documents ---
func (h *BatchHandler) AddDocument(c *gin.Context) {
	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "batch_id and file_url are required")
		return
	}

	doc := models.BatchDocument{
		BatchID:      req.BatchID,
		DocumentType: req.DocumentType,
		FileURL:      req.FileURL,
	}
	if err := h.store.AddBatchDocument(&doc); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Document added successfully", doc)
}

// --- GET /api/batch-documents/:batchId ---
func (h *BatchHandler) ListDocuments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("batchId"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid batch id")
		return
	}

	docs, err := h.store.ListBatchDocuments(uint(id))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", docs)
}

// --- DELETE /api/batch-documents/:id ---
func (h *BatchHandler) DeleteDocument(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.store.DeleteBatchDocument(id); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Document deleted successfully", nil)
}
