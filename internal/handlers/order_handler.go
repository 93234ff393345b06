package handlers

import (
	"net/http"

	"ecoharvest-api/internal/models"
	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewOrderHandler(s *store.Store, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{store: s, logger: logger}
}

type createOrderRequest struct {
	Items           []store.OrderItemInput `json:"items" binding:"required"`
	DeliveryAddress string                 `json:"delivery_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

// --- POST /api/orders ---
// Creates the order, its items, the payment record and the batch stock
// deduction as one transaction.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	order, payment, err := h.store.CreateOrder(callerID(c), req.Items, req.DeliveryAddress, req.PaymentMethod)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	ok(c, http.StatusCreated, "Order created successfully", gin.H{
		"order":   order,
		"payment": payment,
	})
}

// --- GET /api/orders ---
// Admins see every order; customers only their own.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.store.ListOrders(callerID(c), callerIsAdmin(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", orders)
}

// --- GET /api/orders/:id ---
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.store.GetOrderDetail(c.Param("id"), callerID(c), callerIsAdmin(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", order)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PATCH /api/orders/:id/status ---
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Missing status")
		return
	}

	order, err := h.store.UpdateOrderStatus(c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Order status updated successfully", order)
}

// --- PATCH /api/orders/payments/:orderId/status ---
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Missing status")
		return
	}

	payment, err := h.store.UpdatePaymentStatus(c.Param("orderId"), models.PaymentStatus(req.Status))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Payment status updated successfully", payment)
}

// --- DELETE /api/orders/:id ---
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteOrder(c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Order deleted successfully", nil)
}
