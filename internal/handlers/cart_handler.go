package handlers

import (
	"net/http"
	"strconv"

	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandler serves the same cart semantics on two paths: the JWT session
// path resolves the user from the token, the agent path (x-api-key) names the
// user explicitly. Both converge on the same store calls, so merge-on-add
// behaves identically no matter who is calling.
type CartHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewCartHandler(s *store.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{store: s, logger: logger}
}

func (h *CartHandler) getCart(c *gin.Context, userID string) {
	cart, items, err := h.store.GetCart(userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"cart": cart, "items": items})
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (h *CartHandler) addItem(c *gin.Context, userID string, req addItemRequest) {
	item, err := h.store.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, "Item added to cart", item)
}

// --- GET /api/cart ---
func (h *CartHandler) Get(c *gin.Context) {
	h.getCart(c, callerID(c))
}

// --- POST /api/cart/items ---
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "product_id and quantity are required")
		return
	}
	h.addItem(c, callerID(c), req)
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// --- PATCH /api/cart/items/:id ---
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid item id")
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "quantity is required")
		return
	}

	item, err := h.store.UpdateItem(callerID(c), uint(itemID), req.Quantity)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Cart item updated", item)
}

// --- DELETE /api/cart/items/:id ---
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid item id")
		return
	}

	if err := h.store.RemoveItem(callerID(c), uint(itemID)); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Item removed from cart", nil)
}

// --- DELETE /api/cart ---
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.store.ClearCart(callerID(c)); err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "Cart cleared", nil)
}

// --- GET /api/agent/cart?userId= ---
// The agent acts on behalf of a user it names explicitly.
func (h *CartHandler) AgentGet(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		fail(c, http.StatusBadRequest, "userId is required")
		return
	}
	h.getCart(c, userID)
}

type agentAddItemRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// --- POST /api/agent/cart/items ---
func (h *CartHandler) AgentAddItem(c *gin.Context) {
	var req agentAddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "userId, productId and quantity are required")
		return
	}
	h.addItem(c, req.UserID, addItemRequest{ProductID: req.ProductID, Quantity: req.Quantity})
}
