package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// ListMovements returns the stock history, optionally bounded by
// fecha_inicio and fecha_fin (YYYY-MM-DD).
func (h *Handler) ListMovements(c *gin.Context) {
	var filter models.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.badRequest(c, "list movements", err)
		return
	}

	movements, err := h.terminal.Movements(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// RegisterMovement records a stock IN/OUT. tipo_movimiento takes ENTRADA/SALIDA
// or the IN/OUT aliases.
func (h *Handler) RegisterMovement(c *gin.Context) {
	var in models.MovementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "register movement", err)
		return
	}

	result, err := h.terminal.RegisterMovement(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PurgeMovements deletes history older than fecha_limite; clave_admin is
// checked by the backend.
func (h *Handler) PurgeMovements(c *gin.Context) {
	result, err := h.terminal.PurgeMovements(c.Request.Context(), c.Query("fecha_limite"), c.Query("clave_admin"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cart returns the pending sale.
func (h *Handler) Cart(c *gin.Context) {
	c.JSON(http.StatusOK, h.terminal.Cart())
}

// ClearCart drops the pending sale.
func (h *Handler) ClearCart(c *gin.Context) {
	h.terminal.ClearCart()
	c.Status(http.StatusNoContent)
}

type addItemRequest struct {
	ProductID int `json:"product_id"`
}

// AddCartItem adds one unit of a product and returns the whole cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "add to cart", err)
		return
	}

	if _, err := h.terminal.AddToCart(req.ProductID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.terminal.Cart())
}

// RemoveCartItem drops the line at :index.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	index, err := pathInt(c, "index")
	if err != nil {
		h.badRequest(c, "remove from cart", err)
		return
	}
	if err := h.terminal.RemoveFromCart(index); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.terminal.Cart())
}

// Checkout settles the cart.
func (h *Handler) Checkout(c *gin.Context) {
	receipt, err := h.terminal.Checkout(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}
