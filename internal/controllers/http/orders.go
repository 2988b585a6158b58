package http

import (
	"net/http"

	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) FilterOrders(c *gin.Context) {
	orders, err := h.orders.FilterOrders(c.Request.Context(), UserID(c), domain.OrderStatus(c.Query("status")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder returns the caller's open order, opening one if needed.
func (h *Handler) CreateOrder(c *gin.Context) {
	order, err := h.orders.CreateUserOrder(c.Request.Context(), UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AddProductToOrder(c *gin.Context) {
	var req OrderProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	order, err := h.orders.AddProductToActiveOrder(c.Request.Context(), req.ProductID, req.Quantity, UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderProduct(c *gin.Context) {
	var req OrderProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	open, err := h.orders.FindOpenOrder(ctx, UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	order, err := h.orders.UpdateOrderProductQty(ctx, req.ProductID, req.Quantity, open)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) RemoveProductFromOrder(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	order, err := h.orders.RemoveProductFromActiveOrder(c.Request.Context(), productID, UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes one of the caller's orders. Orders of other users
// answer as not found.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if order.UserID != UserID(c) {
		h.respondError(c, domain.ErrNotFound)
		return
	}
	deleted, err := h.orders.DeleteOrder(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		h.respondError(c, domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
