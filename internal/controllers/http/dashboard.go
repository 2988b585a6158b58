package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserOrders lists users with their orders, one row per order when flat=true
// and grouped per user otherwise.
func (h *Handler) UserOrders(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("flat") == "true" {
		rows, err := h.reports.UsersWithOrders(ctx)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
		return
	}
	users, err := h.reports.UsersWithOrderDetails(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) ProductOrders(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	rows, err := h.reports.ProductOrders(c.Request.Context(), c.Query("sort_col"), c.Query("sort_dir"), int(limit))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
