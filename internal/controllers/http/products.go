package http

import (
	"net/http"
	"strings"

	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListProducts returns every product. Any query string turns it into a lookup.
func (h *Handler) ListProducts(c *gin.Context) {
	if len(c.Request.URL.Query()) > 0 {
		h.LookupProducts(c)
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// LookupProducts searches by id, or by any of name, category and price.
// A lookup by id answers with a one element list.
func (h *Handler) LookupProducts(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := queryInt(c, "id", 0)
	if !ok {
		return
	}
	if id > 0 {
		p, err := h.catalog.GetProduct(ctx, uint64(id))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []domain.Product{*p})
		return
	}

	price, ok := queryInt(c, "price", 0)
	if !ok {
		return
	}
	products, err := h.catalog.FilterProducts(ctx, domain.ProductFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Price:    price,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetMostPopular(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	items, err := h.catalog.GetMostPopular(c.Request.Context(), int(limit), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, `new product must have "name" and "price": `+err.Error())
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), domain.NewProduct{
		Name:     strings.TrimSpace(req.Name),
		Price:    string(req.Price),
		Category: req.Category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
