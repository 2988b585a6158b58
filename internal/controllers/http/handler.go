package http

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *services.CatalogService
	orders  *services.OrderService
	reports *services.ReportService
	log     *logger.Logger
}

func NewHandler(c *services.CatalogService, o *services.OrderService, r *services.ReportService, log *logger.Logger) *Handler {
	return &Handler{catalog: c, orders: o, reports: r, log: log.With("component", "http")}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/filter", h.LookupProducts)
	products.GET("/filter/popular", h.GetMostPopular)
	products.GET("/:id", h.GetProduct)
	products.POST("", auth, h.CreateProduct)
	products.DELETE("/:id", auth, h.DeleteProduct)

	orders := api.Group("/orders", auth)
	orders.GET("", h.FilterOrders)
	orders.POST("", h.CreateOrder)
	orders.POST("/product", h.AddProductToOrder)
	orders.PUT("/product", h.UpdateOrderProduct)
	orders.DELETE("/product/:productId", h.RemoveProductFromOrder)
	orders.DELETE("/:id", h.DeleteOrder)

	api.GET("/userOrders", h.UserOrders)
	api.GET("/productOrders", h.ProductOrders)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors onto HTTP statuses. Unmapped errors are
// store failures and their text is not sent to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrOrderNotOpen):
		status, code = http.StatusConflict, "order_not_open"
	case errors.Is(err, domain.ErrProductInUse):
		status, code = http.StatusConflict, "product_in_use"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: msg, Code: "invalid_argument"}})
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter; empty means def.
func queryInt(c *gin.Context, name string, def int64) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}
