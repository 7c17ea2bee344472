package handler

import (
	"net/http"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles order related requests
type OrderHandler struct {
	service service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "orderId": order.ID})
}

// Quote prices a product list without storing it
func (h *OrderHandler) Quote(c *gin.Context) {
	var req struct {
		Products []model.Product `json:"products" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, h.service.Quote(req.Products))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var day *time.Time
	if dateParam := c.Query("date"); dateParam != "" {
		parsedDate, err := time.Parse(time.DateOnly, dateParam)
		if err != nil {
			badRequest(c, "Invalid date format for 'date', use YYYY-MM-DD")
			return
		}
		day = &parsedDate
	}

	orders, err := h.service.ListOrders(c.Request.Context(), day)
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateProcess(c *gin.Context) {
	role, err := getAuthUserRole(c)
	if err != nil {
		abortJSON(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
		return
	}

	var req model.UpdateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	order, err := h.service.SetOrderStatus(c.Request.Context(), role, c.Param("id"), req.Process)
	if err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"orderId": order.ID,
		"process": order.Process,
	})
}

// RegisterOrderRoutes registers order routes behind authentication
func (h *OrderHandler) RegisterOrderRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.Use(authMW)
	{
		orders.POST("", h.CreateOrder)
		orders.POST("/quote", h.Quote)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/process", h.UpdateProcess)
	}
}
