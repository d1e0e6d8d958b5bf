package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/core/id"
	"voltstore/internal/domain/orders"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *orders.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	createReq := orders.CreateRequest{
		Notes: req.Notes,
		Items: make([]orders.CreateItem, len(req.Items)),
	}

	// Guest checkout is allowed: UserID stays nil without a token.
	if raw := h.GetUserID(c); raw != "" {
		if userID, err := id.Parse(raw); err == nil {
			createReq.UserID = &userID
		}
	}

	for i, item := range req.Items {
		createReq.Items[i] = orders.CreateItem{
			VariantID: id.MustParse(item.VariantID),
			Quantity:  item.Quantity,
		}
	}

	order, err := h.service.Create(c.Request.Context(), createReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, dto.FromOrder(order))
}

// Get handles GET /orders/:orderId
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(order))
}

// GetByNumber handles GET /orders/number/:orderNumber
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.service.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(order))
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	filter := orders.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var ok bool
	if filter.UserID, ok = h.ParseIDQuery(c, "userId"); !ok {
		return
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := orders.OrderStatus(statusStr)
		filter.Status = &status
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromOrders(list), Count: len(list)})
}

// Cancel handles POST /orders/:orderId/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(order))
}

// UpdateStatus handles PATCH /orders/:orderId/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "orderId")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), orderID, orders.OrderStatus(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(order))
}

// RegisterRoutes registers order routes.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/number/:orderNumber", h.GetByNumber)
	rg.GET("/:orderId", h.Get)
	rg.POST("/:orderId/cancel", h.Cancel)
	rg.PATCH("/:orderId/status", h.UpdateStatus)
}
