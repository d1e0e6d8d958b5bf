package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/domain/inventory/alerts"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// AlertHandler handles HTTP requests for stock alerts.
type AlertHandler struct {
	*BaseHandler
	monitor *alerts.Monitor
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(base *BaseHandler, monitor *alerts.Monitor) *AlertHandler {
	return &AlertHandler{BaseHandler: base, monitor: monitor}
}

// List handles GET /alerts
func (h *AlertHandler) List(c *gin.Context) {
	filter := alerts.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var ok bool
	if filter.WarehouseID, ok = h.ParseIDQuery(c, "warehouseId"); !ok {
		return
	}
	if filter.VariantID, ok = h.ParseIDQuery(c, "variantId"); !ok {
		return
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := alerts.AlertStatus(statusStr)
		filter.Status = &status
	}
	if typeStr := c.Query("type"); typeStr != "" {
		t := alerts.AlertType(typeStr)
		filter.AlertType = &t
	}

	list, err := h.monitor.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromAlerts(list), Count: len(list)})
}

// Get handles GET /alerts/:alertId
func (h *AlertHandler) Get(c *gin.Context) {
	alertID, ok := h.ParseIDParam(c, "alertId")
	if !ok {
		return
	}

	alert, err := h.monitor.GetByID(c.Request.Context(), alertID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAlert(alert))
}

// Acknowledge handles POST /alerts/:alertId/acknowledge
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	alertID, ok := h.ParseIDParam(c, "alertId")
	if !ok {
		return
	}
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	alert, err := h.monitor.Acknowledge(c.Request.Context(), alertID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAlert(alert))
}

// Resolve handles POST /alerts/:alertId/resolve
func (h *AlertHandler) Resolve(c *gin.Context) {
	alertID, ok := h.ParseIDParam(c, "alertId")
	if !ok {
		return
	}
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	// Notes are optional, so an empty body is accepted.
	var req dto.ResolveAlertRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	alert, err := h.monitor.Resolve(c.Request.Context(), alertID, userID, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAlert(alert))
}

// Check handles POST /alerts/check (manual sweep trigger)
func (h *AlertHandler) Check(c *gin.Context) {
	if err := h.monitor.CheckLevels(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	if err := h.monitor.AutoResolve(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "alert sweep completed")
}

// RegisterRoutes registers alert routes.
func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:alertId", h.Get)
	rg.POST("/:alertId/acknowledge", h.Acknowledge)
	rg.POST("/:alertId/resolve", h.Resolve)
	rg.POST("/check", h.Check)
}
