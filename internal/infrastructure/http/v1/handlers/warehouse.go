package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles HTTP requests for the warehouse catalog.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

// Create handles POST /warehouses
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh := warehouse.NewWarehouse(req.Code, req.Name)
	wh.Address = req.Address
	wh.IsDefault = req.IsDefault

	if err := h.service.Create(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, dto.FromWarehouse(wh))
}

// Update handles PUT /warehouses/:warehouseId
func (h *WarehouseHandler) Update(c *gin.Context) {
	whID, ok := h.ParseIDParam(c, "warehouseId")
	if !ok {
		return
	}

	var req dto.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.Code != nil {
		wh.Code = *req.Code
	}
	if req.Name != nil {
		wh.Name = *req.Name
	}
	if req.Address != nil {
		wh.Address = req.Address
	}
	if req.IsActive != nil {
		wh.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		wh.IsDefault = *req.IsDefault
	}

	if err := h.service.Update(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouse(wh))
}

// Get handles GET /warehouses/:warehouseId
func (h *WarehouseHandler) Get(c *gin.Context) {
	whID, ok := h.ParseIDParam(c, "warehouseId")
	if !ok {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouse(wh))
}

// List handles GET /warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"

	list, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromWarehouses(list), Count: len(list)})
}

// RegisterRoutes registers warehouse routes.
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:warehouseId", h.Get)
	rg.PUT("/:warehouseId", h.Update)
}
