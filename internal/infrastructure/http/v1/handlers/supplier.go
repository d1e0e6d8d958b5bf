package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/domain/catalogs/supplier"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles HTTP requests for the supplier catalog.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := supplier.NewSupplier(req.Name)
	sup.ContactEmail = req.ContactEmail
	sup.Phone = req.Phone
	sup.Address = req.Address

	if err := h.service.Create(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, dto.FromSupplier(sup))
}

// Update handles PUT /suppliers/:supplierId
func (h *SupplierHandler) Update(c *gin.Context) {
	supID, ok := h.ParseIDParam(c, "supplierId")
	if !ok {
		return
	}

	var req dto.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.ContactEmail != nil {
		sup.ContactEmail = req.ContactEmail
	}
	if req.Phone != nil {
		sup.Phone = req.Phone
	}
	if req.Address != nil {
		sup.Address = req.Address
	}
	if req.IsActive != nil {
		sup.IsActive = *req.IsActive
	}

	if err := h.service.Update(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplier(sup))
}

// Get handles GET /suppliers/:supplierId
func (h *SupplierHandler) Get(c *gin.Context) {
	supID, ok := h.ParseIDParam(c, "supplierId")
	if !ok {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplier(sup))
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"

	list, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromSuppliers(list), Count: len(list)})
}

// RegisterRoutes registers supplier routes.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:supplierId", h.Get)
	rg.PUT("/:supplierId", h.Update)
}
