package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/core/types"
	"voltstore/internal/domain/inventory/imports"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// ImportHandler handles HTTP requests for stock imports.
type ImportHandler struct {
	*BaseHandler
	service *imports.Service
}

// NewImportHandler creates a new import handler.
func NewImportHandler(base *BaseHandler, service *imports.Service) *ImportHandler {
	return &ImportHandler{BaseHandler: base, service: service}
}

// Create handles POST /imports
func (h *ImportHandler) Create(c *gin.Context) {
	var req dto.CreateImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	createReq := imports.CreateRequest{
		WarehouseID:  id.MustParse(req.WarehouseID),
		ExpectedDate: req.ExpectedDate,
		Notes:        req.Notes,
		Items:        make([]imports.CreateItem, len(req.Items)),
	}
	if req.SupplierID != nil {
		supplierID := id.MustParse(*req.SupplierID)
		createReq.SupplierID = &supplierID
	}
	for i, item := range req.Items {
		unitCost, err := types.NewMoneyFromString(item.UnitCost)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid unit_cost").
				WithDetail("variant_id", item.VariantID).
				WithDetail("value", item.UnitCost))
			return
		}
		createReq.Items[i] = imports.CreateItem{
			VariantID:       id.MustParse(item.VariantID),
			QuantityOrdered: item.QuantityOrdered,
			UnitCost:        unitCost,
		}
	}

	imp, err := h.service.Create(c.Request.Context(), createReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, dto.FromImport(imp))
}

// Get handles GET /imports/:importId
func (h *ImportHandler) Get(c *gin.Context) {
	importID, ok := h.ParseIDParam(c, "importId")
	if !ok {
		return
	}

	imp, err := h.service.GetByID(c.Request.Context(), importID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromImport(imp))
}

// GetByNumber handles GET /imports/number/:importNumber
func (h *ImportHandler) GetByNumber(c *gin.Context) {
	imp, err := h.service.GetByNumber(c.Request.Context(), c.Param("importNumber"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromImport(imp))
}

// List handles GET /imports
func (h *ImportHandler) List(c *gin.Context) {
	filter := imports.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var ok bool
	if filter.WarehouseID, ok = h.ParseIDQuery(c, "warehouseId"); !ok {
		return
	}
	if filter.SupplierID, ok = h.ParseIDQuery(c, "supplierId"); !ok {
		return
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := imports.ImportStatus(statusStr)
		filter.Status = &status
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromImports(list), Count: len(list)})
}

// Receive handles POST /imports/:importId/receive
func (h *ImportHandler) Receive(c *gin.Context) {
	importID, ok := h.ParseIDParam(c, "importId")
	if !ok {
		return
	}

	var req dto.ReceiveImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipts := make([]imports.ReceiptLine, len(req.Receipts))
	for i, line := range req.Receipts {
		receipts[i] = imports.ReceiptLine{
			ItemID:   id.MustParse(line.ItemID),
			Quantity: line.Quantity,
		}
	}

	imp, err := h.service.Receive(c.Request.Context(), importID, receipts)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromImport(imp))
}

// Cancel handles POST /imports/:importId/cancel
func (h *ImportHandler) Cancel(c *gin.Context) {
	importID, ok := h.ParseIDParam(c, "importId")
	if !ok {
		return
	}

	imp, err := h.service.Cancel(c.Request.Context(), importID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromImport(imp))
}

// RegisterRoutes registers import routes.
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/number/:importNumber", h.GetByNumber)
	rg.GET("/:importId", h.Get)
	rg.POST("/:importId/receive", h.Receive)
	rg.POST("/:importId/cancel", h.Cancel)
}
