package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/core/id"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	engine *ledger.Engine
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, engine *ledger.Engine) *StockHandler {
	return &StockHandler{BaseHandler: base, engine: engine}
}

// GetEntry handles GET /stock/:warehouseId/:variantId
func (h *StockHandler) GetEntry(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "warehouseId")
	if !ok {
		return
	}
	variantID, ok := h.ParseIDParam(c, "variantId")
	if !ok {
		return
	}

	entry, err := h.engine.GetEntry(c.Request.Context(), warehouseID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntry(entry))
}

// ListByWarehouse handles GET /stock/warehouse/:warehouseId
func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "warehouseId")
	if !ok {
		return
	}

	entries, err := h.engine.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromEntries(entries), Count: len(entries)})
}

// ListLowStock handles GET /stock/low
func (h *StockHandler) ListLowStock(c *gin.Context) {
	entries, err := h.engine.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromEntries(entries), Count: len(entries)})
}

// ListOutOfStock handles GET /stock/out
func (h *StockHandler) ListOutOfStock(c *gin.Context) {
	entries, err := h.engine.ListOutOfStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromEntries(entries), Count: len(entries)})
}

// Adjust handles POST /stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID := id.MustParse(req.WarehouseID)
	variantID := id.MustParse(req.VariantID)

	entry, err := h.engine.Adjust(c.Request.Context(), warehouseID, variantID, req.Delta, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntry(entry))
}

// Transfer handles POST /stock/transfer
func (h *StockHandler) Transfer(c *gin.Context) {
	var req dto.TransferStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	source, target, err := h.engine.Transfer(c.Request.Context(),
		id.MustParse(req.SourceWarehouseID),
		id.MustParse(req.TargetWarehouseID),
		id.MustParse(req.VariantID),
		req.Quantity,
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TransferResponse{
		Source: dto.FromEntry(source),
		Target: dto.FromEntry(target),
	})
}

// RecordDamage handles POST /stock/damage
func (h *StockHandler) RecordDamage(c *gin.Context) {
	var req dto.RecordDamageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.engine.RecordDamage(c.Request.Context(),
		id.MustParse(req.WarehouseID),
		id.MustParse(req.VariantID),
		req.Quantity,
		req.Notes,
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntry(entry))
}

// Movements handles GET /stock/movements
func (h *StockHandler) Movements(c *gin.Context) {
	filter := ledger.MovementFilter{
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
	if typeStr := c.Query("type"); typeStr != "" {
		t := ledger.MovementType(typeStr)
		filter.Type = &t
	}
	if ref := c.Query("reference"); ref != "" {
		filter.Reference = &ref
	}

	movements, err := h.engine.Movements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// Reconcile handles GET /stock/:warehouseId/:variantId/reconcile
func (h *StockHandler) Reconcile(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "warehouseId")
	if !ok {
		return
	}
	variantID, ok := h.ParseIDParam(c, "variantId")
	if !ok {
		return
	}

	ledgerQty, movementSum, err := h.engine.Reconcile(c.Request.Context(), warehouseID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ReconcileResponse{
		WarehouseID: warehouseID.String(),
		VariantID:   variantID.String(),
		LedgerQty:   ledgerQty,
		MovementSum: movementSum,
		Consistent:  ledgerQty == movementSum,
	})
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/low", h.ListLowStock)
	rg.GET("/out", h.ListOutOfStock)
	rg.GET("/movements", h.Movements)
	rg.GET("/warehouse/:warehouseId", h.ListByWarehouse)
	rg.GET("/:warehouseId/:variantId", h.GetEntry)
	rg.GET("/:warehouseId/:variantId/reconcile", h.Reconcile)
	rg.POST("/adjust", h.Adjust)
	rg.POST("/transfer", h.Transfer)
	rg.POST("/damage", h.RecordDamage)
}
