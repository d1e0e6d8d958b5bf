package dto

import (
	"time"

	"voltstore/internal/domain/catalogs/supplier"
	"voltstore/internal/domain/catalogs/warehouse"
)

// --- Warehouses ---

// CreateWarehouseRequest for creating warehouses.
type CreateWarehouseRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Address   *string `json:"address"`
	IsDefault bool    `json:"is_default"`
}

// UpdateWarehouseRequest for updating warehouses.
type UpdateWarehouseRequest struct {
	Code      *string `json:"code"`
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	IsActive  *bool   `json:"is_active"`
	IsDefault *bool   `json:"is_default"`
}

// WarehouseResponse is one warehouse.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromWarehouse converts a warehouse.
func FromWarehouse(wh *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        wh.ID.String(),
		Code:      wh.Code,
		Name:      wh.Name,
		Address:   wh.Address,
		IsActive:  wh.IsActive,
		IsDefault: wh.IsDefault,
		CreatedAt: wh.CreatedAt,
		UpdatedAt: wh.UpdatedAt,
	}
}

// FromWarehouses converts a list of warehouses.
func FromWarehouses(list []*warehouse.Warehouse) []WarehouseResponse {
	result := make([]WarehouseResponse, len(list))
	for i, wh := range list {
		result[i] = FromWarehouse(wh)
	}
	return result
}

// --- Suppliers ---

// CreateSupplierRequest for creating suppliers.
type CreateSupplierRequest struct {
	Name         string  `json:"name" binding:"required"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
}

// UpdateSupplierRequest for updating suppliers.
type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"is_active"`
}

// SupplierResponse is one supplier.
type SupplierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FromSupplier converts a supplier.
func FromSupplier(sup *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           sup.ID.String(),
		Name:         sup.Name,
		ContactEmail: sup.ContactEmail,
		Phone:        sup.Phone,
		Address:      sup.Address,
		IsActive:     sup.IsActive,
		CreatedAt:    sup.CreatedAt,
		UpdatedAt:    sup.UpdatedAt,
	}
}

// FromSuppliers converts a list of suppliers.
func FromSuppliers(list []*supplier.Supplier) []SupplierResponse {
	result := make([]SupplierResponse, len(list))
	for i, sup := range list {
		result[i] = FromSupplier(sup)
	}
	return result
}
