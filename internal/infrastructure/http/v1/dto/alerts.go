package dto

import (
	"time"

	"voltstore/internal/domain/inventory/alerts"
)

// AlertResponse is one stock alert.
type AlertResponse struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	VariantID   string `json:"variant_id"`
	AlertType   string `json:"alert_type"`
	Status      string `json:"status"`

	CurrentQuantity int64  `json:"current_quantity"`
	Threshold       int64  `json:"threshold"`
	Message         string `json:"message"`

	NotificationCount int        `json:"notification_count"`
	LastNotifiedAt    *time.Time `json:"last_notified_at,omitempty"`
	EmailSent         bool       `json:"email_sent"`

	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`

	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      *string    `json:"resolved_by,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromAlert converts an alert.
func FromAlert(a *alerts.Alert) AlertResponse {
	resp := AlertResponse{
		ID:                a.ID.String(),
		WarehouseID:       a.WarehouseID.String(),
		VariantID:         a.VariantID.String(),
		AlertType:         string(a.AlertType),
		Status:            string(a.Status),
		CurrentQuantity:   a.CurrentQuantity,
		Threshold:         a.Threshold,
		Message:           a.Message,
		NotificationCount: a.NotificationCount,
		LastNotifiedAt:    a.LastNotifiedAt,
		EmailSent:         a.EmailSent,
		AcknowledgedAt:    a.AcknowledgedAt,
		ResolvedAt:        a.ResolvedAt,
		ResolutionNotes:   a.ResolutionNotes,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.AcknowledgedBy != nil {
		s := a.AcknowledgedBy.String()
		resp.AcknowledgedBy = &s
	}
	if a.ResolvedBy != nil {
		s := a.ResolvedBy.String()
		resp.ResolvedBy = &s
	}
	return resp
}

// FromAlerts converts a list of alerts.
func FromAlerts(list []*alerts.Alert) []AlertResponse {
	result := make([]AlertResponse, len(list))
	for i, a := range list {
		result[i] = FromAlert(a)
	}
	return result
}

// ResolveAlertRequest carries optional resolution notes.
type ResolveAlertRequest struct {
	Notes string `json:"notes"`
}
