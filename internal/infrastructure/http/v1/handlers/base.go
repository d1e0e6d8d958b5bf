// Package handlers provides HTTP request handlers for API v1.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voltstore/internal/core/apperror"
	appctx "voltstore/internal/core/context"
	"voltstore/internal/core/id"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseIDParam parses a UUID path parameter, reporting a validation error
// on failure.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+name+" format"))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseIDQuery parses an optional UUID query parameter.
// Returns nil when the parameter is absent.
func (h *BaseHandler) ParseIDQuery(c *gin.Context, name string) (*id.ID, bool) {
	val := c.Query(name)
	if val == "" {
		return nil, true
	}
	parsed, err := id.Parse(val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+name+" format"))
		return nil, false
	}
	return &parsed, true
}

// GetUserID extracts user ID from request context.
func (h *BaseHandler) GetUserID(c *gin.Context) string {
	return appctx.GetUserID(c.Request.Context())
}

// RequireUserID parses the authenticated user ID, reporting an error when
// the principal is missing or malformed.
func (h *BaseHandler) RequireUserID(c *gin.Context) (id.ID, bool) {
	raw := h.GetUserID(c)
	if raw == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.Nil(), false
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid principal"))
		return id.Nil(), false
	}
	return parsed, true
}

// Created sends 201 response with ID.
func (h *BaseHandler) Created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
