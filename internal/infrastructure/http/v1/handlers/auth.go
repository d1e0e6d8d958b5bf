package handlers

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/domain/auth"
	"voltstore/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.FromUser(result.User),
	})
}

// CreateUser handles POST /auth/users (admin only)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, dto.FromUser(user))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(user))
}
