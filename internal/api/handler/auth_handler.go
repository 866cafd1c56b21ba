package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

// AuthHandler auth endpoints.
type AuthHandler struct {
	authSvc service.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, result)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// Verify GET /api/auth/verify?token=
func (h *AuthHandler) Verify(c *gin.Context) {
	if err := h.authSvc.Verify(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"verified": true})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}
