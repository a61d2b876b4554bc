package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/backend/internal/application/identity"
	"github.com/ridgeline/backend/internal/interfaces/http/dto"
	"github.com/ridgeline/backend/internal/interfaces/http/middleware"
)

// AuthHandler exposes authentication endpoints
type AuthHandler struct {
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Tenant   string `json:"tenant" binding:"required,max=100"`
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// RefreshRequest exchanges a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterTenantRequest creates an organization and its owner account
type RegisterTenantRequest struct {
	TenantName string `json:"tenantName" binding:"required,max=200"`
	TenantSlug string `json:"tenantSlug" binding:"required,max=100,slug"`
	PostalCode string `json:"postalCode" binding:"max=10"`
	Username   string `json:"username" binding:"required,max=100"`
	Password   string `json:"password" binding:"required,min=8,max=200"`
}

// Login authenticates a user
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		TenantSlug: req.Tenant,
		Username:   req.Username,
		Password:   req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), identity.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, pair)
}

// Logout revokes the presented access token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		TokenID:   claims.ID,
		ExpiresIn: claims.GetRemainingTTL(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"loggedOut": true})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	uid, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), tid, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// Register creates a tenant and its owner account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.authService.RegisterTenant(c.Request.Context(), identity.RegisterTenantInput{
		TenantName:    req.TenantName,
		TenantSlug:    req.TenantSlug,
		PostalCode:    req.PostalCode,
		OwnerUsername: req.Username,
		OwnerPassword: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, result)
}
