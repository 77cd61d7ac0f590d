package handler

import (
	"net/http"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/service"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Role     string `json:"role" binding:"required"`
	Code     string `json:"code" binding:"required,max=10"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Register creates a new user account and returns it without tokens; the
// client logs in separately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	user, err := h.authService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
		Phone:    req.Phone,
		Role:     req.Role,
		Code:     req.Code,
		Address:  req.Address,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"user": user})
}

// Login authenticates by email and password and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	user, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh rotates a refresh token, returning a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tokens": pair})
}

// Logout revokes the presented refresh token, or every session of the
// caller when none is given.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	userID := c.GetUint("userID")
	if err := h.authService.Logout(userID, req.RefreshToken); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "Logged out successfully")
}

// ChangePassword verifies the current password, applies the new one and
// revokes every active session.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	userID := c.GetUint("userID")
	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "Password changed successfully. Please log in again.")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetProfile(c.GetUint("userID"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// Validate confirms the presented access token; the auth middleware has
// already verified it by the time this runs.
func (h *AuthHandler) Validate(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"valid": true,
		"user": gin.H{
			"id":    c.GetUint("userID"),
			"email": c.GetString("email"),
			"role":  c.GetString("role"),
			"code":  c.GetString("code"),
		},
	})
}

// RevokeAll force-revokes every session of the caller.
func (h *AuthHandler) RevokeAll(c *gin.Context) {
	count, err := h.authService.RevokeAllTokens(c.GetUint("userID"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"revoked": count})
}
