package handler

import (
	"net/http"
	"strconv"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/service"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password"`
	Name          string  `json:"name" binding:"required,max=100"`
	Username      string  `json:"username" binding:"required,min=3,max=50"`
	Phone         string  `json:"phone" binding:"required,max=20"`
	Role          string  `json:"role" binding:"required"`
	Code          string  `json:"code" binding:"required,max=10"`
	Address       string  `json:"address"`
	ExpenseLimit  float64 `json:"expenseLimit"`
	DiscountLimit float64 `json:"discountLimit"`
}

type UpdateUserRequest struct {
	Email         *string  `json:"email" binding:"omitempty,email"`
	Name          *string  `json:"name" binding:"omitempty,max=100"`
	Username      *string  `json:"username" binding:"omitempty,min=3,max=50"`
	Phone         *string  `json:"phone" binding:"omitempty,max=20"`
	Role          *string  `json:"role"`
	Code          *string  `json:"code" binding:"omitempty,max=10"`
	Address       *string  `json:"address"`
	ExpenseLimit  *float64 `json:"expenseLimit"`
	DiscountLimit *float64 `json:"discountLimit"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"omitempty,max=100"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Address string `json:"address"`
}

// List pages through users with search and an optional role filter.
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userService.List(service.ListQuery{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Search:    c.Query("search"),
		Filters:   map[string]string{"role": c.Query("role")},
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PagedResponse(c, result)
}

// GetByID fetches one user.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid ID")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GetByCode fetches one user by code.
func (h *UserHandler) GetByCode(c *gin.Context) {
	user, err := h.userService.GetByCode(c.Param("code"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// Create adds a user below the caller's role level. When no password is
// supplied the generated one is included in the response, once.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	user, generated, err := h.userService.Create(service.CreateUserInput{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		Username:      req.Username,
		Phone:         req.Phone,
		Role:          req.Role,
		Code:          req.Code,
		Address:       req.Address,
		ExpenseLimit:  req.ExpenseLimit,
		DiscountLimit: req.DiscountLimit,
	}, c.GetUint("userID"), c.GetString("role"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	body := gin.H{"user": user}
	if generated != "" {
		body["generatedPassword"] = generated
	}
	utils.CreatedResponse(c, body)
}

// Update modifies a user the caller outranks.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	user, err := h.userService.Update(uint(id), service.UpdateUserInput{
		Email:         req.Email,
		Name:          req.Name,
		Username:      req.Username,
		Phone:         req.Phone,
		Role:          req.Role,
		Code:          req.Code,
		Address:       req.Address,
		ExpenseLimit:  req.ExpenseLimit,
		DiscountLimit: req.DiscountLimit,
	}, c.GetUint("userID"), c.GetString("role"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// Delete removes a user the caller outranks, along with their sessions.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid ID")
		return
	}

	if err := h.userService.Delete(uint(id), c.GetUint("userID"), c.GetString("role")); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "User deleted successfully")
}

// Stats returns the total user count and a per-role breakdown.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// UpdateProfile lets the caller change their own contact details.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.GetUint("userID"), req.Name, req.Phone, req.Address)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}
