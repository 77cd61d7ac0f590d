package handler

import (
	"net/http"
	"strconv"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/service"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CrudHandler adapts a generic entity service to gin routes. One instance
// is registered per reference entity.
type CrudHandler[T any] struct {
	svc *service.CrudService[T]
}

func NewCrudHandler[T any](svc *service.CrudService[T]) *CrudHandler[T] {
	return &CrudHandler[T]{svc: svc}
}

// List pages through the entity with search, sorting and the entity's
// whitelisted discriminator filters.
func (h *CrudHandler[T]) List(c *gin.Context) {
	filters := map[string]string{}
	for param := range h.svc.Descriptor().Filters {
		if value := c.Query(param); value != "" {
			filters[param] = value
		}
	}

	result, err := h.svc.List(service.ListQuery{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Search:    c.Query("search"),
		Filters:   filters,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PagedResponse(c, result)
}

// GetByID fetches one row by numeric id.
func (h *CrudHandler[T]) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid ID")
		return
	}

	entity, err := h.svc.GetByID(uint(id))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, entity)
}

// GetByCode fetches one row by its natural key.
func (h *CrudHandler[T]) GetByCode(c *gin.Context) {
	entity, err := h.svc.GetByCode(c.Param("code"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, entity)
}

// Create inserts a new row from the JSON body.
func (h *CrudHandler[T]) Create(c *gin.Context) {
	var entity T
	if err := c.ShouldBindJSON(&entity); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	created, err := h.svc.Create(&entity, c.GetUint("userID"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, created)
}

// Update replaces the row's fields with the JSON body.
func (h *CrudHandler[T]) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid ID")
		return
	}

	var values T
	if err := c.ShouldBindJSON(&values); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid request body")
		return
	}

	updated, err := h.svc.Update(uint(id), &values, c.GetUint("userID"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, updated)
}

// Delete removes the row unless child records still reference it.
func (h *CrudHandler[T]) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperrors.CodeValidation, "Invalid ID")
		return
	}

	if err := h.svc.Delete(uint(id), c.GetUint("userID")); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "Deleted successfully")
}

// Stats returns the entity's aggregate counts.
func (h *CrudHandler[T]) Stats(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// Register wires the standard route set onto a group. Reads are open to any
// authenticated caller; writes additionally pass through writeGuard.
func (h *CrudHandler[T]) Register(group *gin.RouterGroup, writeGuard gin.HandlerFunc) {
	group.GET("", h.List)
	group.GET("/stats", h.Stats)
	if h.svc.Descriptor().CodeColumn != "" {
		group.GET("/code/:code", h.GetByCode)
	}
	group.GET("/:id", h.GetByID)

	group.POST("", writeGuard, h.Create)
	group.PUT("/:id", writeGuard, h.Update)
	group.DELETE("/:id", writeGuard, h.Delete)
}
