package utils

import (
	"log"
	"net/http"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/pagination"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error object of the uniform response envelope.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// SuccessResponse sends a standard success JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     data,
		"metadata": nil,
	})
}

// CreatedResponse sends a success response with 201 status
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"data":     data,
		"metadata": nil,
	})
}

// PagedResponse sends a success response carrying list data and its
// pagination metadata.
func PagedResponse(c *gin.Context, result *pagination.Result) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     result.Data,
		"metadata": result.Meta,
	})
}

// MessageResponse sends a simple message response
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     gin.H{"message": message},
		"metadata": nil,
	})
}

// ErrorResponse sends an error response for an explicit status and message
func ErrorResponse(c *gin.Context, statusCode int, code, message string, details ...string) {
	c.JSON(statusCode, gin.H{
		"success":  false,
		"data":     nil,
		"metadata": nil,
		"error":    ErrorBody{Code: code, Message: message, Details: details},
	})
}

// HandleError serializes a service error using the taxonomy. Anything that
// is not a typed error is logged and becomes a generic 500.
func HandleError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Code == apperrors.CodeInternal {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	ErrorResponse(c, appErr.Status(), appErr.Code, appErr.Message, appErr.Details...)
}
