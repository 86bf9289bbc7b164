package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"itinera/pkg/logger"
)

const (
	TraceIDKey    = "trace_id"
	TraceIDHeader = "X-Trace-ID"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// RespondValidationError reports binding failures field by field.
func RespondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
		TraceID: traceID(c),
		Data:    ProcessValidationErrors(err),
	})
}

func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorResponse["body"] = err.Error()
		return errorResponse
	}

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrInvalidPlaceID),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrTripTooLong),
		errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConstraintViolation):
		RespondError(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, ErrProviderUnavailable):
		logger.LogError(logger.GetLogger(), "api", "HandleServiceError", c.FullPath(), traceID(c), err)
		RespondError(c, http.StatusServiceUnavailable, "Place provider unavailable")
	case errors.Is(err, ErrDatabaseError):
		logger.LogError(logger.GetLogger(), "api", "HandleServiceError", c.FullPath(), traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.LogError(logger.GetLogger(), "api", "HandleServiceError", c.FullPath(), traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
