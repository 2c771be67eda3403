package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/rms/internal/middleware"
	"github.com/stwalsh4118/rms/internal/services"
)

// Error codes carried in the error body.
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrConflict           = "CONFLICT"
	ErrAlreadyOccupied    = "ALREADY_OCCUPIED"
	ErrAmbiguous          = "AMBIGUOUS"
	ErrMismatch           = "MISMATCH"
	ErrInvalidInput       = "INVALID_INPUT"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrForbidden          = "FORBIDDEN"
	ErrServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response. details maps request
// fields to messages and may be nil.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Conflict returns a 409 Conflict error response with optional details.
func Conflict(c *gin.Context, code, message string, details map[string]interface{}) {
	respond(c, http.StatusConflict, code, message, details)
}

// Unauthorized returns a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil)
}

// Forbidden returns a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrForbidden, message, nil)
}

// ServiceUnavailable returns a 503 for features that are not configured.
func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, ErrServiceUnavailable, message, nil)
}

// DomainError maps an error returned by a service to its HTTP response.
// Field errors put their message under the field name in details.
// Anything unrecognised becomes a 500 that hides err from the client.
func DomainError(c *gin.Context, err error) {
	var details map[string]interface{}
	message := "Request could not be completed"

	var fe *services.FieldError
	if stderrors.As(err, &fe) {
		details = map[string]interface{}{fe.Field: fe.Message}
		message = fe.Message
	}

	switch {
	case stderrors.Is(err, services.ErrNotFound):
		respond(c, http.StatusNotFound, ErrNotFound, message, details)
	case stderrors.Is(err, services.ErrAlreadyOccupied):
		respond(c, http.StatusConflict, ErrAlreadyOccupied, message, details)
	case stderrors.Is(err, services.ErrConflict):
		respond(c, http.StatusConflict, ErrConflict, message, details)
	case stderrors.Is(err, services.ErrAmbiguous):
		respond(c, http.StatusBadRequest, ErrAmbiguous, message, details)
	case stderrors.Is(err, services.ErrMismatch):
		respond(c, http.StatusBadRequest, ErrMismatch, message, details)
	case stderrors.Is(err, services.ErrInvalidInput):
		respond(c, http.StatusBadRequest, ErrInvalidInput, message, details)
	case stderrors.Is(err, services.ErrUnavailable):
		ServiceUnavailable(c, "This feature is not configured on the server")
	default:
		InternalServerError(c, "An unexpected error occurred", err)
	}
}

// respond logs a client error at warn level and writes the error body.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		fields := map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		}
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Request rejected", fields)
	}

	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// InternalServerError logs err and returns a 500 whose body never includes it.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := map[string]interface{}{
		"message":    message,
		"request_id": requestID,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}

	if log != nil {
		log.Error("Internal server error", err, logFields)
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 listing every failed binding rule by field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	details := make(map[string]interface{})
	for _, err := range validationErrors {
		field := err.Field()
		details[field] = formatValidationError(err)
	}

	if log != nil {
		log.Warn("Validation error", map[string]interface{}{
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"fields":     details,
		})
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrValidation,
			Message:   "Validation failed for one or more fields",
			Details:   details,
			RequestID: requestID,
		},
	})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "len":
		return "Must have length of " + err.Param()
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
