package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextLogger = "logger"

// SetLogger attaches the request logger used by HandleServiceError.
func SetLogger(c *gin.Context, logger *zap.Logger) {
	c.Set(contextLogger, logger)
}

// Logger returns the request logger, or a no-op logger when none is set.
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(contextLogger); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps service sentinels to HTTP responses. Anything
// unrecognised becomes a 500 without leaking details.
func HandleServiceError(c *gin.Context, err error) {
	code, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, ErrInvalidPage):
		code, message = http.StatusBadRequest, "Page must be greater than 0"
	case errors.Is(err, ErrInvalidPageSize):
		code, message = http.StatusBadRequest, "Page size must be between 1 and 200"
	case errors.Is(err, ErrAccountNotFound):
		code, message = http.StatusNotFound, "Account not found"
	case errors.Is(err, ErrInvalidCredentials):
		code, message = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrEmailAlreadyExists):
		code, message = http.StatusConflict, "Email already registered"
	case errors.Is(err, ErrAccountBlocked):
		code, message = http.StatusForbidden, "Account is blocked"
	case errors.Is(err, ErrNoTenant):
		code, message = http.StatusForbidden, "Forbidden: only aseguradoras have a tenant database"
	case errors.Is(err, ErrTrialExpired):
		code, message = http.StatusPaymentRequired, "Trial period has expired"
	case errors.Is(err, ErrInvalidRole):
		code, message = http.StatusBadRequest, "Role must be admin or aseguradora"
	case errors.Is(err, ErrNoPendingCode), errors.Is(err, ErrCodeExpired), errors.Is(err, ErrCodeMismatch):
		code, message = http.StatusUnauthorized, "Invalid or expired code"
	case errors.Is(err, ErrPlanNotFound):
		code, message = http.StatusNotFound, "Plan not found"
	case errors.Is(err, ErrSubscriptionNotFound):
		code, message = http.StatusNotFound, "Subscription not found"
	case errors.Is(err, ErrInvalidStatus):
		code, message = http.StatusBadRequest, "Invalid subscription status"
	case errors.Is(err, ErrClienteNotFound):
		code, message = http.StatusNotFound, "Cliente not found"
	case errors.Is(err, ErrClienteDuplicado):
		code, message = http.StatusConflict, "A cliente with this pais and documento already exists"
	case errors.Is(err, ErrInvalidCountry):
		code, message = http.StatusBadRequest, "Pais must be a two-letter country code"
	case errors.Is(err, ErrConfigKeyNotFound):
		code, message = http.StatusNotFound, "Configuration key not found"
	case errors.Is(err, ErrTenantUnavailable), errors.Is(err, ErrTransientConnection):
		Logger(c).Warn("Tenant database error", zap.Error(err))
		code, message = http.StatusServiceUnavailable, "Tenant database unavailable"
	case errors.Is(err, ErrSchemaConflict), errors.Is(err, ErrDatabaseError):
		Logger(c).Error("Database error", zap.String("sqlstate", SQLState(err)), zap.Error(err))
	default:
		Logger(c).Error("Unhandled service error", zap.Error(err))
	}

	RespondError(c, code, message)
}
