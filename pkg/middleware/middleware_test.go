package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"cogniseguros/pkg/utils"
)

var secret = []byte("middleware-secret")

type stubTenants struct {
	db    *gorm.DB
	err   error
	calls []int64
}

func (s *stubTenants) DatabaseFor(ctx context.Context, accountID int64) (*gorm.DB, error) {
	s.calls = append(s.calls, accountID)
	return s.db, s.err
}

func newRouter(tenants TenantDatabases) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	auth := r.Group("/", JWTAuthMiddleware(secret))
	auth.GET("/admin", RoleMiddleware("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": AccountID(c)})
	})
	auth.GET("/tenant", TenantMiddleware(tenants), func(c *gin.Context) {
		if TenantDB(c) == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func do(t *testing.T, r http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, id int64, role string) string {
	t.Helper()
	tok, err := utils.CreateToken(secret, id, role, time.Minute)
	require.NoError(t, err)
	return tok
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter(&stubTenants{})

	w := do(t, r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = do(t, r, "/admin", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, "/admin", token(t, 3, "aseguradora"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, "/admin", token(t, 3, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":3}`, w.Body.String())
}

func TestTenantMiddleware(t *testing.T) {
	tenants := &stubTenants{db: &gorm.DB{}}
	r := newRouter(tenants)

	w := do(t, r, "/tenant", token(t, 1, "admin"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, tenants.calls)

	w = do(t, r, "/tenant", token(t, 8, "aseguradora"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{8}, tenants.calls)

	tenants.err = utils.ErrTenantUnavailable
	w = do(t, r, "/tenant", token(t, 8, "aseguradora"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware("https://app.example.com"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTenantMiddleware_BlockedAfterLogin(t *testing.T) {
	tenants := &stubTenants{err: utils.ErrAccountBlocked}
	r := newRouter(tenants)

	w := do(t, r, "/tenant", token(t, 8, "aseguradora"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	tenants.err = utils.ErrNoTenant
	w = do(t, r, "/tenant", token(t, 8, "aseguradora"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestLogger_ServiceErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware(), RequestLogger(zap.New(core)))
	r.GET("/tenant", func(c *gin.Context) {
		utils.HandleServiceError(c, utils.WrapDBError("connect", &pgconn.PgError{Code: "3D000", Message: "database does not exist"}))
	})

	traceID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
	req.Header.Set("X-Trace-ID", traceID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	entries := logs.FilterMessage("Tenant database error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, traceID, fields["trace_id"])
	assert.Equal(t, "/tenant", fields["path"])
}
