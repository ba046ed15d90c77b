package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cogniseguros/pkg/utils"
)

const contextTenantDB = "tenant_db"

// TenantDatabases resolves an account to its provisioned tenant pool.
type TenantDatabases interface {
	DatabaseFor(ctx context.Context, accountID int64) (*gorm.DB, error)
}

// TenantMiddleware routes an authenticated aseguradora to its tenant
// database. It must run after JWTAuthMiddleware.
func TenantMiddleware(tenants TenantDatabases) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != "aseguradora" {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: only aseguradoras have a tenant database")
			c.Abort()
			return
		}

		db, err := tenants.DatabaseFor(c.Request.Context(), AccountID(c))
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(contextTenantDB, db)
		c.Next()
	}
}

// TenantDB returns the pool set by TenantMiddleware.
func TenantDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(contextTenantDB)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}
