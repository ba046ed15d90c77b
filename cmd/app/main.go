package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cogniseguros/cmd/fx/account_fx"
	"cogniseguros/cmd/fx/cliente_fx"
	"cogniseguros/cmd/fx/config_fx"
	"cogniseguros/cmd/fx/controllers_fx"
	"cogniseguros/cmd/fx/dashboard"
	"cogniseguros/cmd/fx/db_fx"
	"cogniseguros/cmd/fx/logger_fx"
	"cogniseguros/cmd/fx/mail_fx"
	"cogniseguros/cmd/fx/memcache_fx"
	"cogniseguros/cmd/fx/tenancy_fx"
	"cogniseguros/internal/api/controllers"
	"cogniseguros/internal/config"
	"cogniseguros/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module("cogniseguros-api"),
		logger_fx.EventLogger,
		fx.Invoke(func(cfg *config.Config) error { return cfg.ValidateServer() }),
		db_fx.Module,
		db_fx.EnsureMasterSchema,
		tenancy_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		cliente_fx.Module,
		dashboard.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Tenants   middleware.TenantDatabases
	Account   *controllers.AccountController
	Admin     *controllers.AdminController
	Clientes  *controllers.ClienteController
	Plans     *controllers.PlanController
	Dashboard *controllers.DashboardController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if !p.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger.Named("http")))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(p.Config.App.BaseURL))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	secret := []byte(p.Config.JWT.Secret)
	auth := middleware.JWTAuthMiddleware(secret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/plans", p.Plans.GetPlans)

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", p.Account.Register)
	accountGroup.POST("/login", p.Account.Login)
	accountGroup.POST("/request-code", p.Account.RequestCode)
	accountGroup.POST("/verify-code", p.Account.VerifyCode)
	accountGroup.POST("/reset-password", p.Account.ResetPassword)
	accountGroup.GET("/me", auth, p.Account.Me)

	adminGroup := r.Group("/admin", auth, middleware.RoleMiddleware("admin"))
	adminGroup.GET("/dashboard", p.Dashboard.GetDashboard)
	adminGroup.GET("/accounts", p.Admin.ListAccounts)
	adminGroup.GET("/accounts/:id", p.Admin.GetAccount)
	adminGroup.PUT("/accounts/:id/role", p.Admin.ChangeRole)
	adminGroup.POST("/accounts/:id/block", p.Admin.Block)
	adminGroup.DELETE("/accounts/:id/block", p.Admin.Unblock)
	adminGroup.GET("/accounts/:id/subscription", p.Admin.GetSubscription)
	adminGroup.PUT("/accounts/:id/subscription", p.Admin.UpsertSubscription)
	adminGroup.POST("/tenants/migrate", p.Admin.MigrateAllTenants)
	adminGroup.POST("/tenants/:id/provision", p.Admin.ProvisionTenant)
	adminGroup.POST("/tenants/:id/migrate", p.Admin.MigrateTenant)

	tenantGroup := r.Group("", auth, middleware.TenantMiddleware(p.Tenants))
	tenantGroup.GET("/clientes", p.Clientes.ListClientes)
	tenantGroup.POST("/clientes", p.Clientes.CreateCliente)
	tenantGroup.GET("/clientes/:id", p.Clientes.GetCliente)
	tenantGroup.GET("/configuracion/:clave", p.Clientes.GetConfiguracion)
	tenantGroup.PUT("/configuracion/:clave", p.Clientes.PutConfiguracion)
}
