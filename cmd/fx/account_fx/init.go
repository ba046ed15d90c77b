package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogniseguros/internal/config"
	"cogniseguros/internal/repositories"
	"cogniseguros/internal/services"
	mem "cogniseguros/pkg/memcache"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideSubscriptionRepo,
	providePlanRepo,
	provideAccountService,
	services.NewSubscriptionService,
	services.NewPlanService,
)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideAccountService(
	db *gorm.DB,
	accountRepo repositories.AccountRepository,
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	codes mem.VerificationCodeStore,
	mailService services.IMailService,
	tenants services.TenantProvisioner,
	cfg *config.Config,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(db, accountRepo, subRepo, planRepo, codes, mailService, tenants,
		services.AccountServiceConfig{
			JWTSecret: []byte(cfg.JWT.Secret),
			JWTTTL:    cfg.JWT.TTL,
			TrialDays: cfg.Auth.TrialDays,
		}, logger)
}
