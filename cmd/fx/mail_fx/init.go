package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cogniseguros/internal/config"
	"cogniseguros/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, logger *zap.Logger) (services.IMailService, error) {
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP not configured, verification codes will not be mailed")
		return services.NewLogMailService(logger, cfg.IsDevelopment()), nil
	}

	mailService, err := services.NewSMTPMailService(cfg.SMTP, services.MailBranding{
		AppName:    cfg.App.Name,
		AppBaseURL: cfg.App.BaseURL,
		CodeTTL:    cfg.Auth.CodeTTL,
	})
	if err != nil {
		logger.Error("Failed to initialize SMTP mail service", zap.Error(err))
		return nil, err
	}
	logger.Info("SMTP mail service ready", zap.String("host", cfg.SMTP.Host), zap.Int("port", cfg.SMTP.Port))
	return mailService, nil
}
