package email

import (
	"github.com/reservaspro/reservaspro/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	switch cfg.Email.Provider {
	case "smtp":
		return NewSMTP(Config{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.From,
		})
	case "resend":
		return NewResend(ResendConfig{
			APIKey:  cfg.Email.ResendAPIKey,
			BaseURL: cfg.Email.ResendURL,
			From:    cfg.Email.From,
		})
	default:
		return &NoOpProvider{}
	}
}
