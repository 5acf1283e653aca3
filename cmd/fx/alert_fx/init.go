package alert_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"payhub/internal/services"
)

var Module = fx.Provide(provideAlertNotifier)

func provideAlertNotifier(logger *zap.Logger) services.AlertNotifier {
	host := os.Getenv("ALERT_SMTP_HOST")
	if host == "" {
		log.Println("ALERT_SMTP_HOST not set; reconciliation alerts go to the log only")
		return services.NewLogAlertNotifier(logger)
	}

	port, err := strconv.Atoi(os.Getenv("ALERT_SMTP_PORT"))
	if err != nil {
		port = 587 // STARTTLS
	}

	cfg := services.SMTPAlertConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("ALERT_SMTP_USERNAME"),
		Password: os.Getenv("ALERT_SMTP_PASSWORD"),
		From:     os.Getenv("ALERT_FROM"),
		To:       os.Getenv("ALERT_TO"),
		AppName:  "Payhub",
	}

	return services.NewSMTPAlertNotifier(cfg, logger)
}
