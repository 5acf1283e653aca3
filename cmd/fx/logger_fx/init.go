package logger_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(provideLogger)

func provideLogger() *zap.Logger {
	var logger *zap.Logger
	var err error

	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Printf("Failed to initialize zap logger: %v", err)
		return zap.NewNop()
	}

	return logger
}
