package gateway_fx

import (
	"log"
	"os"
	"time"

	"go.uber.org/fx"

	"payhub/internal/gateway"
	"payhub/internal/services"
)

var Module = fx.Provide(provideGatewayRegistry)

func provideGatewayRegistry(cfg services.PaymentConfig) *gateway.Registry {
	registry := gateway.NewRegistry(gateway.NewSandboxHandler(cfg.MinAmount))

	if baseURL := os.Getenv("PG_BASE_URL"); baseURL != "" {
		restCfg := gateway.RestConfig{
			ProviderName: os.Getenv("PG_PROVIDER_NAME"),
			BaseURL:      baseURL,
			MerchantKey:  os.Getenv("PG_MERCHANT_KEY"),
		}
		if timeout, err := time.ParseDuration(os.Getenv("PG_TIMEOUT")); err == nil {
			restCfg.Timeout = timeout
		}
		registry.Register(gateway.NewRestHandler(restCfg))
	} else {
		log.Println("PG_BASE_URL not set; only the sandbox gateway is registered")
	}

	return registry
}
