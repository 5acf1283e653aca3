package controllers_fx

import (
	"go.uber.org/fx"

	"payhub/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewBillingController),
	fx.Provide(controllers.NewCardController))
