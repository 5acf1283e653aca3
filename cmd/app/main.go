package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"payhub/cmd/fx/alert_fx"
	"payhub/cmd/fx/controllers_fx"
	"payhub/cmd/fx/db_fx"
	"payhub/cmd/fx/gateway_fx"
	"payhub/cmd/fx/lockstore_fx"
	"payhub/cmd/fx/logger_fx"
	"payhub/cmd/fx/payment_fx"
	"payhub/internal/api/controllers"
	"payhub/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; relying on process environment")
	}

	app := fx.New(
		logger_fx.Module,
		db_fx.Module,
		lockstore_fx.Module,
		gateway_fx.Module,
		alert_fx.Module,
		payment_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	paymentController *controllers.PaymentController,
	billingController *controllers.BillingController,
	cardController *controllers.CardController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, paymentController, billingController, cardController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	paymentController *controllers.PaymentController,
	billingController *controllers.BillingController,
	cardController *controllers.CardController) {

	paymentsGroup := r.Group("/payments")
	paymentsGroup.Use(middleware.JWTAuthMiddleware())
	paymentsGroup.POST("/reserve", paymentController.ReserveTransaction)
	paymentsGroup.POST("/transactions", paymentController.CreateTransaction)
	paymentsGroup.GET("/transactions/:uuid", paymentController.GetTransaction)
	paymentsGroup.POST("/transactions/:uuid/approve", paymentController.ApproveTransaction)
	paymentsGroup.POST("/transactions/:uuid/cancel", paymentController.CancelTransaction)
	paymentsGroup.GET("/transactions/:uuid/receipt", paymentController.GetReceipt)

	billingGroup := r.Group("/billing")
	billingGroup.Use(middleware.JWTAuthMiddleware())
	billingGroup.POST("/subscriptions", billingController.Subscribe)
	billingGroup.DELETE("/subscriptions/:id", billingController.Unsubscribe)
	billingGroup.POST("/subscriptions/:id/pay", billingController.PayInvoice)

	cardsGroup := r.Group("/cards")
	cardsGroup.Use(middleware.JWTAuthMiddleware())
	cardsGroup.POST("", cardController.RegisterCard)
}
