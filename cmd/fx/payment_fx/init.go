package payment_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payhub/internal/gateway"
	"payhub/internal/repositories"
	"payhub/internal/services"
	"payhub/pkg/lockstore"
)

var Module = fx.Provide(
	services.LoadPaymentConfig,

	provideTransactionRepo,
	provideTransactionHistoryRepo,
	provideSubscriptionRepo,
	providePaymentMethodRepo,
	provideTxManager,

	provideReservationService,
	provideTransactionService,
	provideApprovalService,
	provideCancellationService,
	provideCardService,
	provideSubscriptionService,
)

func provideTransactionRepo(db *gorm.DB) repositories.ITransactionRepository {
	return repositories.NewTransactionRepository(db)
}

func provideTransactionHistoryRepo(db *gorm.DB) repositories.ITransactionHistoryRepository {
	return repositories.NewTransactionHistoryRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func providePaymentMethodRepo(db *gorm.DB) repositories.IPaymentMethodRepository {
	return repositories.NewPaymentMethodRepository(db)
}

func provideTxManager(db *gorm.DB) repositories.TxManager {
	return repositories.NewGormTxManager(db)
}

func provideReservationService(
	store lockstore.Store,
	cfg services.PaymentConfig,
	logger *zap.Logger,
) services.ReservationServiceInterface {
	return services.NewReservationService(store, cfg, logger)
}

func provideTransactionService(
	reservations services.ReservationServiceInterface,
	txns repositories.ITransactionRepository,
	registry *gateway.Registry,
	logger *zap.Logger,
) services.TransactionServiceInterface {
	return services.NewTransactionService(reservations, txns, registry, logger)
}

func provideApprovalService(
	txns repositories.ITransactionRepository,
	histories repositories.ITransactionHistoryRepository,
	subs repositories.ISubscriptionRepository,
	methods repositories.IPaymentMethodRepository,
	txManager repositories.TxManager,
	registry *gateway.Registry,
	locks lockstore.Store,
	alerts services.AlertNotifier,
	cfg services.PaymentConfig,
	logger *zap.Logger,
) services.ApprovalServiceInterface {
	return services.NewApprovalService(txns, histories, subs, methods, txManager, registry, locks, alerts, cfg, logger)
}

func provideCancellationService(
	txns repositories.ITransactionRepository,
	histories repositories.ITransactionHistoryRepository,
	txManager repositories.TxManager,
	registry *gateway.Registry,
	locks lockstore.Store,
	alerts services.AlertNotifier,
	cfg services.PaymentConfig,
	logger *zap.Logger,
) services.CancellationServiceInterface {
	return services.NewCancellationService(txns, histories, txManager, registry, locks, alerts, cfg, logger)
}

func provideCardService(
	methods repositories.IPaymentMethodRepository,
	registry *gateway.Registry,
	logger *zap.Logger,
) services.CardServiceInterface {
	return services.NewCardService(methods, registry, logger)
}

func provideSubscriptionService(
	subs repositories.ISubscriptionRepository,
	methods repositories.IPaymentMethodRepository,
	logger *zap.Logger,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(subs, methods, logger)
}
