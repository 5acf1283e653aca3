package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"payhub/internal/models/db_models"
	"payhub/internal/models/response_models"
	"payhub/internal/repositories"
	"payhub/pkg/utils"
)

type SubscribeCommand struct {
	PaymentMethodID string
	PartnerID       string
	ProductName     string
	Amount          int64
}

type SubscriptionServiceInterface interface {
	Subscribe(ctx context.Context, ownerID string, cmd SubscribeCommand) (*response_models.SubscriptionResult, error)
	Unsubscribe(ctx context.Context, ownerID string, subscriptionID string) error
}

type SubscriptionService struct {
	subs    repositories.ISubscriptionRepository
	methods repositories.IPaymentMethodRepository
	logger  *zap.Logger
}

func NewSubscriptionService(
	subs repositories.ISubscriptionRepository,
	methods repositories.IPaymentMethodRepository,
	logger *zap.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subs:    subs,
		methods: methods,
		logger:  logger,
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, ownerID string, cmd SubscribeCommand) (*response_models.SubscriptionResult, error) {
	accountID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	partnerID, err := uuid.Parse(cmd.PartnerID)
	if err != nil {
		return nil, err
	}

	method, err := s.methods.GetByID(ctx, cmd.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, utils.ErrNotFoundPaymentMethod
	}
	if method.AccountID != accountID {
		return nil, utils.ErrNonTransactionOwner
	}

	sub := &db_models.Subscription{
		AccountID:       accountID,
		PaymentMethodID: method.ID,
		PartnerID:       partnerID,
		ProductName:     cmd.ProductName,
		Amount:          cmd.Amount,
		SubscribedAt:    utils.NowUnixSeconds(),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("product_name", sub.ProductName),
		zap.Int64("amount", sub.Amount),
	)

	return &response_models.SubscriptionResult{
		SubscriptionID: sub.ID.String(),
		ProductName:    sub.ProductName,
		Amount:         sub.Amount,
		SubscribedAt:   utils.FormatUnixRFC3339(sub.SubscribedAt),
	}, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, ownerID string, subscriptionID string) error {
	sub, err := s.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return utils.ErrNotFoundSubscription
	}
	if sub.AccountID.String() != ownerID {
		return utils.ErrNonTransactionOwner
	}
	if !sub.Active() {
		return utils.ErrUnsubscribed
	}

	unsubscribedAt := utils.NowUnixSeconds()
	sub.UnsubscribedAt = &unsubscribedAt

	return s.subs.Save(ctx, sub)
}
