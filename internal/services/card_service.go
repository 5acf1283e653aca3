package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"payhub/internal/gateway"
	"payhub/internal/models/db_models"
	"payhub/internal/models/response_models"
	"payhub/internal/repositories"
	"payhub/pkg/utils"
)

type CardServiceInterface interface {
	// RegisterCard exchanges raw card data for a gateway bill key and stores
	// it as a payment method. Card data itself is never persisted.
	RegisterCard(ctx context.Context, ownerID string, provider string, card gateway.CardParams) (*response_models.CardRegistrationResult, error)
}

type CardService struct {
	methods  repositories.IPaymentMethodRepository
	registry *gateway.Registry
	logger   *zap.Logger
}

func NewCardService(methods repositories.IPaymentMethodRepository, registry *gateway.Registry, logger *zap.Logger) CardServiceInterface {
	return &CardService{
		methods:  methods,
		registry: registry,
		logger:   logger,
	}
}

func (s *CardService) RegisterCard(ctx context.Context, ownerID string, provider string, card gateway.CardParams) (*response_models.CardRegistrationResult, error) {
	accountID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}

	handler, err := s.registry.Get(provider)
	if err != nil {
		return nil, err
	}

	resp, err := handler.RegisterCard(ctx, card)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		// card-data mismatch is a soft failure; the user corrects and retries
		return nil, utils.NewCardRegistrationError(resp.ResponseCode, resp.ResponseMessage)
	}

	method := &db_models.PaymentMethod{
		AccountID:  accountID,
		Provider:   provider,
		BillKey:    resp.BillKey,
		CardAlias:  maskCardNumber(card.CardNumber),
		IssuerCode: resp.IssuerCode,
	}
	if err := s.methods.Create(ctx, method); err != nil {
		return nil, err
	}

	s.logger.Info("card registered",
		zap.String("payment_method_id", method.ID.String()),
		zap.String("provider", provider),
		zap.String("issuer_code", resp.IssuerCode),
	)

	return &response_models.CardRegistrationResult{
		PaymentMethodID: method.ID.String(),
		Provider:        method.Provider,
		CardAlias:       method.CardAlias,
		IssuerCode:      method.IssuerCode,
	}, nil
}

func maskCardNumber(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "****-****-****-" + number[len(number)-4:]
}
