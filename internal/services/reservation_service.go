package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"payhub/pkg/lockstore"
	"payhub/pkg/utils"
)

const reservationKeyPrefix = "reservation:"

// ReservedTransactionParams is the transient hand-off between "reserve" and
// "create": held in the shared store under the reservation id until it expires.
type ReservedTransactionParams struct {
	OwnerID         string `json:"owner_id" validate:"required,uuid"`
	PaymentMethodID string `json:"payment_method_id" validate:"required,uuid"`
	PartnerID       string `json:"partner_id" validate:"required,uuid"`
	PartnerTxID     string `json:"partner_tx_id" validate:"required"`
	ProductName     string `json:"product_name" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	ReturnURL       string `json:"return_url" validate:"omitempty,url"`
	ReservedAt      int64  `json:"reserved_at"`
}

type ReservationServiceInterface interface {
	Reserve(ctx context.Context, params ReservedTransactionParams) (string, error)

	// Consume reads the reservation for transaction creation. The record is
	// not deleted: duplicate create calls may re-read consistent parameters
	// until natural expiry; the transactions table's partner-tx uniqueness
	// keeps the durable record single.
	Consume(ctx context.Context, reservationID string, ownerID string) (*ReservedTransactionParams, error)
}

type ReservationService struct {
	store    lockstore.Store
	cfg      PaymentConfig
	validate *validator.Validate
	logger   *zap.Logger
}

func NewReservationService(store lockstore.Store, cfg PaymentConfig, logger *zap.Logger) ReservationServiceInterface {
	return &ReservationService{
		store:    store,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *ReservationService) Reserve(_ context.Context, params ReservedTransactionParams) (string, error) {
	params.ReservedAt = utils.NowUnixSeconds()

	if err := s.validate.Struct(params); err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrInvalidReservation, err)
	}
	if params.Amount < s.cfg.MinAmount {
		return "", fmt.Errorf("%w: amount %d is below the minimum %d",
			utils.ErrInvalidReservation, params.Amount, s.cfg.MinAmount)
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return "", err
	}

	reservationID := uuid.NewString()
	s.store.Set(reservationKeyPrefix+reservationID, string(payload), s.cfg.ReservationTTL)

	s.logger.Info("transaction reserved",
		zap.String("reservation_id", reservationID),
		zap.String("partner_tx_id", params.PartnerTxID),
		zap.Int64("amount", params.Amount),
	)

	return reservationID, nil
}

func (s *ReservationService) Consume(_ context.Context, reservationID string, ownerID string) (*ReservedTransactionParams, error) {
	raw, ok := s.store.Get(reservationKeyPrefix + reservationID)
	if !ok {
		return nil, utils.ErrNotReservedTransaction
	}

	var params ReservedTransactionParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, err
	}

	if params.OwnerID != ownerID {
		return nil, utils.ErrNonTransactionOwner
	}

	return &params, nil
}
