package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payhub/internal/gateway"
	"payhub/internal/models/request_models"
	"payhub/internal/models/response_models"
	"payhub/internal/services"
	"payhub/pkg/utils"
)

type PaymentController struct {
	reservationService  services.ReservationServiceInterface
	transactionService  services.TransactionServiceInterface
	approvalService     services.ApprovalServiceInterface
	cancellationService services.CancellationServiceInterface
}

func NewPaymentController(
	reservationService services.ReservationServiceInterface,
	transactionService services.TransactionServiceInterface,
	approvalService services.ApprovalServiceInterface,
	cancellationService services.CancellationServiceInterface,
) *PaymentController {
	return &PaymentController{
		reservationService:  reservationService,
		transactionService:  transactionService,
		approvalService:     approvalService,
		cancellationService: cancellationService,
	}
}

// ReserveTransaction godoc
// @Summary Reserve a payment transaction
// @Description Hold payment parameters ahead of transaction creation
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.ReserveTransactionRequest true "Reservation payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/reserve [post]
func (p *PaymentController) ReserveTransaction(c *gin.Context) {
	var req request_models.ReserveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	params := services.ReservedTransactionParams{
		OwnerID:         ownerID,
		PaymentMethodID: req.PaymentMethodID,
		PartnerID:       req.PartnerID,
		PartnerTxID:     req.PartnerTxID,
		ProductName:     req.ProductName,
		Amount:          req.Amount,
		ReturnURL:       req.ReturnURL,
	}

	reservationID, err := p.reservationService.Reserve(c.Request.Context(), params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.ReservationResponse{
		ReservationID: reservationID,
		ReservedAt:    utils.FormatUnixRFC3339(utils.NowUnixSeconds()),
	}, "Transaction reserved successfully")
}

// CreateTransaction godoc
// @Summary Create a transaction from a reservation
// @Description Turn a held reservation into a durable RESERVED transaction
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateTransactionRequest true "Transaction creation payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions [post]
func (p *PaymentController) CreateTransaction(c *gin.Context) {
	var req request_models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	txn, err := p.transactionService.CreateTransaction(c.Request.Context(), ownerID, req.ReservationID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txn, "Transaction created successfully")
}

// GetTransaction godoc
// @Summary Fetch a transaction
// @Description Fetch a transaction owned by the authenticated account
// @Tags Payments
// @Produce json
// @Param uuid path string true "Transaction uuid"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions/{uuid} [get]
func (p *PaymentController) GetTransaction(c *gin.Context) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	txn, err := p.transactionService.GetTransaction(c.Request.Context(), ownerID, c.Param("uuid"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txn, "Transaction fetched successfully")
}

// ApproveTransaction godoc
// @Summary Approve a reserved transaction
// @Description Charge the gateway for a reserved transaction; replays return the original result
// @Tags Payments
// @Accept json
// @Produce json
// @Param uuid path string true "Transaction uuid"
// @Param request body request_models.ApproveTransactionRequest true "Approval payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions/{uuid}/approve [post]
func (p *PaymentController) ApproveTransaction(c *gin.Context) {
	var req request_models.ApproveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	// only the owning account may spend against the transaction
	if _, err := p.transactionService.GetTransaction(c.Request.Context(), ownerID, c.Param("uuid")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	buyer := gateway.Buyer{
		Name:  req.Buyer.Name,
		Email: req.Buyer.Email,
		Phone: req.Buyer.Phone,
	}

	result, err := p.approvalService.ApproveOneTime(c.Request.Context(), c.Param("uuid"), buyer)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Transaction approved successfully")
}

// CancelTransaction godoc
// @Summary Cancel an approved transaction
// @Description Void the gateway charge and mark the transaction CANCELED
// @Tags Payments
// @Produce json
// @Param uuid path string true "Transaction uuid"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions/{uuid}/cancel [post]
func (p *PaymentController) CancelTransaction(c *gin.Context) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	if _, err := p.transactionService.GetTransaction(c.Request.Context(), ownerID, c.Param("uuid")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result, err := p.cancellationService.Cancel(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Transaction canceled successfully")
}

// GetReceipt godoc
// @Summary Get the card receipt URL for an approved transaction
// @Tags Payments
// @Produce json
// @Param uuid path string true "Transaction uuid"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions/{uuid}/receipt [get]
func (p *PaymentController) GetReceipt(c *gin.Context) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	receiptURL, err := p.transactionService.GetReceiptURL(c.Request.Context(), ownerID, c.Param("uuid"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"receipt_url": receiptURL}, "Receipt URL fetched successfully")
}
