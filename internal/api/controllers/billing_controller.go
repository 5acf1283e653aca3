package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payhub/internal/gateway"
	"payhub/internal/models/request_models"
	"payhub/internal/services"
	"payhub/pkg/utils"
)

type BillingController struct {
	subscriptionService services.SubscriptionServiceInterface
	approvalService     services.ApprovalServiceInterface
}

func NewBillingController(
	subscriptionService services.SubscriptionServiceInterface,
	approvalService services.ApprovalServiceInterface,
) *BillingController {
	return &BillingController{
		subscriptionService: subscriptionService,
		approvalService:     approvalService,
	}
}

// Subscribe godoc
// @Summary Create a billing subscription
// @Description Bind a registered payment method to a recurring product
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.SubscribeRequest true "Subscription payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/subscriptions [post]
func (b *BillingController) Subscribe(c *gin.Context) {
	var req request_models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := b.subscriptionService.Subscribe(c.Request.Context(), ownerID, services.SubscribeCommand{
		PaymentMethodID: req.PaymentMethodID,
		PartnerID:       req.PartnerID,
		ProductName:     req.ProductName,
		Amount:          req.Amount,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Subscription created successfully")
}

// Unsubscribe godoc
// @Summary Cancel a billing subscription
// @Description Stop future invoices for a subscription; past transactions are untouched
// @Tags Billing
// @Produce json
// @Param id path string true "Subscription id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/subscriptions/{id} [delete]
func (b *BillingController) Unsubscribe(c *gin.Context) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := b.subscriptionService.Unsubscribe(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Subscription canceled successfully")
}

// PayInvoice godoc
// @Summary Charge a subscription invoice
// @Description Charge the stored bill key for one invoice; the same invoice is never charged twice
// @Tags Billing
// @Accept json
// @Produce json
// @Param id path string true "Subscription id"
// @Param request body request_models.BillingPaymentRequest true "Billing payment payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/subscriptions/{id}/pay [post]
func (b *BillingController) PayInvoice(c *gin.Context) {
	var req request_models.BillingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := b.approvalService.PayBillingSubscription(c.Request.Context(), services.BillingPaymentCommand{
		SubscriptionID: c.Param("id"),
		PartnerTxID:    req.PartnerTxID,
		InvoiceID:      req.InvoiceID,
		Amount:         req.Amount,
		Buyer: gateway.Buyer{
			Name:  req.Buyer.Name,
			Email: req.Buyer.Email,
			Phone: req.Buyer.Phone,
		},
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Invoice charged successfully")
}
