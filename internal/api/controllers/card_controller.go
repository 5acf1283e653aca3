package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payhub/internal/gateway"
	"payhub/internal/models/request_models"
	"payhub/internal/services"
	"payhub/pkg/utils"
)

type CardController struct {
	cardService services.CardServiceInterface
}

func NewCardController(cardService services.CardServiceInterface) *CardController {
	return &CardController{
		cardService: cardService,
	}
}

// RegisterCard godoc
// @Summary Register a card as a payment method
// @Description Exchange raw card data for a gateway bill key; card data is never stored
// @Tags Cards
// @Accept json
// @Produce json
// @Param request body request_models.RegisterCardRequest true "Card registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /cards [post]
func (cc *CardController) RegisterCard(c *gin.Context) {
	var req request_models.RegisterCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := cc.cardService.RegisterCard(c.Request.Context(), ownerID, req.Provider, gateway.CardParams{
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		Password:   req.Password,
		TaxID:      req.TaxID,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Card registered successfully")
}
