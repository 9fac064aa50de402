package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/services"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// MatchHandler handles match-related HTTP requests
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// ListMatches handles GET /matches?filter=&participantId=&search=
func (h *MatchHandler) ListMatches(c *gin.Context) {
	filter := models.MatchFilter(c.DefaultQuery("filter", string(models.FilterAll)))

	matches, err := h.matchService.FindMatches(c.Request.Context(), filter, c.Query("participantId"), c.Query("search"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, toResponses(matches))
}

// GetMatch handles GET /matches/:id
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matchService.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewMatchResponse(*match))
}

// CreateMatch handles POST /matches
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var request models.MatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	match, err := h.matchService.CreateMatch(c.Request.Context(), request.ToMatch(""))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewMatchResponse(*match))
}

// UpdateMatch handles PUT /matches/:id
func (h *MatchHandler) UpdateMatch(c *gin.Context) {
	var request models.MatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	match, err := h.matchService.UpdateMatch(c.Request.Context(), request.ToMatch(c.Param("id")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewMatchResponse(*match))
}

// DeleteMatch handles DELETE /matches/:id
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	if err := h.matchService.DeleteMatch(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Match deleted successfully"})
}

// UpdatePayment handles POST /matches/:id/participants/:participantId/payment
func (h *MatchHandler) UpdatePayment(c *gin.Context) {
	var request models.PaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	match, err := h.matchService.UpdatePayment(c.Request.Context(),
		c.Param("id"), c.Param("participantId"), *request.Paid, request.ReceiptURL)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewMatchResponse(*match))
}

// PendingPayments handles GET /payments/pending
func (h *MatchHandler) PendingPayments(c *gin.Context) {
	pending, err := h.matchService.PendingPayments(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, pending)
}

// ListParticipants handles GET /participants
func (h *MatchHandler) ListParticipants(c *gin.Context) {
	options, err := h.matchService.ParticipantOptions(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, options)
}

func toResponses(matches []models.Match) []models.MatchResponse {
	responses := make([]models.MatchResponse, len(matches))
	for i, m := range matches {
		responses[i] = models.NewMatchResponse(m)
	}
	return responses
}
