package handlers

import (
	"strconv"

	"ecocreds/internal/services"
	"ecocreds/internal/utils"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	loyaltyService services.LoyaltyService
}

func NewLoyaltyHandler(loyaltyService services.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
	}
}

// GetAccount returns the balance with the stored tier fields.
func (h *LoyaltyHandler) GetAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := h.loyaltyService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		utils.NotFoundResponse(c, "Loyalty account")
		return
	}

	utils.SuccessResponse(c, "Loyalty account retrieved successfully", account)
}

// GetStatus returns the freshly derived tier standing.
func (h *LoyaltyHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.loyaltyService.GetStatus(c.Request.Context(), userID)
	if err != nil {
		utils.NotFoundResponse(c, "Loyalty account")
		return
	}

	utils.SuccessResponse(c, "Tier status retrieved successfully", status)
}

func (h *LoyaltyHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	activities, total, err := h.loyaltyService.GetHistory(c.Request.Context(), userID, params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "History retrieved successfully", activities, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *LoyaltyHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	accounts, err := h.loyaltyService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Leaderboard retrieved successfully", accounts)
}
