package handlers

import (
	"net/http"

	"ecocreds/internal/services"
	"ecocreds/internal/utils"
	"ecocreds/internal/validators"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditService services.CreditService
}

func NewCreditHandler(creditService services.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

// GetAvailable returns the credits redeemable on the next checkout.
func (h *CreditHandler) GetAvailable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	credits, err := h.creditService.GetAvailable(c.Request.Context(), userID)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Available credits retrieved successfully", credits)
}

func (h *CreditHandler) ListCredits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	credits, total, err := h.creditService.ListCredits(c.Request.Context(), userID, params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Credits retrieved successfully", credits, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// IssueCredit is admin-only.
func (h *CreditHandler) IssueCredit(c *gin.Context) {
	var request services.IssueCreditRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateIssueCreditRequest(&request); len(errs) > 0 {
		details := make(map[string]string)
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	credit, err := h.creditService.IssueCredit(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "CREDIT_ISSUE_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Credit issued successfully", credit)
}
