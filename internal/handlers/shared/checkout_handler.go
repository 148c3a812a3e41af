package handlers

import (
	"errors"
	"net/http"

	"ecocreds/internal/checkout"
	"ecocreds/internal/services"
	"ecocreds/internal/utils"
	"ecocreds/internal/validators"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

type quoteRequest struct {
	OffsetSelected  bool  `json:"offset_selected"`
	RequestedPoints int64 `json:"requested_points"`
}

// Quote prices the current cart without reserving anything.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request quoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), userID, checkout.Selections{
		OffsetSelected:  request.OffsetSelected,
		RequestedPoints: request.RequestedPoints,
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	utils.SuccessResponse(c, "Quote computed successfully", quote)
}

// Commit turns the cart into a paid order.
func (h *CheckoutHandler) Commit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CommitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateCommitRequest(&request); len(errs) > 0 {
		details := make(map[string]string)
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	order, err := h.checkoutService.Commit(c.Request.Context(), userID, &request)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	utils.CreatedResponse(c, "Order placed successfully", order)
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		utils.NotFoundResponse(c, "Order")
		return
	}

	utils.SuccessResponse(c, "Order retrieved successfully", order)
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), userID, params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Orders retrieved successfully", orders, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// respondCheckoutError maps the checkout sentinels onto HTTP statuses.
func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidCart):
		utils.BadRequestResponse(c, utils.ErrCartEmpty)
	case errors.Is(err, checkout.ErrInvalidRedemption):
		utils.UnprocessableResponse(c, "INVALID_REDEMPTION", err.Error())
	case errors.Is(err, checkout.ErrStaleInstrument):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrDuplicateCheckout):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrPaymentFailed):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_FAILED", utils.ErrPaymentFailed)
	default:
		utils.InternalServerErrorResponse(c)
	}
}
