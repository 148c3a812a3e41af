package handlers

import (
	"net/http"

	"ecocreds/internal/services"
	"ecocreds/internal/utils"
	"ecocreds/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required" validate:"required,object_id"`
	Quantity  int64  `json:"quantity" binding:"required,gte=1"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Cart retrieved successfully", cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request cartItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		details := make(map[string]string)
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, productID, request.Quantity)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "CART_ADD_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	productID, ok := pathObjectID(c, "product_id")
	if !ok {
		return
	}

	var request struct {
		Quantity int64 `json:"quantity" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, request.Quantity)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "CART_UPDATE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Cart updated successfully", cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	productID, ok := pathObjectID(c, "product_id")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Item removed from cart", cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Cart cleared successfully", nil)
}
