package handlers

import (
	"errors"
	"net/http"

	"ecocreds/internal/services"
	"ecocreds/internal/utils"
	"ecocreds/internal/validators"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new customer account with its loyalty account.
func (h *AuthHandler) Register(c *gin.Context) {
	var request services.RegisterRequest
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

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusConflict, "REGISTRATION_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Account created successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", utils.ErrInvalidCredentials)
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_TOKEN", utils.ErrInvalidToken)
		return
	}

	utils.SuccessResponse(c, "Token refreshed successfully", tokens)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &request); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", utils.ErrInvalidCredentials)
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, updates)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}
