package handlers

import (
	"net/http"

	"ecocreds/internal/models"
	"ecocreds/internal/services"
	"ecocreds/internal/utils"
	"ecocreds/internal/validators"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var (
		products []*models.Product
		total    int64
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, total, err = h.catalogService.ListByCategory(c.Request.Context(), category, params)
	} else {
		products, total, err = h.catalogService.ListProducts(c.Request.Context(), params)
	}
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Products retrieved successfully", products, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		utils.NotFoundResponse(c, "Product")
		return
	}

	utils.SuccessResponse(c, "Product retrieved successfully", product)
}

// CreateProduct is admin-only.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&product); len(errs) > 0 {
		details := make(map[string]string)
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	if err := h.catalogService.CreateProduct(c.Request.Context(), &product); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PRODUCT_CREATE_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Product created successfully", product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	productID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), productID, updates)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PRODUCT_UPDATE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Product updated successfully", product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	productID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), productID); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PRODUCT_DELETE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Product deleted successfully", nil)
}
