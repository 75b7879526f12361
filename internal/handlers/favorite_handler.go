package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// Add saves a promotion to the consumer's favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request struct {
		PromotionID string `json:"promotion_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "promotion_id required")
		return
	}

	promotionID, err := primitive.ObjectIDFromHex(request.PromotionID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid promotion_id")
		return
	}

	if err := h.favoriteService.Add(c.Request.Context(), userID, promotionID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Favorite added successfully", nil)
}

// Remove deletes a promotion from the consumer's favorites
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	promotionID, ok := objectIDParam(c, "promotion_id")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, promotionID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favorite removed successfully", nil)
}

// List returns the consumer's favorite promotions
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	favorites, total, err := h.favoriteService.List(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Favorites retrieved successfully", map[string]interface{}{
		"favorites": favorites,
	}, meta)
}
