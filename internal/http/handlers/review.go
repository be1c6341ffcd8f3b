package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/jumak-backend/internal/http/response"
	"github.com/yungbote/jumak-backend/internal/services"
)

// ReviewHandler receives review events from the review service and folds
// them into the author's flavor profile.
type ReviewHandler struct {
	taste services.TasteService
}

func NewReviewHandler(tasteService services.TasteService) *ReviewHandler {
	return &ReviewHandler{taste: tasteService}
}

// POST /api/taste/reviews
// body: { "review_id": "...", "product_id": "...", "overall": 4, "sweetness": 3.5, ... }
func (h *ReviewHandler) Incorporate(c *gin.Context) {
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.taste.IncorporateReview(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": view})
}

// DELETE /api/taste/reviews/:review_id
func (h *ReviewHandler) Remove(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("review_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid review_id: %w", err))
		return
	}
	view, err := h.taste.RemoveReview(c.Request.Context(), currentUserID(c), reviewID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": view})
}
