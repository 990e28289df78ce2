package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/services"
)

func CreateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		listingID, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var in services.ReviewInput
		if !bindJSON(c, &in) {
			return
		}

		review, err := rs.CreateReview(c.Request.Context(), listingID, in, claims.UserID)
		if err != nil {
			respondError(c, err, "Failed to create review")
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(review, "New review created"))
	}
}

func DeleteReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		listingID, ok := objectIDParam(c, "id")
		if !ok {
			return
		}
		reviewID, ok := objectIDParam(c, "reviewId")
		if !ok {
			return
		}

		if err := rs.DeleteReview(c.Request.Context(), listingID, reviewID, claims); err != nil {
			respondError(c, err, "Failed to delete review")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Review deleted"))
	}
}
