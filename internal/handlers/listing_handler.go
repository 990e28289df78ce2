package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/services"
)

const defaultPageSize = 12

func CreateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}

		var listing models.Listing
		if !bindJSON(c, &listing) {
			return
		}

		created, err := ls.CreateListing(c.Request.Context(), &listing, claims.UserID)
		if err != nil {
			respondError(c, err, "Failed to create listing")
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "New listing created"))
	}
}

func ListListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
			return
		}

		listings, total, err := ls.ListListings(c.Request.Context(), offset, limit)
		if err != nil {
			respondError(c, err, "Failed to load listings")
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(listings, offset, limit, total))
	}
}

func GetListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		listing, err := ls.GetListing(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Failed to load listing")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(listing, ""))
	}
}

func UpdateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var update models.ListingUpdate
		if !bindJSON(c, &update) {
			return
		}

		updated, err := ls.UpdateListing(c.Request.Context(), id, update, claims)
		if err != nil {
			respondError(c, err, "Failed to update listing")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Listing updated"))
	}
}

func DeleteListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		if err := ls.DeleteListing(c.Request.Context(), id, claims); err != nil {
			respondError(c, err, "Failed to delete listing")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Listing deleted"))
	}
}

func ApplyPriceSuggestion(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		prediction, err := ls.ApplyPriceSuggestion(c.Request.Context(), id, claims)
		if err != nil {
			respondError(c, err, "Failed to suggest a price")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(prediction, "Suggested price saved"))
	}
}
