package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/wanderlust/internal/middleware"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/sentiment"
	"github.com/joshua-takyi/wanderlust/internal/services"
)

func Chat(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Message string `json:"message"`
		}
		if !bindJSON(c, &req) {
			return
		}

		sessionID := middleware.SessionID(c)
		in := services.ChatInput{
			SessionID: sessionID,
			Message:   req.Message,
			Metadata: models.ConversationMetadata{
				UserAgent: c.Request.UserAgent(),
				IPAddress: c.ClientIP(),
			},
		}
		if claims, ok := middleware.CurrentUser(c); ok {
			userID := claims.UserID
			in.UserID = &userID
		}

		reply, err := cs.Chat(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Failed to process your message. Please try again.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   reply,
			"sessionId": sessionID,
		})
	}
}

func ConversationHistory(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := cs.History(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			respondError(c, err, "Failed to retrieve history")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
	}
}

func Itinerary(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Destination string   `json:"destination"`
			Days        int      `json:"days"`
			Interests   []string `json:"interests"`
		}
		if !bindJSON(c, &req) {
			return
		}

		itinerary, err := cs.Itinerary(c.Request.Context(), req.Destination, req.Days, req.Interests)
		if err != nil {
			respondError(c, err, "Failed to generate itinerary")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "itinerary": itinerary})
	}
}

func Recommendations(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var prefs services.TravelPreferences
		if !bindJSON(c, &prefs) {
			return
		}

		recommendations, err := cs.Recommendations(c.Request.Context(), prefs)
		if err != nil {
			respondError(c, err, "Failed to generate recommendations")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": recommendations})
	}
}

func GenerateDescription(cs *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.DescriptionInput
		if !bindJSON(c, &in) {
			return
		}

		description, err := cs.GenerateDescription(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Failed to generate description")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "description": description})
	}
}

func EnhanceDescription(cs *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Description string `json:"description"`
		}
		if !bindJSON(c, &req) {
			return
		}

		description, err := cs.EnhanceDescription(c.Request.Context(), req.Description)
		if err != nil {
			respondError(c, err, "Failed to enhance description")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "description": description})
	}
}

func GenerateTitles(cs *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Location     string `json:"location"`
			PropertyType string `json:"propertyType"`
		}
		if !bindJSON(c, &req) {
			return
		}

		titles, err := cs.GenerateTitles(c.Request.Context(), req.Location, req.PropertyType)
		if err != nil {
			respondError(c, err, "Failed to generate titles")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "titles": titles})
	}
}

func TranslateDescription(cs *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Text           string `json:"text"`
			TargetLanguage string `json:"targetLanguage"`
		}
		if !bindJSON(c, &req) {
			return
		}

		translation, err := cs.TranslateDescription(c.Request.Context(), req.Text, req.TargetLanguage)
		if err != nil {
			respondError(c, err, "Failed to translate description")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "translation": translation})
	}
}

// PredictPrice answers with the fallback estimate when the model fails, so
// only bad input produces an error.
func PredictPrice(ps *services.PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.PriceInput
		if !bindJSON(c, &in) {
			return
		}

		prediction, err := ps.PredictPrice(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Failed to predict price")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "prediction": prediction})
	}
}

func PricingTrends(ps *services.PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Location string `json:"location"`
			Country  string `json:"country"`
		}
		if !bindJSON(c, &req) {
			return
		}

		trends, err := ps.PricingTrends(c.Request.Context(), req.Location, req.Country)
		if err != nil {
			respondError(c, err, "Failed to analyze trends")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "trends": trends})
	}
}

func DynamicPricing(ps *services.PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.DynamicPricingInput
		if !bindJSON(c, &in) {
			return
		}

		recommendation, err := ps.DynamicPricing(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Failed to calculate dynamic pricing")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "recommendation": recommendation})
	}
}

func AnalyzeSentiment(as *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Text     string `json:"text"`
			Advanced bool   `json:"advanced"`
		}
		if !bindJSON(c, &req) {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("text is required"))
			return
		}

		var analysis services.SentimentAnalysis
		if req.Advanced {
			analysis = as.AnalyzeAdvanced(c.Request.Context(), req.Text)
		} else {
			basic := sentiment.Score(req.Text)
			analysis = services.SentimentAnalysis{Basic: &basic}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
	}
}

func ReviewSummary(as *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Reviews []services.ReviewText `json:"reviews"`
		}
		if !bindJSON(c, &req) {
			return
		}
		if req.Reviews == nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("reviews is required"))
			return
		}

		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"summary":  as.Summarize(ctx, req.Reviews),
			"analysis": services.AnalyzeBatch(req.Reviews),
			"topics":   as.ExtractTopics(ctx, req.Reviews),
		})
	}
}
