package ai

// Task fixes the token budget and temperature for one kind of request.
// Extraction-like tasks run cold, creative ones warm.
type Task struct {
	Name        string
	MaxTokens   int
	Temperature float64
}

var (
	TaskChat              = Task{Name: "chat", MaxTokens: 1024, Temperature: 0.7}
	TaskItinerary         = Task{Name: "itinerary", MaxTokens: 1024, Temperature: 0.7}
	TaskRecommendations   = Task{Name: "recommendations", MaxTokens: 1024, Temperature: 0.7}
	TaskDescription       = Task{Name: "description", MaxTokens: 500, Temperature: 0.8}
	TaskEnhance           = Task{Name: "enhance", MaxTokens: 500, Temperature: 0.8}
	TaskTitles            = Task{Name: "titles", MaxTokens: 300, Temperature: 0.9}
	TaskTranslate         = Task{Name: "translate", MaxTokens: 1000, Temperature: 0.3}
	TaskPricePrediction   = Task{Name: "price_prediction", MaxTokens: 800, Temperature: 0.5}
	TaskPricingTrends     = Task{Name: "pricing_trends", MaxTokens: 600, Temperature: 0.5}
	TaskDynamicPricing    = Task{Name: "dynamic_pricing", MaxTokens: 400, Temperature: 0.5}
	TaskAdvancedSentiment = Task{Name: "advanced_sentiment", MaxTokens: 500, Temperature: 0.3}
	TaskReviewSummary     = Task{Name: "review_summary", MaxTokens: 400, Temperature: 0.7}
	TaskTopics            = Task{Name: "topics", MaxTokens: 200, Temperature: 0.3}
)
