package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/wanderlust/internal/ai"
	"github.com/joshua-takyi/wanderlust/internal/cache"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
)

const (
	ConfidenceLow      = "low"
	defaultNightlyRate = 100.0
	trendsCachePrefix  = "pricing_trends"
	trendsCacheTTL     = 6 * time.Hour
)

type PriceInput struct {
	Location     string   `json:"location" validate:"required"`
	Country      string   `json:"country" validate:"required"`
	PropertyType string   `json:"propertyType"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Amenities    []string `json:"amenities"`
	CurrentPrice float64  `json:"currentPrice" validate:"gte=0"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SeasonAdjustment struct {
	Months     []string `json:"months"`
	Multiplier float64  `json:"multiplier"`
}

type SeasonalAdjustments struct {
	PeakSeason SeasonAdjustment `json:"peak_season"`
	OffSeason  SeasonAdjustment `json:"off_season"`
}

type PricePrediction struct {
	SuggestedPrice      float64             `json:"suggested_price"`
	PriceRange          PriceRange          `json:"price_range"`
	Confidence          string              `json:"confidence"`
	Reasoning           string              `json:"reasoning"`
	SeasonalAdjustments SeasonalAdjustments `json:"seasonal_adjustments"`
	CompetitiveAnalysis string              `json:"competitive_analysis"`
	Recommendations     []string            `json:"recommendations"`
}

type AveragePrices struct {
	Budget   float64 `json:"budget"`
	MidRange float64 `json:"mid_range"`
	Luxury   float64 `json:"luxury"`
}

type PricingTrends struct {
	AveragePrices    AveragePrices `json:"average_prices"`
	SeasonalTrends   string        `json:"seasonal_trends"`
	PremiumAmenities []string      `json:"premium_amenities"`
	MarketOutlook    string        `json:"market_outlook"`
	KeyInsights      []string      `json:"key_insights"`
}

type DynamicPricingInput struct {
	CurrentPrice     float64 `json:"currentPrice" validate:"required,gt=0"`
	Location         string  `json:"location" validate:"required"`
	OccupancyRate    float64 `json:"occupancyRate" validate:"gte=0,lte=100"`
	UpcomingBookings int     `json:"upcomingBookings" validate:"gte=0"`
	SeasonalDemand   string  `json:"seasonalDemand" validate:"omitempty,oneof=low medium high"`
}

type DynamicPricing struct {
	Action           string  `json:"action"`
	Adjustment       float64 `json:"adjustment"`
	RecommendedPrice float64 `json:"recommended_price"`
	Duration         string  `json:"duration"`
	Reasoning        string  `json:"reasoning"`
	Urgency          string  `json:"urgency"`
}

// FallbackPrice is the answer when the model cannot price the listing: the
// current price (or a default rate) with a ±20% band and low confidence.
func FallbackPrice(currentPrice float64) *PricePrediction {
	base := currentPrice
	if base <= 0 {
		base = defaultNightlyRate
	}
	return &PricePrediction{
		SuggestedPrice: base,
		PriceRange:     PriceRange{Min: base * 0.8, Max: base * 1.2},
		Confidence:     ConfidenceLow,
		Reasoning:      "Basic estimate based on the current price; detailed analysis is unavailable.",
		SeasonalAdjustments: SeasonalAdjustments{
			PeakSeason: SeasonAdjustment{Months: []string{"Jun", "Jul", "Aug"}, Multiplier: 1.3},
			OffSeason:  SeasonAdjustment{Months: []string{"Jan", "Feb", "Nov"}, Multiplier: 0.8},
		},
		CompetitiveAnalysis: "Unable to perform detailed analysis",
		Recommendations:     []string{"Set competitive pricing", "Monitor market trends"},
	}
}

func FallbackDynamicPricing(currentPrice float64) *DynamicPricing {
	return &DynamicPricing{
		Action:           "maintain",
		Adjustment:       0,
		RecommendedPrice: currentPrice,
		Duration:         "Current period",
		Reasoning:        "Insufficient data for recommendation",
		Urgency:          "low",
	}
}

type PricingService struct {
	delegate ai.Delegate
	cache    cache.Cache
}

// NewPricingService accepts a nil cache; trends are then computed on every
// request.
func NewPricingService(delegate ai.Delegate, c cache.Cache) *PricingService {
	return &PricingService{
		delegate: delegate,
		cache:    c,
	}
}

func (ps *PricingService) completeJSON(ctx context.Context, task ai.Task, prompt string, v any) error {
	reply, err := ps.delegate.Complete(ctx, ai.Prompt(task, prompt))
	if err != nil {
		return err
	}
	return ai.ExtractObject(reply, v)
}

// PredictPrice only fails on invalid input; model failures and nonsense
// answers produce FallbackPrice.
func (ps *PricingService) PredictPrice(ctx context.Context, in PriceInput) (*PricePrediction, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	in.Amenities = helpers.RemoveDuplicates(in.Amenities)

	var out PricePrediction
	err := ps.completeJSON(ctx, ai.TaskPricePrediction, pricePredictionPrompt(in), &out)
	if err == nil && out.SuggestedPrice <= 0 {
		err = fmt.Errorf("suggested price %v is not positive", out.SuggestedPrice)
	}
	if err != nil {
		slog.Warn("price prediction fell back", "location", in.Location, "error", err)
		return FallbackPrice(in.CurrentPrice), nil
	}

	if out.PriceRange.Min <= 0 || out.PriceRange.Max < out.PriceRange.Min {
		out.PriceRange = PriceRange{Min: out.SuggestedPrice * 0.8, Max: out.SuggestedPrice * 1.2}
	}
	out.Confidence = strings.ToLower(strings.TrimSpace(out.Confidence))
	if out.Confidence == "" {
		out.Confidence = ConfidenceLow
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return &out, nil
}

// PricingTrends returns nil trends when the model fails. Successful answers
// are cached per location for six hours.
func (ps *PricingService) PricingTrends(ctx context.Context, location, country string) (*PricingTrends, error) {
	location = strings.TrimSpace(location)
	country = strings.TrimSpace(country)
	var msgs []string
	if location == "" {
		msgs = append(msgs, "location is required")
	}
	if country == "" {
		msgs = append(msgs, "country is required")
	}
	if len(msgs) > 0 {
		return nil, invalid(msgs...)
	}

	key := cache.Key(trendsCachePrefix, map[string]string{"location": location, "country": country})
	if ps.cache != nil {
		var cached PricingTrends
		found, err := ps.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("pricing trends cache read failed", "key", key, "error", err)
		} else if found {
			return &cached, nil
		}
	}

	var out PricingTrends
	if err := ps.completeJSON(ctx, ai.TaskPricingTrends, pricingTrendsPrompt(location, country), &out); err != nil {
		slog.Warn("pricing trends unavailable", "location", location, "error", err)
		return nil, nil
	}

	if ps.cache != nil {
		if err := ps.cache.Set(ctx, key, out, trendsCacheTTL); err != nil {
			slog.Warn("pricing trends cache write failed", "key", key, "error", err)
		}
	}
	return &out, nil
}

func (ps *PricingService) DynamicPricing(ctx context.Context, in DynamicPricingInput) (*DynamicPricing, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.SeasonalDemand == "" {
		in.SeasonalDemand = "medium"
	}

	var out DynamicPricing
	err := ps.completeJSON(ctx, ai.TaskDynamicPricing, dynamicPricingPrompt(in), &out)
	if err == nil {
		out.Action = strings.ToLower(strings.TrimSpace(out.Action))
		switch out.Action {
		case "increase", "decrease", "maintain":
		default:
			err = fmt.Errorf("unknown pricing action %q", out.Action)
		}
	}
	if err != nil {
		slog.Warn("dynamic pricing fell back", "location", in.Location, "error", err)
		return FallbackDynamicPricing(in.CurrentPrice), nil
	}
	if out.RecommendedPrice <= 0 {
		out.RecommendedPrice = round(in.CurrentPrice*(1+out.Adjustment/100), 2)
	}
	return &out, nil
}
