package services

import (
	"fmt"
	"strings"
)

const travelAssistantPrompt = `You are the travel assistant of Wanderlust, an accommodation booking site.
Help guests pick a place to stay, plan trips and activities, and understand
their destination: local customs, safety, getting around. Keep answers
friendly, practical and short. Never invent bookings or prices you were not given.`

func listOrDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func itineraryPrompt(destination string, days int, interests []string) string {
	return fmt.Sprintf(`Plan a %d-day trip to %s.
Interests: %s.

Lay it out day by day. For each day give the main activities and sights,
one or two places to eat, how to get around, a rough budget, and one local
tip worth knowing.`, days, destination, listOrDefault(interests, "general sightseeing"))
}

func recommendationsPrompt(p TravelPreferences) string {
	return fmt.Sprintf(`Suggest 5 destinations for a traveller with these preferences:
- Budget: %s
- Travel style: %s
- Interests: %s
- Season: %s

For every destination say why it fits, the best time to go, an estimated
budget and the three things not to miss.`,
		p.Budget, p.TravelStyle, listOrDefault(p.Interests, "anything"), p.Season)
}

func descriptionPrompt(in DescriptionInput) string {
	return fmt.Sprintf(`Write the description for an accommodation listing.

Title: %s
Location: %s, %s
Nightly price: $%.2f
Amenities: %s

Use three or four short paragraphs, 150 to 200 words in total. Lead with
what makes the place and its neighbourhood special, keep the tone warm and
professional, and close with an invitation to book. Plain text only, no
headings or markdown.`,
		in.Title, in.Location, in.Country, in.Price, listOrDefault(in.Amenities, "standard amenities"))
}

func enhancePrompt(description string) string {
	return fmt.Sprintf(`Rewrite this listing description so it reads better and sells the stay:

%s

Keep every fact, make it vivid and well structured, aim for 150 to 200
words, and reply with the new description only.`, description)
}

func titlesPrompt(location, propertyType string) string {
	return fmt.Sprintf(`Suggest 5 titles for a %s listing in %s.
Each title is 5 to 8 words, names one thing that sets the place apart and
sounds inviting. Put one title per line with no numbering or quotes.`, propertyType, location)
}

func translatePrompt(text, language string) string {
	return fmt.Sprintf(`Translate this accommodation description into %s, keeping its tone
and marketing appeal. Reply with the translation only.

%s`, language, text)
}

func pricePredictionPrompt(in PriceInput) string {
	bedrooms := "not specified"
	if in.Bedrooms > 0 {
		bedrooms = fmt.Sprintf("%d", in.Bedrooms)
	}
	current := "not set"
	if in.CurrentPrice > 0 {
		current = fmt.Sprintf("$%.2f", in.CurrentPrice)
	}
	propertyType := in.PropertyType
	if propertyType == "" {
		propertyType = "standard accommodation"
	}

	return fmt.Sprintf(`You price short-term rentals. Suggest a nightly price for this property.

Location: %s, %s
Type: %s
Bedrooms: %s
Amenities: %s
Current price: %s

Weigh the location, size, amenities, seasonality and nearby competition.
Answer with JSON only, in this shape:
{
  "suggested_price": 0,
  "price_range": {"min": 0, "max": 0},
  "confidence": "high|medium|low",
  "reasoning": "",
  "seasonal_adjustments": {
    "peak_season": {"months": [], "multiplier": 1.0},
    "off_season": {"months": [], "multiplier": 1.0}
  },
  "competitive_analysis": "",
  "recommendations": []
}`, in.Location, in.Country, propertyType, bedrooms, listOrDefault(in.Amenities, "standard amenities"), current)
}

func pricingTrendsPrompt(location, country string) string {
	return fmt.Sprintf(`Describe the accommodation market in %s, %s.
Cover typical nightly rates per segment, how prices move through the year,
amenities guests pay extra for, and where the market is heading.
Answer with JSON only, in this shape:
{
  "average_prices": {"budget": 0, "mid_range": 0, "luxury": 0},
  "seasonal_trends": "",
  "premium_amenities": [],
  "market_outlook": "",
  "key_insights": []
}`, location, country)
}

func dynamicPricingPrompt(in DynamicPricingInput) string {
	return fmt.Sprintf(`A host wants to know whether to change their nightly price.

Base price: $%.2f
Location: %s
Occupancy rate: %.0f%%
Upcoming bookings: %d
Seasonal demand: %s

Decide whether to increase, decrease or keep the price, by what percentage,
for how long, and why. Answer with JSON only, in this shape:
{
  "action": "increase|decrease|maintain",
  "adjustment": 0,
  "recommended_price": 0,
  "duration": "",
  "reasoning": "",
  "urgency": "high|medium|low"
}`, in.CurrentPrice, in.Location, in.OccupancyRate, in.UpcomingBookings, in.SeasonalDemand)
}

func advancedSentimentPrompt(text string) string {
	return fmt.Sprintf(`Read this guest review and describe its sentiment.

Review: %q

Answer with JSON only, in this shape:
{
  "overall_sentiment": "positive|negative|neutral",
  "confidence": 0,
  "key_themes": [],
  "strengths": [],
  "weaknesses": [],
  "emotion": "",
  "summary": ""
}
confidence is between 0 and 100.`, text)
}

func reviewSummaryPrompt(comments []string) string {
	var b strings.Builder
	for _, c := range comments {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	return fmt.Sprintf(`These are guest reviews of one listing:

%s
Summarise them for someone deciding whether to book, in two or three short
paragraphs: what guests keep praising, what they complain about, and who
the place suits.`, b.String())
}

func topicsPrompt(comments []string) string {
	return fmt.Sprintf(`List the 5 to 7 topics guests mention most in these reviews:

%s

Answer with a JSON array of short lowercase topics only, for example
["cleanliness", "location", "host"].`, strings.Join(comments, "\n\n"))
}
