package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/joshua-takyi/wanderlust/internal/ai"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
)

const (
	defaultDescriptionPrice = 100
	titleSuggestions        = 5
)

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)

type DescriptionInput struct {
	Title     string   `json:"title" validate:"required"`
	Location  string   `json:"location" validate:"required"`
	Country   string   `json:"country" validate:"required"`
	Price     float64  `json:"price" validate:"gte=0"`
	Amenities []string `json:"amenities"`
}

// ContentService writes listing copy. None of its operations has a useful
// fallback, so delegate failures are returned to the caller.
type ContentService struct {
	delegate ai.Delegate
}

func NewContentService(delegate ai.Delegate) *ContentService {
	return &ContentService{delegate: delegate}
}

func (cs *ContentService) complete(ctx context.Context, task ai.Task, prompt string) (string, error) {
	reply, err := cs.delegate.Complete(ctx, ai.Prompt(task, prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (cs *ContentService) GenerateDescription(ctx context.Context, in DescriptionInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	if in.Price == 0 {
		in.Price = defaultDescriptionPrice
	}
	in.Amenities = helpers.RemoveDuplicates(in.Amenities)
	return cs.complete(ctx, ai.TaskDescription, descriptionPrompt(in))
}

func (cs *ContentService) EnhanceDescription(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", invalid("description is required")
	}
	return cs.complete(ctx, ai.TaskEnhance, enhancePrompt(description))
}

// GenerateTitles returns up to five titles, one per reply line.
func (cs *ContentService) GenerateTitles(ctx context.Context, location, propertyType string) ([]string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, invalid("location is required")
	}
	if propertyType == "" {
		propertyType = models.DefaultPropertyType
	}

	reply, err := cs.complete(ctx, ai.TaskTitles, titlesPrompt(location, propertyType))
	if err != nil {
		return nil, err
	}
	return parseTitles(reply), nil
}

// parseTitles strips list markers and quotes models add despite being
// asked not to.
func parseTitles(reply string) []string {
	titles := make([]string, 0, titleSuggestions)
	for _, line := range strings.Split(reply, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		titles = append(titles, line)
		if len(titles) == titleSuggestions {
			break
		}
	}
	return titles
}

func (cs *ContentService) TranslateDescription(ctx context.Context, text, language string) (string, error) {
	text = strings.TrimSpace(text)
	language = strings.TrimSpace(language)
	var msgs []string
	if text == "" {
		msgs = append(msgs, "text is required")
	}
	if language == "" {
		msgs = append(msgs, "targetLanguage is required")
	}
	if len(msgs) > 0 {
		return "", invalid(msgs...)
	}
	return cs.complete(ctx, ai.TaskTranslate, translatePrompt(text, language))
}
