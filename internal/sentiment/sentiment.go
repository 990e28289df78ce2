package sentiment

import (
	"strings"
	"unicode"
)

type Label string

const (
	VeryPositive Label = "very positive"
	Positive     Label = "positive"
	Neutral      Label = "neutral"
	Negative     Label = "negative"
	VeryNegative Label = "very negative"
)

// Result is the lexicon score of a piece of text.
type Result struct {
	Score       int      `json:"score"`
	Comparative float64  `json:"comparative"`
	Label       Label    `json:"sentiment"`
	Positive    []string `json:"positive"`
	Negative    []string `json:"negative"`
}

// LabelFor maps a score onto the five sentiment levels.
func LabelFor(score int) Label {
	switch {
	case score > 2:
		return VeryPositive
	case score > 0:
		return Positive
	case score < -2:
		return VeryNegative
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// Score rates text against the built-in word list. A negator directly in
// front of a scored word flips that word's valence.
func Score(text string) Result {
	tokens := tokenize(text)
	res := Result{
		Positive: []string{},
		Negative: []string{},
	}

	for i, tok := range tokens {
		v, ok := lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 && negators[tokens[i-1]] {
			v = -v
		}
		res.Score += v
		if v > 0 {
			res.Positive = append(res.Positive, tok)
		} else if v < 0 {
			res.Negative = append(res.Negative, tok)
		}
	}

	if len(tokens) > 0 {
		res.Comparative = float64(res.Score) / float64(len(tokens))
	}
	res.Label = LabelFor(res.Score)
	return res
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	// curly apostrophes show up in pasted reviews
	lower = strings.ReplaceAll(lower, "’", "'")
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}
