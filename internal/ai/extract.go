package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoStructuredData means the reply held no balanced {...} or [...] span.
var ErrNoStructuredData = errors.New("no structured data in model reply")

// ExtractObject decodes the first balanced JSON object found in raw into v.
// Models like to wrap their JSON in prose or markdown fences; anything
// outside the span is ignored.
func ExtractObject(raw string, v any) error {
	return extract(raw, '{', '}', v)
}

// ExtractArray is ExtractObject for a top-level JSON array.
func ExtractArray(raw string, v any) error {
	return extract(raw, '[', ']', v)
}

func extract(raw string, open, close byte, v any) error {
	span, ok := balancedSpan(raw, open, close)
	if !ok {
		return ErrNoStructuredData
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("malformed structured data: %w", err)
	}
	return nil
}

// balancedSpan returns the text from the first open bracket to its matching
// close bracket. Brackets inside string literals do not count.
func balancedSpan(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
