package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/mealsync/api/pkg/errors"
)

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractJSON pulls a JSON object out of model output that may be
// wrapped in prose or a markdown code fence. Tries, in order: direct
// parse, fenced block, outermost brace pair.
func extractJSON(text string, out interface{}) error {
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), out); err == nil {
			return nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), out); err == nil {
			return nil
		}
	}

	return apperrors.NewBadRequest(
		"The AI service returned data in an unexpected format. " +
			"This is usually temporary. Please try your request again.",
	)
}
