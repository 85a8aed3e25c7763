package usecase

import (
	"strings"

	"synomind-gateway/internal/domain/model"
)

// Keyword lists are ordered: visual indicators are checked before
// complex-reasoning indicators, first match wins.
var (
	visualKeywords = []string{
		"image", "picture", "photo", "see", "camera",
		"look at", "analyze this", "what is in", "scan",
	}
	complexKeywords = []string{
		"explain", "analyze", "compare", "evaluate", "critique",
		"why is", "how would", "what if", "implications", "synthesize",
	}
)

// Classify buckets request text into a task category. Deterministic,
// pure, case-insensitive substring matching; no match yields general.
func Classify(text string) model.TaskCategory {
	lower := strings.ToLower(text)

	for _, kw := range visualKeywords {
		if strings.Contains(lower, kw) {
			return model.CategoryVisual
		}
	}
	for _, kw := range complexKeywords {
		if strings.Contains(lower, kw) {
			return model.CategoryComplex
		}
	}
	return model.CategoryGeneral
}
