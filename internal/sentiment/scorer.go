package sentiment

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

var modelLabelMap = map[string]models.Sentiment{
	"positive": models.SentimentPositive,
	"negative": models.SentimentNegative,
	"neutral":  models.SentimentNeutral,
}

// ScoreKeywords produces one SentimentRecord per keyword in the universe.
// The override policy chain runs first; keywords no policy claims get the
// classifier's mapped label. Labels the model vocabulary doesn't cover fall
// back to neutral so the refinement pass gets a second look at them.
func ScoreKeywords(universe []string, classifier Classifier, policies []OverridePolicy, categories map[string]models.Category) ([]models.SentimentRecord, error) {
	if len(universe) == 0 {
		return nil, nil
	}

	predictions, err := classifier.Classify(universe)
	if err != nil {
		return nil, fmt.Errorf("[SentimentScorer] base classification failed: %w", err)
	}
	if len(predictions) != len(universe) {
		return nil, fmt.Errorf("[SentimentScorer] prediction count mismatch: %d predictions for %d keywords",
			len(predictions), len(universe))
	}

	records := make([]models.SentimentRecord, 0, len(universe))
	overridden := 0
	for i, keyword := range universe {
		label, forced := applyPolicies(policies, keyword)
		if forced {
			overridden++
		} else {
			var ok bool
			label, ok = modelLabelMap[strings.ToLower(predictions[i].Label)]
			if !ok {
				label = models.SentimentNeutral
			}
		}

		category, ok := categories[keyword]
		if !ok {
			category = models.CategoryOther
		}

		records = append(records, models.SentimentRecord{
			Keyword:    keyword,
			Sentiment:  label,
			Confidence: round3(predictions[i].Score),
			Category:   category,
		})
	}

	slog.Info("[SentimentScorer] Base scoring finished",
		slog.Int("keywords", len(universe)),
		slog.Int("overridden", overridden))
	return records, nil
}

func applyPolicies(policies []OverridePolicy, keyword string) (models.Sentiment, bool) {
	for _, policy := range policies {
		if verdict, ok := policy.Apply(keyword); ok {
			return verdict, true
		}
	}
	return "", false
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
