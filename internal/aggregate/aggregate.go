// Package aggregate joins the keyword frequency table with final sentiment
// labels into the per-keyword and population-level breakdowns. Everything
// here is a pure function of its inputs; re-running on the same tables
// yields identical output.
package aggregate

import (
	"math"
	"sort"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

// SummarizeSentiment sums counts by (keyword, sentiment) and computes each
// row's percentage within the keyword's total, rounded to two decimals.
// Frequency rows whose keyword drifted across categories are summed together;
// the keyword's sentiment is the same either way.
func SummarizeSentiment(frequencies []models.KeywordFrequency, sentiments []models.SentimentRecord) []models.SentimentSummary {
	labels := make(map[string]models.Sentiment, len(sentiments))
	for _, record := range sentiments {
		labels[record.Keyword] = record.Sentiment
	}

	type key struct {
		keyword   string
		sentiment models.Sentiment
	}
	counts := make(map[key]int)
	totals := make(map[string]int)

	for _, row := range frequencies {
		sentiment, ok := labels[row.Keyword]
		if !ok {
			continue
		}
		counts[key{keyword: row.Keyword, sentiment: sentiment}] += row.Count
		totals[row.Keyword] += row.Count
	}

	summary := make([]models.SentimentSummary, 0, len(counts))
	for k, count := range counts {
		summary = append(summary, models.SentimentSummary{
			Keyword:    k.keyword,
			Sentiment:  k.sentiment,
			Count:      count,
			Percentage: round2(100 * float64(count) / float64(totals[k.keyword])),
		})
	}

	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Keyword != summary[j].Keyword {
			return summary[i].Keyword < summary[j].Keyword
		}
		return summary[i].Sentiment < summary[j].Sentiment
	})
	return summary
}

// OverallDistribution sums per-keyword percentages by sentiment label for
// population-level reporting, ordered positive, negative, neutral.
func OverallDistribution(summary []models.SentimentSummary) []models.SentimentShare {
	totals := make(map[models.Sentiment]float64, 3)
	for _, row := range summary {
		totals[row.Sentiment] += row.Percentage
	}

	var shares []models.SentimentShare
	for _, sentiment := range []models.Sentiment{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral} {
		if total, ok := totals[sentiment]; ok {
			shares = append(shares, models.SentimentShare{
				Sentiment:  sentiment,
				Percentage: round2(total),
			})
		}
	}
	return shares
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
