package models

type Sentiment string

const (
	SentimentPositive Sentiment = "긍정"
	SentimentNegative Sentiment = "부정"
	SentimentNeutral  Sentiment = "중립"
)

// SentimentRecord is the final label for one unique keyword after the base
// classifier, the override policies, and neutral refinement have all run.
type SentimentRecord struct {
	Keyword    string    `json:"keyword"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Category   Category  `json:"category"`
}

// SentimentSummary is one derived row of the per-keyword sentiment breakdown.
// Percentage is computed within the keyword's total count.
type SentimentSummary struct {
	Keyword    string    `json:"keyword"`
	Sentiment  Sentiment `json:"sentiment"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
}

// SentimentShare is the population-level distribution entry for one label,
// summed over per-keyword percentages.
type SentimentShare struct {
	Sentiment  Sentiment `json:"sentiment"`
	Percentage float64   `json:"percentage"`
}
