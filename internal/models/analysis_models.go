package models

// AnalysisResult bundles everything produced for one respondent. It has no
// lifecycle of its own; persisting or rendering it is the consumer's problem.
type AnalysisResult struct {
	RunID     string `json:"run_id"`
	SubjectID string `json:"subject_id"`

	// State is the terminal pipeline state for this respondent. A failed
	// respondent still produces a bundle so batch output stays complete.
	State string `json:"state"`

	Frequencies      []KeywordFrequency `json:"frequencies"`
	Sentiments       []SentimentRecord  `json:"sentiments"`
	SentimentSummary []SentimentSummary `json:"sentiment_summary"`
	OverallSentiment []SentimentShare   `json:"overall_sentiment"`
	SummaryText      string             `json:"summary_text"`

	// Degradations lists every stage-local failure that was swallowed during
	// the run, so a partial result can be read as partial.
	Degradations []string `json:"degradations,omitempty"`
}

// Empty reports whether the analysis produced nothing, e.g. because the
// respondent had no analyzable text.
func (r AnalysisResult) Empty() bool {
	return len(r.Frequencies) == 0 && len(r.Sentiments) == 0 && r.SummaryText == ""
}
