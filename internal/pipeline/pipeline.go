// Package pipeline sequences the analysis stages for one respondent and
// reports stage-level progress.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jiyeonseo/surveypulse/internal/aggregate"
	"github.com/jiyeonseo/surveypulse/internal/keywords"
	"github.com/jiyeonseo/surveypulse/internal/models"
	"github.com/jiyeonseo/surveypulse/internal/sentiment"
	"github.com/jiyeonseo/surveypulse/internal/summary"
)

// State is the orchestrator's position in the per-respondent state machine.
// Transitions are strictly sequential and not re-entrant.
type State string

const (
	StateInit              State = "init"
	StateKeywordsExtracted State = "keywords_extracted"
	StateCategorized       State = "categorized"
	StateSentimentScored   State = "sentiment_scored"
	StateSummarized        State = "summarized"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Stage completion fractions: roughly one third per major phase.
const (
	progressKeywords  = 0.33
	progressSentiment = 0.66
	progressSummary   = 1.0
)

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProgressFunc receives discrete progress updates. Fractions are
// monotonically non-decreasing within one Run.
type ProgressFunc func(fraction float64, label string)

// Pipeline wires the shared service clients into one reusable orchestrator.
// The clients are read-only after construction, so a single Pipeline may be
// used for every respondent of a batch run.
type Pipeline struct {
	completer  Completer
	classifier sentiment.Classifier
	policies   []sentiment.OverridePolicy
	progress   ProgressFunc
}

func New(completer Completer, classifier sentiment.Classifier, progress ProgressFunc) *Pipeline {
	if progress == nil {
		progress = func(float64, string) {}
	}
	return &Pipeline{
		completer:  completer,
		classifier: classifier,
		policies:   sentiment.DefaultOverridePolicies(),
		progress:   progress,
	}
}

// Run analyzes one respondent's units and assembles the result bundle. A
// respondent with no analyzable text completes as a no-op without a single
// external call. The returned state is StateDone on success (including the
// no-op case) and StateFailed when the completion or sentiment service was
// unreachable; stage-local failures degrade instead and are listed in the
// result's Degradations.
func (p *Pipeline) Run(ctx context.Context, subjectID string, units []models.ResponseUnit) (models.AnalysisResult, State, error) {
	result := models.AnalysisResult{SubjectID: subjectID}
	report := newReporter(p.progress)
	state := StateInit

	if len(units) == 0 {
		slog.Info("[Pipeline] No analyzable text, completing as no-op",
			slog.String("subject_id", subjectID))
		report(1.0, "No analyzable text")
		return result, p.transition(subjectID, StateDone), nil
	}

	texts := make([]string, len(units))
	for i, unit := range units {
		texts[i] = unit.Text
	}

	// Phase 1: keyword extraction and categorization.
	report(0.05, "Extracting keywords")
	extraction, err := keywords.ExtractKeywords(ctx, p.completer, texts)
	if err != nil {
		return result, p.transition(subjectID, StateFailed),
			fmt.Errorf("[Pipeline] keyword extraction unreachable for %q (reached %s): %w", subjectID, state, err)
	}
	if extraction.FailedCalls > 0 {
		result.Degradations = append(result.Degradations,
			fmt.Sprintf("keyword extraction lost %d of %d batches", extraction.FailedCalls, extraction.TotalBatches))
	}
	state = p.transition(subjectID, StateKeywordsExtracted)
	report(0.20, "Keywords extracted")

	categories := keywords.CategorizeKeywords(ctx, p.completer, extraction.Universe)
	if len(extraction.Universe) > 0 && len(categories) < len(extraction.Universe) {
		result.Degradations = append(result.Degradations,
			fmt.Sprintf("%d keywords defaulted to %s", len(extraction.Universe)-len(categories), models.CategoryOther))
	}
	result.Frequencies = keywords.BuildFrequencyTable(extraction.All, categories)
	state = p.transition(subjectID, StateCategorized)
	report(progressKeywords, "Keyword analysis complete")

	// Phase 2: sentiment scoring, neutral refinement, merge.
	scored, err := sentiment.ScoreKeywords(extraction.Universe, p.classifier, p.policies, categories)
	if err != nil {
		return result, p.transition(subjectID, StateFailed),
			fmt.Errorf("[Pipeline] sentiment scoring failed for %q (reached %s): %w", subjectID, state, err)
	}
	report(0.50, "Refining neutral keywords")

	verdicts := sentiment.RefineNeutralKeywords(ctx, p.completer, scored)
	result.Sentiments = sentiment.MergeSentimentResults(scored, verdicts)
	result.SentimentSummary = aggregate.SummarizeSentiment(result.Frequencies, result.Sentiments)
	result.OverallSentiment = aggregate.OverallDistribution(result.SentimentSummary)
	state = p.transition(subjectID, StateSentimentScored)
	report(progressSentiment, "Sentiment analysis complete")

	// Phase 3: synopsis.
	synopsis, err := summary.Summarize(ctx, p.completer, texts)
	if err != nil {
		// The service already answered extraction calls this run, so a summary
		// failure is stage-local: degrade instead of failing the respondent.
		slog.Warn("[Pipeline] Summary generation failed, continuing without synopsis",
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()))
		result.Degradations = append(result.Degradations, "summary generation failed")
	} else {
		result.SummaryText = synopsis
	}
	state = p.transition(subjectID, StateSummarized)
	report(progressSummary, "Summary complete")

	state = p.transition(subjectID, StateDone)
	slog.Info("[Pipeline] Analysis complete",
		slog.String("subject_id", subjectID),
		slog.Int("keywords", len(extraction.Universe)),
		slog.Int("degradations", len(result.Degradations)))
	return result, state, nil
}

// transition records each state change so a respondent's path through the
// machine can be traced from the log stream.
func (p *Pipeline) transition(subjectID string, to State) State {
	slog.Debug("[Pipeline] State transition",
		slog.String("subject_id", subjectID),
		slog.String("state", string(to)))
	return to
}

// newReporter wraps the sink so fractions can never go backwards, whatever
// order the stages report in.
func newReporter(progress ProgressFunc) ProgressFunc {
	last := 0.0
	return func(fraction float64, label string) {
		if fraction < last {
			fraction = last
		}
		last = fraction
		progress(fraction, label)
	}
}
