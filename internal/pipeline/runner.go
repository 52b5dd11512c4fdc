package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jiyeonseo/surveypulse/internal/models"
	"github.com/jiyeonseo/surveypulse/internal/reshape"
)

// ResultSink receives each finished bundle; the consumer owns persistence and
// rendering.
type ResultSink func(models.AnalysisResult) error

// AnalyzeAll runs the pipeline for every respondent of the table, in table
// order. A respondent failing does not stop the run: the failed respondent's
// bundle is still delivered and returned, marked with the failed state and a
// degradation entry, so consumers can tell a partial run from a complete one.
// Cancellation is honored between respondents only, never mid-batch.
//
// Per-stage fractions are rescaled into the respondent's share of the run, so
// the combined progress stream stays monotonic across the whole batch.
func (p *Pipeline) AnalyzeAll(ctx context.Context, table models.Table, idColumn string, questionColumns []string, sink ResultSink) ([]models.AnalysisResult, error) {
	runID := uuid.NewString()
	subjects := table.Subjects(idColumn)
	slog.Info("[Runner] Starting analysis run",
		slog.String("run_id", runID),
		slog.Int("subjects", len(subjects)))

	var results []models.AnalysisResult
	failed := 0
	for i, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("[Runner] run aborted after %d of %d subjects: %w", i, len(subjects), err)
		}

		units := reshape.ToLongFormat(table.FilterBySubject(idColumn, subject), idColumn, questionColumns)

		base := float64(i) / float64(len(subjects))
		share := 1.0 / float64(len(subjects))
		scoped := *p
		scoped.progress = func(fraction float64, label string) {
			p.progress(base+fraction*share, label)
		}

		result, state, err := scoped.Run(ctx, subject, units)
		result.RunID = runID
		result.State = string(state)
		if err != nil {
			failed++
			result.Degradations = append(result.Degradations,
				fmt.Sprintf("analysis failed: %v", err))
			slog.Error("[Runner] Subject analysis failed, reporting partial result",
				slog.String("subject_id", subject),
				slog.String("state", string(state)),
				slog.String("error", err.Error()))
		}

		if sink != nil {
			if err := sink(result); err != nil {
				slog.Warn("[Runner] Result sink failed",
					slog.String("subject_id", subject),
					slog.String("error", err.Error()))
			}
		}
		results = append(results, result)

		p.progress(float64(i+1)/float64(len(subjects)),
			fmt.Sprintf("Analyzed %d of %d subjects", i+1, len(subjects)))
	}

	slog.Info("[Runner] Analysis run finished",
		slog.String("run_id", runID),
		slog.Int("completed", len(results)-failed),
		slog.Int("failed", failed))
	return results, nil
}
