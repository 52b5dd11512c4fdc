package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

const analyzableAnswer = "협업에 대한 의지는 있었지만 실행으로 이어지는 경우가 많지 않았던 것 같습니다"

func runnerTable() models.Table {
	return models.Table{
		Columns: []string{"ID", "Q1"},
		Rows: []map[string]string{
			{"ID": "대상자1", "Q1": analyzableAnswer},
			{"ID": "대상자2", "Q1": analyzableAnswer},
			{"ID": "대상자3", "Q1": "없음"},
		},
	}
}

func TestAnalyzeAllReportsFailedSubject(t *testing.T) {
	base := scriptedCompleter(t, map[string]string{"협업": "1", "소통 부족": "0"})
	var failNext bool
	completer := completerFunc(func(ctx context.Context, system, user string) (string, error) {
		if failNext && strings.Contains(user, "핵심 키워드 3~5개") {
			return "", errors.New("connection refused")
		}
		return base(ctx, system, user)
	})

	p := New(completer, allNeutralClassifier(), nil)

	var sunk []models.AnalysisResult
	sink := func(result models.AnalysisResult) error {
		sunk = append(sunk, result)
		// Simulate the first subject's service outage for the second one.
		failNext = true
		return nil
	}

	results, err := p.AnalyzeAll(context.Background(), runnerTable(), "ID", []string{"Q1"}, sink)
	require.NoError(t, err)

	// 대상자1 succeeds, 대상자2 fails, 대상자3 is a no-op completion. All
	// three must appear in the output and reach the sink.
	require.Len(t, results, 3)
	assert.Equal(t, "대상자1", results[0].SubjectID)
	assert.Equal(t, string(StateDone), results[0].State)

	assert.Equal(t, "대상자2", results[1].SubjectID)
	assert.Equal(t, string(StateFailed), results[1].State)
	assert.True(t, results[1].Empty())
	require.NotEmpty(t, results[1].Degradations)
	assert.Contains(t, results[1].Degradations[0], "analysis failed")

	assert.Equal(t, "대상자3", results[2].SubjectID)
	assert.Equal(t, string(StateDone), results[2].State)
	assert.True(t, results[2].Empty())
	assert.Empty(t, results[2].Degradations)

	for _, result := range results {
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, results[0].RunID, result.RunID)
	}
	assert.Len(t, sunk, 3)
	assert.Equal(t, string(StateFailed), sunk[1].State)
}

func TestAnalyzeAllAbortsBetweenSubjects(t *testing.T) {
	completer := scriptedCompleter(t, map[string]string{"협업": "1", "소통 부족": "0"})
	p := New(completer, allNeutralClassifier(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	sink := func(models.AnalysisResult) error {
		cancel()
		return nil
	}

	results, err := p.AnalyzeAll(ctx, runnerTable(), "ID", []string{"Q1"}, sink)
	assert.Error(t, err)
	assert.Len(t, results, 1, "abort applies between respondents, not mid-run")
}

// Stage fractions are rescaled into each respondent's share, so the single
// progress stream never falls back between respondents.
func TestAnalyzeAllProgressMonotonicAcrossSubjects(t *testing.T) {
	completer := scriptedCompleter(t, map[string]string{"협업": "1", "소통 부족": "0"})

	var fractions []float64
	p := New(completer, allNeutralClassifier(), func(fraction float64, _ string) {
		fractions = append(fractions, fraction)
	})

	_, err := p.AnalyzeAll(context.Background(), runnerTable(), "ID", []string{"Q1"}, nil)
	require.NoError(t, err)

	require.NotEmpty(t, fractions)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1], "progress must be monotonic across the batch")
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}
