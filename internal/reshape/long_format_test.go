package reshape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

const longAnswer = "팀원들과의 소통이 부족했고 책임감도 낮았으며 프로젝트 일정 관리가 전반적으로 아쉬웠습니다"

func TestToLongFormatFiltersUnanalyzableResponses(t *testing.T) {
	table := models.Table{
		Columns: []string{"ID", "Q1", "Q2"},
		Rows: []map[string]string{
			{"ID": "대상자1", "Q1": longAnswer, "Q2": "-"},
			{"ID": "대상자2", "Q1": "없음", "Q2": "   "},
			{"ID": "대상자3", "Q1": "해당 없음", "Q2": "x"},
			{"ID": "대상자4", "Q1": "짧은 응답", "Q2": "X"},
			{"ID": "대상자5", "Q1": "없습니다.", "Q2": longAnswer},
		},
	}

	units := ToLongFormat(table, "ID", []string{"Q1", "Q2"})
	require.Len(t, units, 2)

	for _, unit := range units {
		assert.NotEmpty(t, unit.Text)
		assert.GreaterOrEqual(t, len(strings.Fields(unit.Text)), 10)
	}
}

func TestToLongFormatSortsByEmbeddedInteger(t *testing.T) {
	table := models.Table{
		Columns: []string{"ID", "B질문", "A질문"},
		Rows: []map[string]string{
			{"ID": "대상자10", "B질문": longAnswer, "A질문": longAnswer},
			{"ID": "대상자2", "B질문": longAnswer},
			{"ID": "대상자1", "A질문": longAnswer},
		},
	}

	units := ToLongFormat(table, "ID", []string{"B질문", "A질문"})
	require.Len(t, units, 4)

	assert.Equal(t, "대상자1", units[0].SubjectID)
	assert.Equal(t, "대상자2", units[1].SubjectID)
	// Numeric ordering, not lexicographic: 10 comes after 2.
	assert.Equal(t, "대상자10", units[2].SubjectID)
	assert.Equal(t, "대상자10", units[3].SubjectID)
	// Question name breaks ties within one respondent.
	assert.Equal(t, "A질문", units[2].Question)
	assert.Equal(t, "B질문", units[3].Question)
}

func TestToLongFormatSortsLexicographicallyWithoutDigits(t *testing.T) {
	table := models.Table{
		Columns: []string{"ID", "Q1"},
		Rows: []map[string]string{
			{"ID": "나", "Q1": longAnswer},
			{"ID": "가", "Q1": longAnswer},
		},
	}

	units := ToLongFormat(table, "ID", []string{"Q1"})
	require.Len(t, units, 2)
	assert.Equal(t, "가", units[0].SubjectID)
	assert.Equal(t, "나", units[1].SubjectID)
}

func TestToLongFormatEmptyOutputIsValid(t *testing.T) {
	table := models.Table{
		Columns: []string{"ID", "Q1"},
		Rows: []map[string]string{
			{"ID": "대상자1", "Q1": "없음"},
		},
	}

	units := ToLongFormat(table, "ID", []string{"Q1"})
	assert.Empty(t, units)
}

func TestToLongFormatIsReproducible(t *testing.T) {
	table := models.Table{
		Columns: []string{"ID", "Q1", "Q2"},
		Rows: []map[string]string{
			{"ID": "대상자3", "Q1": longAnswer, "Q2": longAnswer},
			{"ID": "대상자1", "Q1": longAnswer},
		},
	}

	first := ToLongFormat(table, "ID", []string{"Q1", "Q2"})
	second := ToLongFormat(table, "ID", []string{"Q1", "Q2"})
	assert.Equal(t, first, second)
}
