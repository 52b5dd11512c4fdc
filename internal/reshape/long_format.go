// Package reshape converts wide survey tables into the flat long format the
// analysis stages consume, dropping responses with no analyzable content.
package reshape

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

// Responses with fewer tokens than this carry too little signal for keyword
// extraction.
const minTokenCount = 10

// Literal answers respondents use to say "nothing to report". Matched
// case-sensitively against the trimmed cell value.
var meaninglessResponses = map[string]struct{}{
	"-":      {},
	"없습니다.": {},
	"없음":     {},
	"해당 없음":  {},
	"해당없음":   {},
	"x":      {},
	"X":      {},
}

var digitPattern = regexp.MustCompile(`\d+`)

// ToLongFormat emits one ResponseUnit per retained (row, question column)
// pair in a deterministic order: when identifiers embed a number, ascending
// by that number with question name as tie-break, otherwise lexicographic by
// identifier then question name. An empty result is a valid outcome, not an
// error.
func ToLongFormat(table models.Table, idColumn string, questionColumns []string) []models.ResponseUnit {
	var units []models.ResponseUnit

	for _, row := range table.Rows {
		subject := strings.TrimSpace(row[idColumn])
		if subject == "" {
			continue
		}
		for _, question := range questionColumns {
			text := strings.TrimSpace(row[question])
			if !isAnalyzable(text) {
				continue
			}
			units = append(units, models.ResponseUnit{
				SubjectID: subject,
				Question:  question,
				Text:      text,
			})
		}
	}

	if len(units) == 0 {
		return units
	}

	if digitPattern.MatchString(units[0].SubjectID) {
		sort.SliceStable(units, func(i, j int) bool {
			a, b := firstEmbeddedInt(units[i].SubjectID), firstEmbeddedInt(units[j].SubjectID)
			if a != b {
				return a < b
			}
			return units[i].Question < units[j].Question
		})
	} else {
		sort.SliceStable(units, func(i, j int) bool {
			if units[i].SubjectID != units[j].SubjectID {
				return units[i].SubjectID < units[j].SubjectID
			}
			return units[i].Question < units[j].Question
		})
	}

	return units
}

func isAnalyzable(text string) bool {
	if text == "" {
		return false
	}
	if _, ok := meaninglessResponses[text]; ok {
		return false
	}
	return len(strings.Fields(text)) >= minTokenCount
}

func firstEmbeddedInt(s string) int {
	match := digitPattern.FindString(s)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
