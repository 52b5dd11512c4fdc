package models

// Table is an already-loaded wide survey table: one row per respondent,
// one column per question or metadata field. Loading it from disk is the
// caller's job.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Subjects returns the distinct identifier values in row order.
func (t Table) Subjects(idColumn string) []string {
	seen := make(map[string]struct{}, len(t.Rows))
	var subjects []string
	for _, row := range t.Rows {
		id := row[idColumn]
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		subjects = append(subjects, id)
	}
	return subjects
}

// FilterBySubject returns a table containing only the rows for one respondent.
func (t Table) FilterBySubject(idColumn, subject string) Table {
	filtered := Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if row[idColumn] == subject {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}

// ResponseUnit is one retained (respondent, question, answer) triple after
// filtering. Text is non-empty and holds at least ten whitespace tokens.
type ResponseUnit struct {
	SubjectID string `json:"subject_id"`
	Question  string `json:"question"`
	Text      string `json:"text"`
}
