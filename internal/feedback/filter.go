package feedback

import "strings"

// FilterRows returns the rows carrying usable free text in the given column.
// A row is dropped iff the cell is absent, blank after trimming, or the
// case-insensitive literal "nan" (an upstream export artifact for missing
// values). Survivor order matches input order; the input slice is not mutated.
func FilterRows(rows []RawRow, textColumn string) []RawRow {
	kept := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		if HasFeedback(row, textColumn) {
			kept = append(kept, row)
		}
	}
	return kept
}

// HasFeedback reports whether a row's cell in the given column holds
// usable free text.
func HasFeedback(row RawRow, column string) bool {
	value, ok := row[column]
	if !ok {
		return false
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return false
	}

	return true
}
