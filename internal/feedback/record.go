// Package feedback loads raw survey-feedback files from blob storage and
// normalizes them into canonical response records.
package feedback

// RawRow is one line of the source delimited file, keyed by column name.
// A missing key means the row had no cell for that column. RawRows exist
// only during a load; callers only ever see Records.
type RawRow map[string]string

// Record is a canonical survey response: a positive respondent identifier
// and a non-empty free-text answer. Duplicate ResponseID values are
// permitted; multiple sub-responses from one respondent collapse to the
// same identifier and are not deduplicated.
type Record struct {
	ResponseID int    `json:"response_id"`
	Response   string `json:"response"`
}
