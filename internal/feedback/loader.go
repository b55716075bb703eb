package feedback

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/ONSdigital/survey-assist-themes/pkg/storage"
)

const delimiter = '|'

// Loader fetches pipe-delimited feedback files from blob storage and emits
// canonical records.
type Loader struct {
	storage    storage.System
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewLoader creates a loader reading from the given storage system.
func NewLoader(store storage.System, normalizer *Normalizer, logger *slog.Logger) *Loader {
	return &Loader{
		storage:    store,
		normalizer: normalizer,
		logger:     logger.With("system", "feedback"),
	}
}

// Load downloads the object at key, parses it as a pipe-delimited table with
// a header row, drops rows without usable text in textColumn, and normalizes
// each surviving row's idColumn into a Record. Records come back in source
// row order.
//
// Failure modes: storage.ErrNotFound when the object is absent,
// ErrColumnMissing when either configured column is not in the header,
// ErrNoFeedback when zero rows survive filtering, and ErrInvalidResponseID
// when any surviving identifier fails normalization. There is no partial
// load; the first bad identifier fails the whole call.
func (l *Loader) Load(ctx context.Context, key, idColumn, textColumn string) ([]Record, error) {
	body, err := l.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	header, rows, err := parseTable(body)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(header, idColumn) {
		return nil, fmt.Errorf("%w: %q", ErrColumnMissing, idColumn)
	}
	if !slices.Contains(header, textColumn) {
		return nil, fmt.Errorf("%w: %q", ErrColumnMissing, textColumn)
	}

	usable := FilterRows(rows, textColumn)
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFeedback, key)
	}

	records := make([]Record, 0, len(usable))
	for i, row := range usable {
		id, err := l.normalizer.Normalize(row[idColumn])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, Record{
			ResponseID: id,
			Response:   row[textColumn],
		})
	}

	l.logger.InfoContext(
		ctx, "feedback loaded",
		"key", key,
		"rows", len(rows),
		"usable", len(records),
	)

	return records, nil
}

// parseTable reads a pipe-delimited table with a header row. Rows may carry
// fewer cells than the header; missing cells are treated as absent values.
// Cells beyond the header width are ignored.
func parseTable(r io.Reader) ([]string, []RawRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: empty file", ErrMalformedTable)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}

	var rows []RawRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
		}

		row := make(RawRow, len(header))
		for i, column := range header {
			if i < len(cells) {
				row[column] = cells[i]
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}
