package themes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ONSdigital/survey-assist-themes/pkg/storage"
)

const (
	outputFolder = "output"
	contentType  = "application/json"

	// DefaultKeyPrefix names result objects when no prefix is configured.
	DefaultKeyPrefix = "themefinder_output"
)

// Writer persists serialized results to the output container under
// timestamped keys.
type Writer struct {
	storage storage.System
	prefix  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewWriter creates a writer targeting the given storage system. An empty
// prefix falls back to DefaultKeyPrefix.
func NewWriter(store storage.System, prefix string, logger *slog.Logger) *Writer {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Writer{
		storage: store,
		prefix:  prefix,
		logger:  logger.With("system", "results"),
		now:     time.Now,
	}
}

// Write encodes the document as pretty-printed UTF-8 JSON and uploads it in
// a single overwrite-or-create operation, returning the object key. The key
// timestamp is taken before the upload starts. Returns
// storage.ErrContainerNotFound when the output container does not exist;
// a failed upload leaves the destination in whatever state the backend's
// write atomicity provides.
func (w *Writer) Write(ctx context.Context, doc *Object) (string, error) {
	body, err := Encode(doc)
	if err != nil {
		return "", fmt.Errorf("encode result document: %w", err)
	}

	key := outputFolder + "/" + OutputKey(w.prefix, w.now())

	if err := w.storage.Upload(ctx, key, bytes.NewReader(body), contentType); err != nil {
		return "", err
	}

	w.logger.InfoContext(
		ctx, "result written",
		"key", key,
		"bytes", len(body),
		"stages", doc.Len(),
	)

	return key, nil
}

// OutputKey builds a result object name from a prefix and a wall-clock
// instant: <prefix>_<UTC yyyymmdd_hhmmss>.json.
func OutputKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.json", prefix, now.UTC().Format("20060102_150405"))
}

// Encode renders a document as two-space-indented JSON with HTML escaping
// disabled, so non-ASCII text survives untouched. Output ends with a newline.
func Encode(doc *Object) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
