package feedback

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Normalizer parses raw respondent identifiers of the form PREFIX<digits>,
// optionally followed by -<digits>, into canonical integers. The suffix
// numbers sub-responses under one respondent and is discarded.
type Normalizer struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewNormalizer compiles a normalizer for the given identifier prefix.
func NewNormalizer(prefix string) *Normalizer {
	return &Normalizer{
		prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d+)(-\d+)?$`),
	}
}

// Normalize converts a raw identifier to its canonical integer form.
// Returns ErrInvalidResponseID when the trimmed input does not match the
// configured pattern.
func (n *Normalizer) Normalize(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)

	matches := n.pattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q (expected %s<digits>)", ErrInvalidResponseID, raw, n.prefix)
	}

	id, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidResponseID, raw, err)
	}

	return id, nil
}
