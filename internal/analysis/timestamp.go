package analysis

import (
	"loopy/internal/domain"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ParseTimestamp parses an RFC 3339 timestamp with optional fractional seconds.
// The UTC marker may be written as "Z" or as an explicit offset like "+00:00";
// both yield the same instant. Text without an offset is rejected.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Wrap(domain.ErrMalformedInput, "empty timestamp")
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(domain.ErrMalformedInput, "parse timestamp %q: %v", s, err)
	}

	return t.UTC(), nil
}
