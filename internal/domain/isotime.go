package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// isoLayouts are the ISO 8601 forms accepted for creation timestamps,
// most specific first. Forms without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	DateLayout,
}

// ISOTime is a timestamp that decodes from either an RFC 3339 date-time or a
// plain YYYY-MM-DD date, and always encodes as RFC 3339.
type ISOTime struct {
	time.Time
}

// ParseISOTime parses s using the first accepted ISO 8601 layout that fits.
func ParseISOTime(s string) (ISOTime, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ISOTime{Time: t}, nil
		}
	}
	return ISOTime{}, fmt.Errorf("%w %q: not an ISO 8601 date or date-time", ErrInvalidDate, s)
}

// MarshalJSON implements json.Marshaler.
func (t ISOTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ISOTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := ParseISOTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
