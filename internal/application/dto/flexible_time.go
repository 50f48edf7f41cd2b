package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FlexibleTime decodes RFC 3339 timestamps and plain YYYY-MM-DD dates, the
// format produced by HTML date inputs. Empty strings and null decode to the
// zero time.
type FlexibleTime struct {
	time.Time
}

var flexibleTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexibleTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range flexibleTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: use RFC 3339 or YYYY-MM-DD", raw)
}

// Ptr returns nil for a nil or zero value and a pointer to the time otherwise.
func (t *FlexibleTime) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
