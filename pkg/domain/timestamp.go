package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Timestamp is a server instant. It accepts ISO strings with or without an
// offset and epoch milliseconds, and remembers the exact text it was read from
// so it can be echoed back to the server verbatim.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp reads s using the layouts the back ends emit.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, raw: s}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parse timestamp %q: unknown layout", s)
}

// String returns the text the timestamp was decoded from, or RFC 3339 when it
// was built locally.
func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	return t.Time.Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() && t.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		*t = Timestamp{}
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("parse timestamp %s: %w", data, err)
		}
		*t = Timestamp{Time: time.UnixMilli(ms).UTC(), raw: string(data)}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
