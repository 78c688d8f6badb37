package model

import (
	"fmt"
	"time"
)

// TimestampLayout matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a UTC instant with millisecond precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to milliseconds and converts it to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (ts Timestamp) String() string {
	return ts.UTC().Format(TimestampLayout)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", s)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*ts = NewTimestamp(parsed)
	return nil
}
