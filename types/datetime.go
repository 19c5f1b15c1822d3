package types

import (
	"encoding/json"
	"time"

	"github.com/relvacode/iso8601"
)

// DateTime wraps a time.Time struct, allowing for improved dateTime JSON compatibility.
type DateTime struct {
	time.Time
}

// NewDateTime Creates a new DateTime struct, embedding a time.Time struct.
func NewDateTime(time time.Time) *DateTime {
	return &DateTime{Time: time}
}

func Now() *DateTime {
	return &DateTime{Time: time.Now().UTC()}
}

func (dt *DateTime) UnmarshalJSON(input []byte) error {
	var raw string
	if err := json.Unmarshal(input, &raw); err != nil {
		return err
	}
	// stations in the field send a variety of ISO 8601 shapes
	parsed, err := iso8601.ParseString(raw)
	if err != nil {
		return err
	}
	dt.Time = parsed
	return nil
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(dt.Time.UTC().Format(time.RFC3339))
}

func (dt *DateTime) Before(other *DateTime) bool {
	return dt.Time.Before(other.Time)
}

func (dt *DateTime) After(other *DateTime) bool {
	return dt.Time.After(other.Time)
}
