package models

import (
	"bytes"
	"fmt"
	"time"
)

// DateTimeLayout is the wire format of every timestamp in the API
// (yyyy-MM-dd'T'HH:mm:ssZ, e.g. 2019-05-04T18:23:05+0000).
const DateTimeLayout = "2006-01-02T15:04:05-0700"

// DateTime is a timestamp that serializes with DateTimeLayout in UTC.
// The zero value serializes as null.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t, truncated to whole seconds.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC().Truncate(time.Second)}
}

// String formats the timestamp with DateTimeLayout.
func (d DateTime) String() string {
	return d.UTC().Format(DateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	s := string(data[1 : len(data)-1])

	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		// Accept RFC 3339 from clients that do not know the custom layout
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	d.Time = t.UTC()
	return nil
}
