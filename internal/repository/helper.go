package repository

import (
	"fmt"
	"time"
)

// timeLayouts are the forms a stored date or timestamp can come back in.
// The SQLite driver may hand DATE columns back as RFC3339 timestamps.
var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTime parses a date string in "2006-01-02", RFC3339 or SQLite timestamp format.
func ParseTime(str string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var returnTime time.Time
		if returnTime, err = time.Parse(layout, str); err == nil {
			return returnTime.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
}

// normalizeDate converts a stored date into the ledger's YYYY-MM-DD form.
func normalizeDate(str string) (string, error) {
	t, err := ParseTime(str)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
