package util

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

// Datetime related utility functions. All parsing and bucketing is UTC
// based; uploaded marketing exports carry dates, not instants.
const (
	DATETIME_FORMAT_YYYYMMDD_HYPHEN string = "2006-01-02"
	DATETIME_FORMAT_YYYYMMDD        string = "20060102"
	DATETIME_FORMAT_DDMMYYYY_SLASH  string = "02/01/2006"
)

// TimeNowZ returns current time in UTC. Should be used everywhere to
// avoid local timezone.
func TimeNowZ() time.Time {
	return time.Now().UTC()
}

var dateParseConfig = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: []string{
		DATETIME_FORMAT_YYYYMMDD_HYPHEN,
		DATETIME_FORMAT_YYYYMMDD,
		DATETIME_FORMAT_DDMMYYYY_SLASH,
		time.RFC3339,
		"2006-01-02 15:04:05",
	},
}

// ParseDate parses a loosely typed cell value into a UTC time. Accepts
// time.Time, unix seconds and the date layouts marketing exports use.
func ParseDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case string:
		t, err := dateParseConfig.Parse(v)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "unparseable date %q", v)
		}
		return t.UTC(), nil
	default:
		s, ok := GetValueAsString(value)
		if !ok {
			return time.Time{}, errors.New("empty date value")
		}
		t, err := dateParseConfig.Parse(s)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "unparseable date %q", s)
		}
		return t.UTC(), nil
	}
}

// BeginningOfDayZ truncates t to the start of its UTC day.
func BeginningOfDayZ(t time.Time) time.Time {
	return now.With(t.UTC()).BeginningOfDay()
}

// BeginningOfWeekZ truncates t to the start of its UTC week.
func BeginningOfWeekZ(t time.Time) time.Time {
	return now.With(t.UTC()).BeginningOfWeek()
}

// BeginningOfMonthZ truncates t to the start of its UTC month.
func BeginningOfMonthZ(t time.Time) time.Time {
	return now.With(t.UTC()).BeginningOfMonth()
}
