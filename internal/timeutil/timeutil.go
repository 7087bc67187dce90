// Package timeutil normalizes the mixed timestamp encodings used by
// the cart and event ingestion pipelines.
package timeutil

import (
	"fmt"
	"time"
)

// Window is a [Start, End) day boundary pair in epoch milliseconds.
type Window struct {
	Start int64
	End   int64
}

// ToSeconds normalizes an epoch timestamp to seconds. Upstream event
// sources mix seconds and milliseconds inconsistently, so the value is
// first interpreted as seconds; if that lands on a plausible calendar
// date (a four-digit year) it is returned unchanged, otherwise it is
// assumed to be milliseconds and divided by 1000. Never fails.
func ToSeconds(ts int64) int64 {
	year := time.Unix(ts, 0).UTC().Year()
	if year >= 1000 && year <= 9999 {
		return ts
	}
	return ts / 1000
}

// DayWindow resolves a YYYY-MM-DD calendar date in the given timezone
// to its epoch-millisecond bounds. Both bounds are shifted forward by
// one hour; this matches the legacy ingestion boundary convention and
// must be preserved for records written under it.
func DayWindow(date, timezone string) (Window, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Window{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	midnight, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return Window{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	nextMidnight := midnight.AddDate(0, 0, 1)

	return Window{
		Start: midnight.Add(time.Hour).UnixMilli(),
		End:   nextMidnight.Add(time.Hour - time.Millisecond).UnixMilli(),
	}, nil
}
