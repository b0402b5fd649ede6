package homework

import "time"

// DefaultLookback is how far back each poll window reaches.
const DefaultLookback = 30 * 24 * time.Hour

// WindowStart returns the from_date for a poll made at now.
// The window is recomputed on every cycle rather than carried over.
func WindowStart(now time.Time, lookback time.Duration) int64 {
	if lookback < 0 {
		lookback = 0
	}
	return now.Add(-lookback).Unix()
}
