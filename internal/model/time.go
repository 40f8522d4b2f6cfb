package model

import "time"

// TimeLayout is the wire format for record timestamps, e.g. "22:45:01 11-01-2026".
// Timestamps are stored and served as strings in this layout.
const TimeLayout = "15:04:05 02-01-2006"

// Timestamp returns the current time formatted with TimeLayout.
func Timestamp() string {
	return time.Now().Format(TimeLayout)
}
