package utils

import "time"

// PrettyDate formats a time for user-facing messages.
func PrettyDate(t time.Time) string {
	return t.Format("2 Jan 2006 15:04")
}
