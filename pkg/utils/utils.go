package utils

import (
	"time"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// TruncateString truncates string to specified length
func TruncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

// FormatTime renders timestamps the way API responses expect them.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
