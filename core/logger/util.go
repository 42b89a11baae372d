package logger

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Status maps err to the status field. Cancellation is not a failure.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "fail"
	}
}

// Took returns the rounded duration since start.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to milliseconds; negative values become zero.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Summarize joins up to limit values and appends "+N" for the rest.
func Summarize(values []string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	head := strings.Join(values[:limit], ", ")
	rest := "+" + strconv.Itoa(len(values)-limit)
	if head == "" {
		return rest
	}
	return head + ", " + rest
}
