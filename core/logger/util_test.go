package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		in    []string
		limit int
		want  string
	}{
		{nil, 3, ""},
		{[]string{"a", "b"}, 3, "a, b"},
		{[]string{"a", "b", "c", "d"}, 2, "a, b, +2"},
		{[]string{"a"}, 0, "+1"},
	}
	for _, tc := range cases {
		if got := Summarize(tc.in, tc.limit); got != tc.want {
			t.Errorf("Summarize(%v, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Fatalf("Status(nil) = %q", got)
	}
	if got := Status(fmt.Errorf("wrap: %w", context.Canceled)); got != "cancelled" {
		t.Fatalf("Status(canceled) = %q", got)
	}
	if got := Status(errors.New("boom")); got != "fail" {
		t.Fatalf("Status(err) = %q", got)
	}
}

func TestEventUsesContextLoggerWithoutComponent(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)).With("component", "tg"))

	Info(ctx, "", "update.done")
	if !strings.Contains(buf.String(), "component=tg") || !strings.Contains(buf.String(), "event=update.done") {
		t.Fatalf("line = %q", buf.String())
	}
}
