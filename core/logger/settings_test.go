package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	coreconfig "github.com/dobryakk5/nsk/core/config"
)

func TestParseRatio(t *testing.T) {
	cases := map[string][2]int{
		"1/50": {1, 50},
		"3/4":  {3, 4},
		"20":   {1, 20},
		"0":    {0, 0},
		"x/y":  {1, 50},
		"1/0":  {1, 50},
		"-3":   {1, 50},
	}
	for spec, want := range cases {
		n, d := parseRatio(spec)
		if n != want[0] || d != want[1] {
			t.Errorf("parseRatio(%q) = %d/%d, want %d/%d", spec, n, d, want[0], want[1])
		}
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv("TRACE", "")
	t.Setenv("LOG_TRACE", "")
	s := resolve(&coreconfig.Config{})
	if s.level != slog.LevelInfo || s.format != formatJSON || s.profile != "prod" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.sampleNum != 1 || s.sampleDen != 50 || s.trace || s.file != "" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if len(s.keyOrder) != len(defaultKeyOrder) {
		t.Fatalf("key order = %v", s.keyOrder)
	}
}

func TestResolveOverrides(t *testing.T) {
	t.Setenv("TRACE", "on")
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{
		Level:       "WARN",
		Profile:     "Dev",
		KeysOrder:   "ts, event ,,status",
		DebugSample: "2/10",
		Dir:         "/var/log/nsk",
		BotFile:     "bot.log",
	}}
	s := resolve(cfg)
	if s.level != slog.LevelWarn {
		t.Errorf("level = %v", s.level)
	}
	if s.format != formatKV {
		t.Errorf("dev profile should pick kv, got %v", s.format)
	}
	if got := s.keyOrder; len(got) != 3 || got[1] != "event" {
		t.Errorf("key order = %v", got)
	}
	if s.sampleNum != 2 || s.sampleDen != 10 || !s.trace {
		t.Errorf("sampling = %d/%d trace=%v", s.sampleNum, s.sampleDen, s.trace)
	}
	if s.file != filepath.Join("/var/log/nsk", "bot.log") {
		t.Errorf("file = %q", s.file)
	}

	cfg.Logging.Format = "json"
	if resolve(cfg).format != formatJSON {
		t.Error("explicit json wins over profile")
	}
}
