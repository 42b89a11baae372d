package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	coreconfig "github.com/dobryakk5/nsk/core/config"
)

// debug lines pass 1 in 50 unless logging.debug_sample says otherwise.
const defaultSampleNum, defaultSampleDen = 1, 50

// settings is the logging section resolved to concrete values.
type settings struct {
	level     slog.Level
	format    logFormat
	keyOrder  []string
	sampleNum int
	sampleDen int
	trace     bool
	profile   string
	// file is empty when logs go to stdout only.
	file string
}

func resolve(cfg *coreconfig.Config) settings {
	s := settings{
		level:     slog.LevelInfo,
		format:    formatJSON,
		keyOrder:  append([]string(nil), defaultKeyOrder...),
		sampleNum: defaultSampleNum,
		sampleDen: defaultSampleDen,
		trace:     truthy(os.Getenv("TRACE")) || truthy(os.Getenv("LOG_TRACE")),
		profile:   "prod",
	}
	if cfg == nil {
		return s
	}
	lc := cfg.Logging

	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		s.profile = p
	}
	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "debug":
		s.level = slog.LevelDebug
	case "warn", "warning":
		s.level = slog.LevelWarn
	case "error":
		s.level = slog.LevelError
	}
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		s.format = formatKV
	case "json":
	default:
		if s.profile == "debug" || s.profile == "dev" {
			s.format = formatKV
		}
	}
	if order := splitList(lc.KeysOrder); len(order) > 0 && lc.KeysOrder != "default" {
		s.keyOrder = order
	}
	if spec := strings.TrimSpace(lc.DebugSample); spec != "" {
		s.sampleNum, s.sampleDen = parseRatio(spec)
	}
	if dir, name := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile); dir != "" && name != "" {
		s.file = filepath.Join(dir, name)
	}
	return s
}

// parseRatio accepts "n/d", a bare "d" meaning 1/d, or "0" to log every
// debug line. Anything unparsable falls back to the default ratio.
func parseRatio(spec string) (int, int) {
	if num, den, ok := strings.Cut(spec, "/"); ok {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 != nil || err2 != nil || n < 0 || d <= 0 {
			return defaultSampleNum, defaultSampleDen
		}
		return n, d
	}
	v, err := strconv.Atoi(spec)
	switch {
	case err != nil || v < 0:
		return defaultSampleNum, defaultSampleDen
	case v == 0:
		return 0, 0
	}
	return 1, v
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
