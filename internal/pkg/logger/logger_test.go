package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/yigit/placementprep/internal/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DebugLevel,
		" WARN ":  logger.WarnLevel,
		"error":   logger.ErrorLevel,
		"verbose": logger.InfoLevel,
		"":        logger.InfoLevel,
	}
	for in, want := range cases {
		if got := logger.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigure_JSONOutputWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.InfoLevel, Output: &buf})

	lgr := logger.Component("merger")
	lgr.Info().Str("companyId", "c1").Msg("merged")
	lgr.Debug().Msg("filtered out")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "merger" || entry["companyId"] != "c1" || entry["message"] != "merged" {
		t.Errorf("entry = %v", entry)
	}
}
