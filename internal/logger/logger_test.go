package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"err", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, &buf)

	Infof("quiet %d", 1)
	Warnf("loud %d", 2)

	out := buf.String()
	if strings.Contains(out, "quiet 1") {
		t.Errorf("info message logged below threshold: %q", out)
	}
	if !strings.Contains(out, "loud 2") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestTagFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.DisabledTags = []string{"Noisy"}
	install(cfg, &buf)

	DebugTagf("noisy", "hidden message")
	DebugTagf("history", "visible message")
	Debugf("untagged message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("disabled tag was logged: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "tag=history") {
		t.Errorf("tagged message missing: %q", out)
	}
	if !strings.Contains(out, "untagged message") {
		t.Errorf("untagged message dropped without allow-list: %q", out)
	}
}

func TestEnabledTagsDropUntagged(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.EnabledTags = []string{"editor"}
	install(cfg, &buf)

	Debugf("untagged message")
	DebugTagf("editor", "editor message")
	DebugTagf("export", "export message")

	out := buf.String()
	if strings.Contains(out, "untagged message") || strings.Contains(out, "export message") {
		t.Errorf("messages outside allow-list were logged: %q", out)
	}
	if !strings.Contains(out, "editor message") {
		t.Errorf("allowed tag missing: %q", out)
	}
}

func TestPackageFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.DisabledPackages = []string{"logger"}
	install(cfg, &buf)

	Infof("from the logger package")
	if buf.Len() != 0 {
		t.Errorf("disabled package was logged: %q", buf.String())
	}
}

func TestSetupDiscardsWithoutPath(t *testing.T) {
	closer, err := Setup(NewConfig())
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closer.Close()
	Infof("goes nowhere")
}
