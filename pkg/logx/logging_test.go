package logx

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type captureSender struct{ ch chan string }

func (c *captureSender) SendLogNotice(ctx context.Context, text string) error {
	select {
	case c.ch <- text:
	default:
	}
	return nil
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"critical", zerolog.FatalLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.raw, zerolog.InfoLevel); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFileSinkCarriesLoggerName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "efb.log")
	svc, log := New(Config{
		Level: "debug",
		File:  FileConfig{Enabled: true, Path: path},
	}, nil)
	defer svc.Close()

	log.Named("core.coordinator").Warn("profile switched", String("profile", "work"))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(b))), &rec); err != nil {
		t.Fatalf("log line not JSON: %v (%q)", err, b)
	}
	if rec[NameFieldName] != "core.coordinator" {
		t.Fatalf("logger field = %v", rec[NameFieldName])
	}
	if rec["level"] != "warn" || rec["message"] != "profile switched" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["profile"] != "work" {
		t.Fatalf("missing field: %v", rec)
	}
}

func TestNoticeSinkForwardsWarnAndAbove(t *testing.T) {
	sender := &captureSender{ch: make(chan string, 8)}
	svc, log := New(Config{
		Level:  "debug",
		Notice: NoticeConfig{Enabled: true, MinLevel: "warn", RatePerSec: 100},
	}, sender)
	defer svc.Close()

	log.Info("below threshold")
	log.Error("channel gone", String("channel", "irc"))

	select {
	case msg := <-sender.ch:
		if !strings.Contains(msg, "[ERROR]") || !strings.Contains(msg, "channel gone") {
			t.Fatalf("notice = %q", msg)
		}
		if !strings.Contains(msg, "channel=irc") {
			t.Fatalf("notice missing field: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notice forwarded")
	}

	select {
	case msg := <-sender.ch:
		t.Fatalf("info record should not be forwarded, got %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCriticalDoesNotExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "efb.log")
	svc, log := New(Config{Level: "debug", File: FileConfig{Enabled: true, Path: path}}, nil)
	defer svc.Close()

	log.Critical("backend unreachable")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"level":"fatal"`) {
		t.Fatalf("critical record missing: %q", b)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	if got := truncate("hello", 10); got != "hello" {
		t.Fatalf("truncate short = %q", got)
	}
	long := strings.Repeat("x", 50)
	got := truncate(long, 20)
	if len(got) != 20 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate long = %q", got)
	}
}

func TestDefaultFallbackBuiltOnce(t *testing.T) {
	_ = Default()

	// NewConsole rewrites the zerolog globals; a stable fallback must not
	// touch them again on later calls.
	zerolog.TimeFieldFormat = "sentinel"
	defer func() { zerolog.TimeFieldFormat = consoleTimeFormat }()

	_ = Default()
	Debug("core.test", "early record %d", 1)
	if zerolog.TimeFieldFormat != "sentinel" {
		t.Fatal("fallback logger rebuilt on repeated Default() calls")
	}
}

func TestApplyAfterCloseDisablesNotices(t *testing.T) {
	sender := &captureSender{ch: make(chan string, 8)}
	cfg := Config{
		Level:  "debug",
		Notice: NoticeConfig{Enabled: true, MinLevel: "warn", RatePerSec: 100},
	}
	svc, log := New(cfg, sender)
	if err := svc.Close(); err != nil {
		t.Fatal(err)
	}

	svc.Apply(cfg)
	log.Error("after close")

	if n := len(svc.queue); n != 0 {
		t.Fatalf("closed service queued %d notices", n)
	}
	select {
	case msg := <-sender.ch:
		t.Fatalf("closed service forwarded %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNopAndZeroLoggerAreSafe(t *testing.T) {
	t.Parallel()
	var zero Logger
	zero.Info("ignored")
	Nop().Error("ignored")
	if !zero.IsZero() {
		t.Fatal("zero logger should report IsZero")
	}
}
