package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"efb/internal/core"
	"efb/pkg/logx"
)

func TestSendStatus(t *testing.T) {
	t.Parallel()
	ch := New()
	if err := ch.Init(context.Background(), core.ChannelDeps{Logger: logx.Nop()}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	ch.SetOutput(&buf)

	err := ch.SendStatus(context.Background(), core.Status{Source: "log", Text: "channel gone"})
	if err != nil {
		t.Fatal(err)
	}
	err = ch.SendStatus(context.Background(), core.Status{Text: "no source"})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.Contains(lines[0], core.EmojiSystem) || !strings.Contains(lines[0], "[log] channel gone") {
		t.Fatalf("line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[system] no source") {
		t.Fatalf("line = %q", lines[1])
	}
}
