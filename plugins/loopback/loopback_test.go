package loopback

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"efb/internal/core"
	"efb/internal/storage"
	"efb/pkg/logx"
	"efb/pkg/paths"
)

func testResolver(t *testing.T) *paths.Resolver {
	t.Helper()
	home := t.TempDir()
	return &paths.Resolver{
		Profiles:  paths.ProfileFunc(func() string { return "default" }),
		LookupEnv: func(string) (string, bool) { return "", false },
		Username:  func() string { return "alice" },
		HomeDir:   func() (string, error) { return home, nil },
	}
}

func initChannel(t *testing.T, res *paths.Resolver, store storage.Store) *Channel {
	t.Helper()
	ch := New()
	deps := core.ChannelDeps{Logger: logx.Nop(), Paths: res, Store: store}
	if err := ch.Init(context.Background(), deps); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return ch
}

func TestReflectEchoesWithEmoji(t *testing.T) {
	t.Parallel()
	ch := initChannel(t, testResolver(t), nil)

	got, err := ch.Reflect(context.Background(), core.ChatUser, "m1", "hello")
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if got != core.EmojiUser+" hello" {
		t.Fatalf("Reflect = %q", got)
	}

	got, _ = ch.Reflect(context.Background(), core.ChatType("weird"), "m2", "x")
	if !strings.HasPrefix(got, core.EmojiUnknown) {
		t.Fatalf("unknown chat type reply = %q", got)
	}
}

func TestReflectDropsDuplicates(t *testing.T) {
	t.Parallel()
	st, err := storage.Open(storage.Config{
		Driver: "file",
		Path:   filepath.Join(t.TempDir(), "storage.db"),
	}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ch := initChannel(t, testResolver(t), st)
	ctx := context.Background()

	first, err := ch.Reflect(ctx, core.ChatGroup, "m1", "hi")
	if err != nil || first == "" {
		t.Fatalf("first Reflect = %q, %v", first, err)
	}
	second, err := ch.Reflect(ctx, core.ChatGroup, "m1", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if second != "" {
		t.Fatalf("duplicate should be dropped, got %q", second)
	}
}

func TestChannelConfigApplied(t *testing.T) {
	t.Parallel()
	res := testResolver(t)
	dir, err := res.Data("demo.loopback")
	if err != nil {
		t.Fatal(err)
	}
	body := "greeting: pong\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	ch := initChannel(t, res, nil)
	got, err := ch.Reflect(context.Background(), core.ChatUser, "m1", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "pong ") {
		t.Fatalf("greeting not applied: %q", got)
	}
}

func TestExtraFunctions(t *testing.T) {
	t.Parallel()
	ch := initChannel(t, testResolver(t), nil)
	ctx := context.Background()

	list := ch.Extras().List()
	if len(list) != 2 || list[0].Method != "toggle_echo" || list[1].Method != "stats" {
		t.Fatalf("extras = %v", list)
	}

	out, err := ch.Extras().Call(ctx, "toggle_echo", "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Echo is now off." {
		t.Fatalf("toggle_echo = %q", out)
	}
	if got, _ := ch.Reflect(ctx, core.ChatUser, "m1", "hi"); got != "" {
		t.Fatalf("echo off but Reflect = %q", got)
	}

	if _, err := ch.Extras().Call(ctx, "toggle_echo", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := ch.Reflect(ctx, core.ChatUser, "m2", "hi"); err != nil {
		t.Fatal(err)
	}
	out, err = ch.Extras().Call(ctx, "stats", "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Reflected messages: 1" {
		t.Fatalf("stats = %q", out)
	}
}
