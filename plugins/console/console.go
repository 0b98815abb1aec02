// Package console is the built-in master channel: it renders framework
// statuses and forwarded messages on standard output. Useful as a headless
// default and in tests; real deployments replace it with an IM-backed master.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"efb/internal/core"
	"efb/pkg/logx"
)

const channelID = "demo.console"

type Channel struct {
	mu  sync.Mutex
	out io.Writer
	log logx.Logger
}

func New() *Channel { return &Channel{out: logx.Stdout()} }

func (c *Channel) ChannelID() string   { return channelID }
func (c *Channel) ChannelName() string { return "Console" }

func (c *Channel) Init(ctx context.Context, deps core.ChannelDeps) error {
	c.log = deps.Logger.Named("channels." + channelID)
	return nil
}

func (c *Channel) Start(ctx context.Context) error { return nil }
func (c *Channel) Stop(ctx context.Context) error  { return nil }

// SendStatus prints one notice line. Writes go straight to the output
// stream, not through the logger, so forwarded log records cannot loop back
// into the notice sink.
func (c *Channel) SendStatus(ctx context.Context, st core.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	source := st.Source
	if source == "" {
		source = "system"
	}
	_, err := fmt.Fprintf(c.out, "%s [%s] %s\n", core.EmojiSystem, source, st.Text)
	return err
}

// SetOutput redirects status rendering; tests use this to capture output.
func (c *Channel) SetOutput(w io.Writer) {
	c.mu.Lock()
	c.out = w
	c.mu.Unlock()
}
