// Package loopback is the built-in slave channel: it reflects everything it
// receives back to the sender. It exists to exercise the full channel
// surface (per-channel config, data path, extra functions, seen markers)
// without a remote IM account.
package loopback

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"efb/internal/config"
	"efb/internal/core"
	"efb/internal/storage"
	"efb/pkg/logx"
	"efb/pkg/paths"
)

const channelID = "demo.loopback"

// seenTTL bounds how long a reflected message ID is remembered.
const seenTTL = 24 * time.Hour

type Config struct {
	// Echo controls whether Reflect answers at all. Defaults to on.
	Echo *bool `json:"echo,omitempty"`
	// Greeting prefixes every reflected message.
	Greeting string `json:"greeting,omitempty"`
}

type Channel struct {
	mu     sync.Mutex
	cfg    Config
	echoOn bool
	count  int

	log    logx.Logger
	res    *paths.Resolver
	store  storage.Store
	extras *core.ExtraRegistry
}

func New() *Channel {
	return &Channel{extras: core.NewExtraRegistry(), echoOn: true}
}

func (c *Channel) ChannelID() string   { return channelID }
func (c *Channel) ChannelName() string { return "Loopback" }

func (c *Channel) Init(ctx context.Context, deps core.ChannelDeps) error {
	c.log = deps.Logger.Named("channels." + channelID)
	c.res = deps.Paths
	c.store = deps.Store

	// The channel runs unconfigured when its config file is absent.
	var cfg Config
	if err := config.LoadChannel(deps.Paths, channelID, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", channelID, err)
		}
	} else {
		c.cfg = cfg
		if cfg.Echo != nil {
			c.echoOn = *cfg.Echo
		}
	}

	c.extras.Register("toggle_echo", core.ExtraSpec{
		Name: "Toggle echo",
		Desc: "Turn reflection on or off. Usage: {function_name}",
	}, c.toggleEcho)
	c.extras.Register("stats", core.ExtraSpec{
		Name: "Message statistics",
		Desc: "Report how many messages were reflected. Usage: {function_name}",
	}, c.stats)
	return nil
}

func (c *Channel) Start(ctx context.Context) error { return nil }
func (c *Channel) Stop(ctx context.Context) error  { return nil }

func (c *Channel) Extras() *core.ExtraRegistry { return c.extras }

// Reflect handles one inbound message and returns the reply the "remote"
// side would send back. Duplicate message IDs (redeliveries) come back
// empty, and every reflected message is recorded in the delivery log.
func (c *Channel) Reflect(ctx context.Context, chatType core.ChatType, msgID, text string) (string, error) {
	c.mu.Lock()
	echoOn := c.echoOn
	greeting := c.cfg.Greeting
	c.mu.Unlock()

	if !echoOn {
		return "", nil
	}

	if c.store != nil && msgID != "" {
		key := channelID + "/" + msgID
		if _, seen, err := c.store.GetSeen(ctx, key); err == nil && seen {
			c.log.Debug("duplicate message dropped", logx.String("msg_id", msgID))
			return "", nil
		}
		if err := c.store.PutSeen(ctx, key, time.Now().Add(seenTTL)); err != nil {
			c.log.Warn("seen marker write failed", logx.Err(err))
		}
		if err := c.store.AppendDelivery(ctx, storage.DeliveryEntry{
			SourceChannel: channelID,
			TargetChannel: channelID,
			ChatType:      string(chatType),
			MessageID:     msgID,
		}); err != nil {
			c.log.Warn("delivery log write failed", logx.Err(err))
		}
	}

	c.mu.Lock()
	c.count++
	c.mu.Unlock()

	reply := core.SourceEmoji(chatType) + " " + text
	if greeting != "" {
		reply = greeting + " " + reply
	}
	return reply, nil
}

func (c *Channel) toggleEcho(ctx context.Context, param string) (string, error) {
	_ = param
	c.mu.Lock()
	c.echoOn = !c.echoOn
	on := c.echoOn
	c.mu.Unlock()
	if on {
		return "Echo is now on.", nil
	}
	return "Echo is now off.", nil
}

func (c *Channel) stats(ctx context.Context, param string) (string, error) {
	_ = param
	c.mu.Lock()
	n := c.count
	c.mu.Unlock()
	return "Reflected messages: " + strconv.Itoa(n), nil
}
