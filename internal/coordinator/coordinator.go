// Package coordinator owns the mutable state shared across the framework:
// the current profile name and the registry of running channels. Everything
// else reads this state through narrow interfaces (paths.ProfileProvider,
// logx.NoticeSender).
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"efb/internal/core"
	"efb/pkg/logx"
)

// ErrNoMaster is returned when a status is emitted before a master channel
// is registered.
var ErrNoMaster = errors.New("no master channel registered")

type Coordinator struct {
	mu      sync.RWMutex
	profile string

	master core.MasterChannel
	slaves map[string]core.SlaveChannel
	order  []string // slave registration order

	log logx.Logger
}

func New(profile string, log logx.Logger) *Coordinator {
	return &Coordinator{
		profile: profile,
		slaves:  make(map[string]core.SlaveChannel),
		log:     log.Named("core.coordinator"),
	}
}

// Profile returns the current profile name. Satisfies paths.ProfileProvider;
// callers must not cache the value across profile switches.
func (c *Coordinator) Profile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// SetProfile switches the current profile. Only the coordinator writes this
// value; path resolution picks it up on the next call.
func (c *Coordinator) SetProfile(name string) {
	c.mu.Lock()
	c.profile = name
	c.mu.Unlock()
	c.log.Info("profile switched", logx.String("profile", name))
}

// AddMaster registers the single master channel.
func (c *Coordinator) AddMaster(ch core.MasterChannel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.master != nil {
		return fmt.Errorf("master channel already registered: %s", c.master.ChannelID())
	}
	c.master = ch
	return nil
}

// AddSlave registers a slave channel under its channel ID.
func (c *Coordinator) AddSlave(ch core.SlaveChannel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := ch.ChannelID()
	if _, ok := c.slaves[id]; ok {
		return fmt.Errorf("duplicate slave channel: %s", id)
	}
	c.slaves[id] = ch
	c.order = append(c.order, id)
	return nil
}

func (c *Coordinator) Master() core.MasterChannel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.master
}

func (c *Coordinator) Slave(id string) (core.SlaveChannel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.slaves[id]
	return ch, ok
}

// Slaves returns slave channels in registration order.
func (c *Coordinator) Slaves() []core.SlaveChannel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.SlaveChannel, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.slaves[id])
	}
	return out
}

// SendStatus routes a framework notice to the master channel.
func (c *Coordinator) SendStatus(ctx context.Context, st core.Status) error {
	m := c.Master()
	if m == nil {
		return ErrNoMaster
	}
	return m.SendStatus(ctx, st)
}

// SendLogNotice implements logx.NoticeSender. Failures are swallowed after
// logging: a broken master channel must not take the log pipeline with it.
func (c *Coordinator) SendLogNotice(ctx context.Context, text string) error {
	err := c.SendStatus(ctx, core.Status{Source: "log", Text: text})
	if err != nil && !errors.Is(err, ErrNoMaster) {
		c.log.Debug("log notice dropped", logx.Err(err))
	}
	return nil
}

// InitAll hands deps to every channel, slaves first so the master sees a
// fully-populated registry when it initializes.
func (c *Coordinator) InitAll(ctx context.Context, deps core.ChannelDeps) error {
	for _, ch := range c.Slaves() {
		if err := ch.Init(ctx, deps); err != nil {
			return fmt.Errorf("init %s: %w", ch.ChannelID(), err)
		}
	}
	if m := c.Master(); m != nil {
		if err := m.Init(ctx, deps); err != nil {
			return fmt.Errorf("init %s: %w", m.ChannelID(), err)
		}
	}
	return nil
}

// StartAll starts slaves in registration order, then the master.
func (c *Coordinator) StartAll(ctx context.Context) error {
	for _, ch := range c.Slaves() {
		if err := ch.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", ch.ChannelID(), err)
		}
		c.log.Info("channel started", logx.String("channel", ch.ChannelID()))
	}
	if m := c.Master(); m != nil {
		if err := m.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", m.ChannelID(), err)
		}
		c.log.Info("channel started", logx.String("channel", m.ChannelID()))
	}
	return nil
}

// StopAll stops the master first, then slaves in reverse registration order.
// All channels are attempted; the first error wins.
func (c *Coordinator) StopAll(ctx context.Context) error {
	var firstErr error
	if m := c.Master(); m != nil {
		if err := m.Stop(ctx); err != nil {
			firstErr = fmt.Errorf("stop %s: %w", m.ChannelID(), err)
		}
	}
	slaves := c.Slaves()
	for i := len(slaves) - 1; i >= 0; i-- {
		if err := slaves[i].Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop %s: %w", slaves[i].ChannelID(), err)
		}
	}
	return firstErr
}
