// Package config loads the framework's profile-level configuration
// (config.yaml inside the profile directory) and per-channel config files.
// YAML is coerced to JSON so one strict decoder covers both formats.
package config

import (
	"fmt"
	"strings"
	"time"

	"efb/pkg/logx"
)

type Config struct {
	// MasterChannel is the channel ID of the single user-facing channel.
	MasterChannel string `json:"master_channel"`
	// SlaveChannels lists the IDs of remote-IM channels to run, in start
	// order.
	SlaveChannels []string `json:"slave_channels"`

	Logging LoggingConfig  `json:"logging,omitempty"`
	Storage *StorageConfig `json:"storage,omitempty"`
}

type LoggingConfig struct {
	Level   string        `json:"level,omitempty"`
	Console *bool         `json:"console,omitempty"`
	File    LoggingFile   `json:"file,omitempty"`
	Notice  LoggingNotice `json:"notice,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// LoggingNotice forwards warn+ records to the master channel.
type LoggingNotice struct {
	Enabled    bool   `json:"enabled,omitempty"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

type StorageConfig struct {
	// Driver: "file", "sqlite", or empty/"none" to disable.
	Driver string `json:"driver,omitempty"`
	// Path overrides the default location inside the profile directory.
	Path string `json:"path,omitempty"`
	// BusyTimeout is a Go duration string (sqlite only).
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// Validate checks the cross-field rules a parsed config must satisfy before
// it is committed or published.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MasterChannel) == "" {
		return fmt.Errorf("master_channel is required")
	}
	seen := make(map[string]struct{}, len(c.SlaveChannels))
	for _, id := range c.SlaveChannels {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("slave_channels: empty channel id")
		}
		if id == c.MasterChannel {
			return fmt.Errorf("slave_channels: %q is already the master channel", id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("slave_channels: duplicate channel id %q", id)
		}
		seen[id] = struct{}{}
	}
	if c.Storage != nil {
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}

// Logx translates the logging block into the logx service config. Console
// output defaults to on when the block omits it.
func (c LoggingConfig) Logx() logx.Config {
	console := true
	if c.Console != nil {
		console = *c.Console
	}
	return logx.Config{
		Level:   c.Level,
		Console: console,
		File: logx.FileConfig{
			Enabled: c.File.Enabled,
			Path:    c.File.Path,
		},
		Notice: logx.NoticeConfig{
			Enabled:    c.Notice.Enabled,
			MinLevel:   c.Notice.MinLevel,
			RatePerSec: c.Notice.RatePerSec,
		},
	}
}

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}
