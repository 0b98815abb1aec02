package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"efb/pkg/paths"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), "config.yaml", `
master_channel: demo.console
slave_channels:
  - demo.loopback
logging:
  level: debug
  notice:
    enabled: true
    min_level: error
`)
	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MasterChannel != "demo.console" {
		t.Fatalf("MasterChannel = %q", cfg.MasterChannel)
	}
	if len(cfg.SlaveChannels) != 1 || cfg.SlaveChannels[0] != "demo.loopback" {
		t.Fatalf("SlaveChannels = %v", cfg.SlaveChannels)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Notice.Enabled {
		t.Fatalf("Logging = %+v", cfg.Logging)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get() should return the committed config")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), "config.yaml", `
master_channel: demo.console
slave_channels: [demo.loopback]
middleware: [oops]
`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("unknown field should be rejected")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing master",
			cfg:  Config{SlaveChannels: []string{"a"}},
			want: "master_channel",
		},
		{
			name: "duplicate slave",
			cfg:  Config{MasterChannel: "m", SlaveChannels: []string{"a", "a"}},
			want: "duplicate",
		},
		{
			name: "slave equals master",
			cfg:  Config{MasterChannel: "m", SlaveChannels: []string{"m"}},
			want: "already the master",
		},
		{
			name: "bad busy timeout",
			cfg: Config{MasterChannel: "m", SlaveChannels: []string{"a"},
				Storage: &StorageConfig{Driver: "sqlite", BusyTimeout: "soon"}},
			want: "busy_timeout",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want substring %q", err, tt.want)
			}
		})
	}

	ok := Config{MasterChannel: "m", SlaveChannels: []string{"a", "b"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestLoggingLogxDefaults(t *testing.T) {
	t.Parallel()
	got := LoggingConfig{}.Logx()
	if !got.Console {
		t.Fatal("console should default to on")
	}
	off := false
	got = LoggingConfig{Console: &off}.Logx()
	if got.Console {
		t.Fatal("explicit console: false must be honored")
	}
}

func TestLoadChannel(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	res := &paths.Resolver{
		Profiles:  paths.ProfileFunc(func() string { return "default" }),
		LookupEnv: func(string) (string, bool) { return "", false },
		Username:  func() string { return "alice" },
		HomeDir:   func() (string, error) { return home, nil },
	}

	type chCfg struct {
		Token string `json:"token"`
	}

	var cfg chCfg
	// Missing file surfaces the filesystem error.
	if err := LoadChannel(res, "demo.loopback", &cfg); !os.IsNotExist(err) {
		t.Fatalf("err = %v, want IsNotExist", err)
	}

	dir, err := res.Data("demo.loopback")
	if err != nil {
		t.Fatal(err)
	}
	writeConfig(t, strings.TrimSuffix(dir, string(os.PathSeparator)), "config.yaml", "token: s3cret\n")

	if err := LoadChannel(res, "demo.loopback", &cfg); err != nil {
		t.Fatalf("LoadChannel error: %v", err)
	}
	if cfg.Token != "s3cret" {
		t.Fatalf("Token = %q", cfg.Token)
	}
}
