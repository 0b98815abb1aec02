package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"efb/internal/config"
	"efb/internal/coordinator"
	"efb/internal/core"
	"efb/internal/storage"
	"efb/pkg/logx"
	"efb/pkg/paths"
	"efb/plugins/console"
	"efb/plugins/loopback"
)

func main() {
	var profile string
	flag.StringVar(&profile, "profile", "default", "configuration profile to run")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, profile); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, profile string) error {
	coord := coordinator.New(profile, logx.NewConsole("info"))
	res := paths.New(coord)

	// Materialize the plugins directory early so operators can find it even
	// on a fresh install.
	if _, err := res.Plugins(); err != nil {
		return err
	}

	cfgPath, err := res.Config("", "")
	if err != nil {
		return err
	}
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	svc, log := logx.New(cfg.Logging.Logx(), coord)
	defer svc.Close()
	logx.SetDefault(svc)
	mgr.SetLogger(log.Named("core.config"))

	var store storage.Store
	if sc := cfg.Storage; sc != nil {
		path := sc.Path
		if path == "" {
			profileDir, err := res.Data("")
			if err != nil {
				return err
			}
			path = filepath.Join(profileDir, "storage.db")
		}
		busy, err := config.ParseDurationField("storage.busy_timeout", sc.BusyTimeout)
		if err != nil {
			return err
		}
		store, err = storage.Open(storage.Config{
			Driver:      sc.Driver,
			Path:        path,
			BusyTimeout: busy,
		}, log.Named("core.storage"))
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		if store != nil {
			defer store.Close()
		}
	}

	// Compiled-in channels (adding one is New() + this list).
	available := map[string]core.Channel{}
	for _, ch := range []core.Channel{
		console.New(),
		loopback.New(),
	} {
		available[ch.ChannelID()] = ch
	}

	master, ok := available[cfg.MasterChannel].(core.MasterChannel)
	if !ok {
		return fmt.Errorf("unknown or non-master channel %q", cfg.MasterChannel)
	}
	if err := coord.AddMaster(master); err != nil {
		return err
	}
	for _, id := range cfg.SlaveChannels {
		slave, ok := available[id].(core.SlaveChannel)
		if !ok {
			return fmt.Errorf("unknown or non-slave channel %q", id)
		}
		if err := coord.AddSlave(slave); err != nil {
			return err
		}
	}

	deps := core.ChannelDeps{Logger: log, Paths: res, Store: store}
	if err := coord.InitAll(ctx, deps); err != nil {
		return err
	}
	if err := coord.StartAll(ctx); err != nil {
		return err
	}
	log.Info("framework started",
		logx.String("profile", profile),
		logx.String("config", cfgPath),
		logx.Int("slaves", len(cfg.SlaveChannels)))

	go func() { _ = mgr.Watch(ctx) }()
	sub := mgr.Subscribe(1)
	defer mgr.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return coord.StopAll(stopCtx)
		case newCfg := <-sub:
			if newCfg == nil {
				continue
			}
			// Only the logging block is hot-reloadable; channel set changes
			// need a restart.
			svc.Apply(newCfg.Logging.Logx())
			log.Info("logging config applied", logx.String("config", cfgPath))
		}
	}
}
