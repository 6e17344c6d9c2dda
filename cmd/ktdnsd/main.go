package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haukened/ktdns/internal/dns/common/log"
	"github.com/haukened/ktdns/internal/dns/config"
	"github.com/haukened/ktdns/internal/dns/domain"
	"github.com/haukened/ktdns/internal/dns/gateways/transport"
	"github.com/haukened/ktdns/internal/dns/gateways/wire"
	"github.com/haukened/ktdns/internal/dns/repos/zone"
	"github.com/haukened/ktdns/internal/dns/repos/zonestore"
	"github.com/haukened/ktdns/internal/dns/services/resolver"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "ktdnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server
type Application struct {
	config    *config.AppConfig
	zones     *zonestore.Live
	resolver  *resolver.Resolver
	transport *transport.UDPTransport
	watcher   *zone.Watcher // nil unless WatchZones is set
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info(map[string]any{
		"app":           appName,
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"address":       cfg.Addr(),
		"zone_dir":      cfg.ZoneDir,
		"zone_glob":     cfg.ZoneGlob,
		"watch_zones":   cfg.WatchZones,
		"nxdomain":      cfg.NXDomain,
		"format_errors": cfg.FormatErrors,
	}, "Starting ktdns server")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "Failed to build application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "Server failed")
	}

	log.Info(nil, "ktdns server stopped gracefully")
}

// rcodePolicy picks the outcome table for the configured miss behavior.
func rcodePolicy(cfg *config.AppConfig) domain.RCodePolicy {
	if cfg.NXDomain {
		return domain.StrictRCodePolicy()
	}
	return domain.DefaultRCodePolicy()
}

// buildStore loads every zone source and builds an immutable store from them.
func buildStore(cfg *config.AppConfig) (*zonestore.Store, error) {
	zones, err := zone.LoadZoneDirectory(cfg.ZoneDir, cfg.ZoneGlob)
	if err != nil {
		return nil, err
	}
	return zonestore.New(zones)
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load zone directory: %w", err)
	}
	live := zonestore.NewLive(store)

	log.Info(map[string]any{
		"zone_dir": cfg.ZoneDir,
		"zones":    store.Zones(),
		"records":  store.Count(),
	}, "Zone store initialized")

	policy := rcodePolicy(cfg)
	resolverService := resolver.NewResolver(resolver.ResolverOptions{
		Logger: logger,
		Policy: policy,
		Zones:  live,
	})

	var opts []transport.Option
	if cfg.FormatErrors {
		opts = append(opts, transport.WithFormatErrors(policy))
	}
	udpTransport := transport.NewUDPTransport(cfg.Addr(), wire.NewUDPCodec(), logger, opts...)

	app := &Application{
		config:    cfg,
		zones:     live,
		resolver:  resolverService,
		transport: udpTransport,
	}

	if cfg.WatchZones {
		app.watcher, err = zone.NewWatcher(zone.WatcherOptions{
			Dir:     cfg.ZoneDir,
			Pattern: cfg.ZoneGlob,
			Reload:  app.swapZones,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create zone watcher: %w", err)
		}
	}

	return app, nil
}

// swapZones replaces the served store with one built from zones.
// On error the current store stays live.
func (app *Application) swapZones(zones []domain.Zone) error {
	next, err := zonestore.New(zones)
	if err != nil {
		return err
	}
	app.zones.Swap(next)
	return nil
}

// Run starts the DNS server and blocks until ctx is cancelled or a component fails.
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx, app.resolver); err != nil {
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "UDP",
	}, "DNS server started")

	g, gctx := errgroup.WithContext(ctx)

	if app.watcher != nil {
		g.Go(func() error {
			return app.watcher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info(nil, "Shutdown initiated")
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown stops the transport, giving in-flight queries defaultShutdownTimeout to finish.
func (app *Application) shutdown() error {
	done := make(chan error, 1)
	go func() {
		done <- app.transport.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Warn(map[string]any{"error": err.Error()}, "Error during transport shutdown")
		}
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-time.After(defaultShutdownTimeout):
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout.String()}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
