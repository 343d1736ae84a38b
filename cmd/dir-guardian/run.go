package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/raoulx24/dir-guardian/internal/config"
	"github.com/raoulx24/dir-guardian/internal/guardian"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

// instance is one guardian with the logger built from its configuration.
type instance struct {
	g   *guardian.Guardian
	log *logging.ZapLogger
}

// startInstance loads the configuration and starts a guardian on it.
func startInstance(ctx context.Context, path string) (*instance, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logg, err := logging.NewZap(logging.ZapConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.LogFilePath,
	})
	if err != nil {
		return nil, err
	}

	g := guardian.New(cfg, logg)
	if err := g.Start(ctx); err != nil {
		_ = logg.Close()
		return nil, err
	}
	return &instance{g: g, log: logg}, nil
}

func (i *instance) stop() error {
	err := i.g.Stop()
	_ = i.log.Close()
	return err
}

// runForeground serves until SIGINT or SIGTERM. SIGHUP restarts the
// pipeline on a freshly loaded configuration; if that fails the previous
// pipeline is already stopped and the error ends the process.
func runForeground(path string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inst, err := startInstance(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			log.Println("shutting down...")
			return inst.stop()
		}

		inst.log.Info("reloading configuration from %s", path)
		if err := inst.stop(); err != nil {
			log.Printf("stop before reload: %v", err)
		}
		inst, err = startInstance(ctx, path)
		if err != nil {
			return fmt.Errorf("restart after reload: %w", err)
		}
	}
	return nil
}
