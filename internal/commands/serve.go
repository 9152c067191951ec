package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ifbridge/ifbridge/internal/api"
	"github.com/ifbridge/ifbridge/internal/config"
	"github.com/ifbridge/ifbridge/internal/log"
)

// CreateServeCommand creates a new serve command
func CreateServeCommand() *ServeCommand {
	cmd := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	cmd.fs.StringVar(&cmd.bindAddr, "bind", "", "Bind address for API server (overrides the api.listen config key)")

	return cmd
}

// ServeCommand runs the HTTP facade until interrupted. The
// configuration file is watched so verbosity changes apply without a
// restart.
type ServeCommand struct {
	fs       *flag.FlagSet
	ctx      *AppContext
	cfg      *config.Config
	bindAddr string
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx); err != nil {
		return err
	} else {
		c.cfg = cfg
	}

	if c.bindAddr == "" {
		c.bindAddr = c.cfg.API.Listen
	}

	return nil
}

func (c *ServeCommand) Run() error {
	log.Infof("Starting ifbridge API server")
	log.Infof("Config file: %s", c.ctx.ConfigPath)
	log.Infof("Bind address: %s", c.bindAddr)

	server := api.NewServer(buildEngine(c.cfg), c.bindAddr)

	stopWatch, err := c.watchConfig()
	if err != nil {
		log.Warnf("Config watching disabled: %v", err)
	} else {
		defer stopWatch()
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Infof("Received signal: %v", sig)
		log.Infof("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}

		log.Infof("Server stopped")
		return nil
	}
}

// watchConfig re-reads the configuration whenever the file changes.
// Only the verbosity setting can take effect live; tool paths are
// captured by the running engine.
func (c *ServeCommand) watchConfig() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Clean(c.ctx.ConfigPath)
	// Watch the directory: editors replace the file on save, which
	// drops a watch set on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != configPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.LoadOrDefault(configPath)
				if err != nil {
					log.Warnf("Ignoring config change: %v", err)
					continue
				}
				if err := cfg.ValidateConfig(); err != nil {
					log.Warnf("Ignoring config change: %v", err)
					continue
				}
				log.Infof("Configuration reloaded (verbose=%v)", cfg.Engine.Verbose)
				log.SetVerbose(c.ctx.Verbose || cfg.Engine.Verbose)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("Config watcher error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
