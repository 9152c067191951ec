// Package commands implements the CLI subcommands.
package commands

import (
	"fmt"

	"github.com/ifbridge/ifbridge/internal/config"
	"github.com/ifbridge/ifbridge/internal/engine"
	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/platform"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
	JSON       bool
}

func loadAndValidateConfigOrFail(ctx *AppContext) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err = cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation is failed: %v", err)
	}

	log.SetVerbose(ctx.Verbose || cfg.Engine.Verbose)

	return cfg, nil
}

func buildEngine(cfg *config.Config) *engine.Engine {
	return engine.New(platform.New(cfg.PlatformOptions()))
}
