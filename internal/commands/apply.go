package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ifbridge/ifbridge/internal/config"
	"github.com/ifbridge/ifbridge/internal/netif"
)

func CreateApplyCommand() *ApplyCommand {
	cmd := &ApplyCommand{
		fs: flag.NewFlagSet("apply", flag.ExitOnError),
	}

	cmd.fs.StringVar(&cmd.requestPath, "request", "-", "Path to the apply request JSON file (\"-\" for stdin)")

	return cmd
}

// ApplyCommand reads an apply request envelope, executes it and prints
// the response envelope. The process exits nonzero when any operation
// in the batch failed.
type ApplyCommand struct {
	fs          *flag.FlagSet
	ctx         *AppContext
	cfg         *config.Config
	requestPath string
}

func (c *ApplyCommand) Name() string {
	return c.fs.Name()
}

func (c *ApplyCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx); err != nil {
		return err
	} else {
		c.cfg = cfg
	}

	return nil
}

func (c *ApplyCommand) Run() error {
	data, err := c.readRequest()
	if err != nil {
		return err
	}

	var req netif.ApplyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse apply request: %v", err)
	}

	resp, ferr := buildEngine(c.cfg).Apply(&req)
	if resp == nil {
		return ferr
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}

	if !resp.OK {
		os.Exit(1)
	}
	return nil
}

func (c *ApplyCommand) readRequest() ([]byte, error) {
	if c.requestPath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read request from stdin: %v", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(c.requestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %v", err)
	}
	return data, nil
}
