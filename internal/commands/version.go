package commands

import (
	"flag"
	"fmt"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// Populated via -ldflags at build time.
var (
	Version = "dev"
)

func CreateVersionCommand() *VersionCommand {
	return &VersionCommand{
		fs: flag.NewFlagSet("version", flag.ExitOnError),
	}
}

type VersionCommand struct {
	fs *flag.FlagSet
}

func (c *VersionCommand) Name() string {
	return c.fs.Name()
}

func (c *VersionCommand) Init(args []string, _ *AppContext) error {
	return c.fs.Parse(args)
}

func (c *VersionCommand) Run() error {
	fmt.Printf("ifbridge %s (abi %d)\n", Version, netif.ABIVersion)
	return nil
}
