package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ifbridge/ifbridge/internal/config"
	"github.com/ifbridge/ifbridge/internal/netif"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

func CreateListCommand() *ListCommand {
	return &ListCommand{
		fs: flag.NewFlagSet("list", flag.ExitOnError),
	}
}

type ListCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
}

func (c *ListCommand) Name() string {
	return c.fs.Name()
}

func (c *ListCommand) Init(args []string, ctx *AppContext) error {
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

func (c *ListCommand) Run() error {
	resp, ferr := buildEngine(c.cfg).List()
	if ferr != nil {
		return ferr
	}

	if c.ctx.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printInterfaces(resp.Items)
	return nil
}

func printInterfaces(ifaces []netif.NetInterface) {
	for _, iface := range ifaces {
		up := iface.AdminState == netif.AdminUp
		upColor := colorRed
		if up {
			upColor = colorGreen
		}

		fmt.Printf("%d. %s%s%s [%s] (%sup%s=%s%v%s oper=%s)\n",
			iface.IfIndex,
			colorCyan, iface.Name, colorReset,
			iface.Kind,
			colorCyan, colorReset, upColor, up, colorReset,
			iface.OperState)

		for _, addr := range iface.IPv4 {
			fmt.Printf("   - %s/%d\n", addr.IP, addr.PrefixLen)
		}
		for _, addr := range iface.IPv6 {
			fmt.Printf("   - %s/%d\n", addr.IP, addr.PrefixLen)
		}
	}
}
