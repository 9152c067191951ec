package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ifbridge/ifbridge/internal/commands"
	"github.com/ifbridge/ifbridge/internal/log"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", "/etc/ifbridge/ifbridge.conf", "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&ctx.JSON, "json", false, "Print raw JSON envelopes instead of formatted output")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ifbridge Network Interface Control Engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  list                    Enumerate network interfaces\n")
		fmt.Fprintf(os.Stderr, "  apply                   Execute an apply request envelope\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the HTTP API server\n")
		fmt.Fprintf(os.Stderr, "  version                 Print version and ABI information\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	log.SetVerbose(ctx.Verbose)

	cmds := []commands.Runner{
		commands.CreateListCommand(),
		commands.CreateApplyCommand(),
		commands.CreateServeCommand(),
		commands.CreateVersionCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
