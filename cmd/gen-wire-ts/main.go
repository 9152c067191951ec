// Command gen-wire-ts emits TypeScript definitions for the wire
// envelopes, so browser dashboards talking to the HTTP facade share
// the exact field set of the Go model.
//
//	go run ./cmd/gen-wire-ts > wire.ts
package main

import (
	"fmt"
	"os"

	"github.com/coder/guts"
	"github.com/coder/guts/config"
)

func main() {
	golang, err := guts.NewGolangParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create parser: %v\n", err)
		os.Exit(1)
	}

	if err := golang.IncludeGenerate("github.com/ifbridge/ifbridge/internal/netif"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to include package: %v\n", err)
		os.Exit(1)
	}

	ts, err := golang.ToTypescript()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to convert to TypeScript: %v\n", err)
		os.Exit(1)
	}

	ts.ApplyMutations(
		config.ExportTypes,
		config.ReadOnly,
	)

	output, err := ts.Serialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to serialize: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
