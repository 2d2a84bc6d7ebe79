package main

import (
	"fmt"
	"os"

	"github.com/Zachacious/go-lexspec/cmd/lexspec/internal/clierr"
)

// These variables are set at build time by the Makefile's ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(clierr.Code(err))
	}
}
