// Command gbar draws status bars on a display host.
//
// Usage:
//
//	gbar run [--config FILE] [--backend NAME] [--output-dir DIR] [--interval 1s]
//	gbar snapshot --out DIR
//	gbar config init [--force]
//	gbar version
package main

import (
	"fmt"
	"os"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gbar:", err)
		os.Exit(1)
	}
}
