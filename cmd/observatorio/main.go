// Command observatorio serves the legislative observatory API and runs its
// views from the command line.
//
//	observatorio serve
//	observatorio summary
//	observatorio export --format xlsx --preset last_30_days -o eventos.xlsx
//	observatorio timeline 12/2025
//	observatorio search "ana souza"
//	observatorio stats --author "Ana Souza"
//
// Configuration comes from config.yaml (or --config) and OBS_* environment
// variables; flags override both.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
