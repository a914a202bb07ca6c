// Command atlasctl is the CLI surface spec §6 names: a single-asset run, a
// price-shock lookup, the supplemented historical backtest sweep, and a
// PDF report render, exercised against the same scenario/priceshock/
// rating/reports packages the HTTP surface wraps. No network server is
// started.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
