//go:build !testcoverage

package main

import (
	"fmt"
	"os"
)

func main() {
	cfg := DefaultConfig()
	if err := run(os.Args, cfg); err != nil {
		fmt.Fprintln(cfg.Stderr, exitMessage(err))
		os.Exit(1)
	}
}
