// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Command gmdump is the CLI driver for the gmdata library: parse and
// summarize a data.win-style container, rebuild one from a parsed
// copy, assemble/disassemble a single CODE entry, run a debug-toggle
// action, or run one of the package's own self-checks against a file.
// Ground: the teacher's cmd/main.go + cmd/dump.go, rebuilt on cobra
// per SPEC_FULL.md §3/§7 rather than the teacher's hand-rolled
// flag.NewFlagSet switch.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gmdump: %+v\n", err)
		os.Exit(1)
	}
}

// wrapExit is a small helper every subcommand's RunE funnels its
// terminal error through, so a cobra.Command.Execute failure always
// prints the pkg/errors context chain (SPEC_FULL.md §7: "nonzero with
// the pkg/errors chain printed on failure").
func wrapExit(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
