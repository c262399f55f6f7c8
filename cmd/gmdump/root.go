// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gmdump",
		Short:         "Inspect and rebuild GameMaker compiled data files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newDisasmCmd())
	root.AddCommand(newAsmCmd())
	root.AddCommand(newActionCmd())
	root.AddCommand(newTestCmd())
	return root
}
