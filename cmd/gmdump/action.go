// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/gm-tools/gmdata/actions"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var variantNames = map[string]actions.Variant{
	"undertale":    actions.VariantUndertale,
	"chapter1-old": actions.VariantChapter1Old,
	"demo-prelts":  actions.VariantDemoPreLTS,
	"demo-lts-ch1": actions.VariantDemoLTSCh1,
	"demo-lts-ch2": actions.VariantDemoLTSCh2,
	"deltarune":    actions.VariantDeltarune,
	"chapter3":     actions.VariantChapter3,
}

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Run a debug-toggle action against a data file",
	}
	cmd.AddCommand(newToggleDebugCmd("enable-debug", true))
	cmd.AddCommand(newToggleDebugCmd("disable-debug", false))
	return cmd
}

func newToggleDebugCmd(use string, enable bool) *cobra.Command {
	var variant, outPath string
	cmd := &cobra.Command{
		Use:   use + " <file>",
		Short: fmt.Sprintf("%s the game's debug build flag", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := variantNames[variant]
			if !ok {
				return wrapExit(errors.Errorf("unknown --variant %q", variant), use)
			}
			if outPath == "" {
				return wrapExit(fmt.Errorf("-o is required"), use)
			}
			d, err := openData(args[0], false)
			if err != nil {
				return wrapExit(err, use)
			}
			defer d.Close()

			if err := actions.ToggleDebug(d, v, enable); err != nil {
				return wrapExit(err, use)
			}
			out, err := d.Build()
			if err != nil {
				return wrapExit(err, "rebuilding")
			}
			return wrapExit(writeFile(outPath, out), use)
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "game variant: undertale, chapter1-old, demo-prelts, demo-lts-ch1, demo-lts-ch2, deltarune, chapter3")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output container path (required)")
	return cmd
}
