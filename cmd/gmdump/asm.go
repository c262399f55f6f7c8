// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAsmCmd() *cobra.Command {
	var codeName, inPath, outPath string
	cmd := &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble text into one CODE entry and rebuild the container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if codeName == "" || inPath == "" || outPath == "" {
				return wrapExit(fmt.Errorf("--code, --in and -o are all required"), "asm")
			}
			d, err := openData(args[0], false)
			if err != nil {
				return wrapExit(err, "asm")
			}
			defer d.Close()

			code, err := d.CodeByName(codeName)
			if err != nil {
				return wrapExit(err, "asm")
			}
			if !code.IsRoot() {
				return wrapExit(errors.Errorf("%q is a fragment; assemble into its owner", codeName), "asm")
			}

			raw, err := os.ReadFile(inPath)
			if err != nil {
				return wrapExit(err, "asm")
			}
			lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

			instrs, err := gml.Assemble(lines, gmdata.NewNames(d))
			if err != nil {
				return wrapExit(err, "assembling")
			}
			code.Instructions = instrs

			out, err := d.Build()
			if err != nil {
				return wrapExit(err, "rebuilding")
			}
			return wrapExit(writeFile(outPath, out), "asm")
		},
	}
	cmd.Flags().StringVar(&codeName, "code", "", "name of the CODE entry to replace (required)")
	cmd.Flags().StringVar(&inPath, "in", "", "path to the assembly source text (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output container path (required)")
	return cmd
}
