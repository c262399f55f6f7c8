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

func newDisasmCmd() *cobra.Command {
	var codeName string
	var outPath string
	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble one CODE entry to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if codeName == "" {
				return wrapExit(fmt.Errorf("--code is required"), "disasm")
			}
			d, err := openData(args[0], false)
			if err != nil {
				return wrapExit(err, "disasm")
			}
			defer d.Close()

			code, err := d.CodeByName(codeName)
			if err != nil {
				return wrapExit(err, "disasm")
			}
			if !code.IsRoot() {
				return wrapExit(errors.Errorf("%q is a fragment; disassemble its owner", codeName), "disasm")
			}

			lines := gml.Disassemble(code.Instructions, gmdata.NewNames(d))
			text := strings.Join(lines, "\n") + "\n"
			if outPath == "" {
				fmt.Print(text)
				return nil
			}
			return wrapExit(os.WriteFile(outPath, []byte(text), 0o644), "disasm")
		},
	}
	cmd.Flags().StringVar(&codeName, "code", "", "name of the CODE entry to disassemble (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write output here instead of stdout")
	return cmd
}
