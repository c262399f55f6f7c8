// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import "github.com/gm-tools/gmdata/gml"

// findShortCircuits performs step 4 of SPEC_FULL.md §4.9/§5.10, ported
// directly from original_source's short_circuits.rs find_short_circuits:
// a block consisting of exactly one literal push is the operand of a
// GML `&&`/`||` short-circuit expression (the compiler emits these as
// single-instruction blocks reachable only from the short-circuit's
// own branch), so they are recorded rather than further decomposed.
// The literal's shape differs before bytecode version 15 (a bare
// PushImmediate) versus from 15 onward (a Push carrying an Int16
// value), mirroring the source's bytecode_version < 15 check.
func findShortCircuits(g *Graph, bytecodeVersion uint8) {
	preBytecode15 := bytecodeVersion < 15
	for i := range g.Nodes {
		block, ok := g.Nodes[i].Data.(BlockData)
		if !ok || len(block.Instructions) != 1 {
			continue
		}
		isShortCircuit := false
		switch v := block.Instructions[0].(type) {
		case *gml.PushImmediate:
			isShortCircuit = preBytecode15
		case *gml.Push:
			isShortCircuit = v.Value.Type == gml.Int16
		}
		if isShortCircuit {
			g.ShortCircuitBlocks = append(g.ShortCircuitBlocks, NodeRef{Index: i})
		}
	}
}
