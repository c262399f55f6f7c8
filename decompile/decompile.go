// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import (
	"github.com/gm-tools/gmdata"
	"github.com/pkg/errors"
)

// Build runs the full control flow recovery pipeline over one root
// CODE catalog entry, ground: original_source's decompiler.rs
// decompile_to_ast, which calls find_blocks, find_fragments,
// find_static_inits, find_short_circuits and find_loops in that exact
// order (each pass assumes the graph shape the previous one left
// behind - static-init guards must be recognized before loops collapse
// their header blocks, for instance).
//
// codeRef must name a root entry (gmdata.Code.IsRoot); fragments are
// recovered as part of their owner's graph, never decompiled on their
// own (spec.md §4.9).
func Build(d *gmdata.Data, codeRef gmdata.Ref[gmdata.CodeKind]) (*Graph, error) {
	code, err := d.CodeByRef(codeRef)
	if err != nil {
		return nil, errors.Wrap(err, "resolving code entry")
	}
	if !code.IsRoot() {
		name, _ := d.Strings.String(code.Name)
		return nil, errors.Errorf("code entry %q is a fragment; decompile its owner instead", name)
	}

	g := buildBlocks(code.Instructions)
	if err := buildFragments(g, d, codeRef); err != nil {
		return nil, errors.Wrap(err, "finding fragments")
	}
	if err := findStaticInits(g); err != nil {
		return nil, errors.Wrap(err, "finding static initializers")
	}
	findShortCircuits(g, d.GeneralInfo.BytecodeVersion)
	if err := findLoops(g); err != nil {
		return nil, errors.Wrap(err, "finding loops")
	}
	return g, nil
}

// Root returns every top-level node of the Graph - each node whose
// Parent is nil - in the order they appear in Nodes. There may be
// several, since blocks not folded into a structure (a loop, a static
// init) stay at the top level.
func (g *Graph) Root() []NodeRef {
	var roots []NodeRef
	for i := range g.Nodes {
		if g.Nodes[i].Parent == nil {
			roots = append(roots, NodeRef{Index: i})
		}
	}
	return roots
}
