// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import "github.com/gm-tools/gmdata/gml"

// GameMaker's "run this block only once" guard (GMS2.3+ static
// variable initializers) is encoded as two of the Break opcode's
// extended sub-instructions. The retrieved original_source
// (static_inits.rs) names them HasStaticInitialized/
// SetStaticInitialized but never pins down their numeric sub-opcode
// values, so this package assigns its own - consistent only with
// itself, exactly like chains.go's occurrence-chain delta encoding.
const (
	subOpHasStaticInitialized int16 = -2
	subOpSetStaticInitialized int16 = -3
)

// findStaticInits performs step 3 of SPEC_FULL.md §4.9/§5.10, ported
// from original_source's static_inits.rs find_static_inits: a block
// ending in [break.e HasStaticInitialized, bt] is a static
// initializer guard - the branch-taken path skips the one-time init,
// the fall-through path runs it once. This collapses that pattern
// into a StaticInitData node wrapping the guarded block (the "head"),
// dropping both the check instructions and the matching
// SetStaticInitialized marker at the top of the skip target.
func findStaticInits(g *Graph) error {
	// Operate on the node count at entry - splicing appends new nodes,
	// which must never be re-scanned as candidate guard blocks.
	n := len(g.Nodes)
	for i := 0; i < n; i++ {
		ref := NodeRef{Index: i}
		block, ok := g.Nodes[i].Data.(BlockData)
		if !ok || len(block.Instructions) < 2 {
			continue
		}
		last := block.Instructions[len(block.Instructions)-1]
		prev := block.Instructions[len(block.Instructions)-2]
		if !isSubOp(prev, subOpHasStaticInitialized) {
			continue
		}
		branchIf, ok := last.(*gml.Branch)
		if !ok || branchIf.Op != gml.OpBranchIf {
			continue
		}
		if g.Nodes[i].Successors.FallThrough == nil || g.Nodes[i].Successors.BranchTarget == nil {
			continue
		}
		fallThrough := *g.Nodes[i].Successors.FallThrough
		branchTarget := *g.Nodes[i].Successors.BranchTarget

		staticInit := g.push(newNode(g.Nodes[i].EndAddress, g.node(branchTarget).StartAddress, StaticInitData{Head: fallThrough}))

		block.Instructions = block.Instructions[:len(block.Instructions)-2]
		g.Nodes[i].Data = block

		if bt, ok := g.node(branchTarget).Data.(BlockData); ok && len(bt.Instructions) > 0 && isSubOp(bt.Instructions[0], subOpSetStaticInitialized) {
			bt.Instructions = bt.Instructions[1:]
			g.node(branchTarget).Data = bt
		}

		if err := g.disconnectAllPredecessors(branchTarget); err != nil {
			return err
		}
		if err := g.disconnectFallthroughSuccessor(ref); err != nil {
			return err
		}

		fallthroughSet(g, ref, staticInit)
		branchSet(g, staticInit, branchTarget)

		g.node(staticInit).Parent = g.node(fallThrough).Parent
		p := staticInit
		g.node(fallThrough).Parent = &p
	}
	return nil
}

func isSubOp(ins gml.Instruction, sub int16) bool {
	m, ok := ins.(*gml.Misc)
	return ok && m.Op == gml.OpBreak && m.HasExtra && m.ExtraI16 == sub
}
