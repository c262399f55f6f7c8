// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import (
	"sort"

	"github.com/gm-tools/gmdata"
)

// buildFragments performs step 2 of SPEC_FULL.md §4.9/§5.10: every
// other CODE catalog entry whose ModernData.Parent points at owner
// shares owner's bytecode buffer rather than carrying its own (see
// code.go's Code.IsRoot doc comment) - its Modern.Offset is the byte
// address, inside owner's already-block-split graph, where its body
// begins. This pass collapses the block nodes spanning
// [offset, nextFragmentOffsetOrEnd) into one FragmentData node per
// such entry, since a fragment's body is invoked indirectly (as a
// method/struct constructor) rather than reached by owner's own
// control flow - the CFG passes that follow (static inits, loops)
// only need to know not to analyze into it, not what's inside it.
func buildFragments(g *Graph, d *gmdata.Data, owner gmdata.Ref[gmdata.CodeKind]) error {
	type fragment struct {
		ref    gmdata.Ref[gmdata.CodeKind]
		offset uint32
	}
	var fragments []fragment
	for i := range d.Code {
		c := &d.Code[i]
		if c.Modern == nil || c.Modern.Parent.IsAbsent() {
			continue
		}
		if c.Modern.Parent != owner {
			continue
		}
		fragments = append(fragments, fragment{ref: gmdata.Ref[gmdata.CodeKind]{Index: int32(i)}, offset: c.Modern.Offset})
	}
	if len(fragments) == 0 {
		return nil
	}
	sort.Slice(fragments, func(i, j int) bool { return fragments[i].offset < fragments[j].offset })

	codeEnd := uint32(0)
	for _, n := range g.Nodes {
		if n.EndAddress > codeEnd {
			codeEnd = n.EndAddress
		}
	}

	for fi, frag := range fragments {
		end := codeEnd
		if fi+1 < len(fragments) {
			end = fragments[fi+1].offset
		}
		if err := spliceFragment(g, frag.offset, end, frag.ref); err != nil {
			return err
		}
	}
	return nil
}

// spliceFragment replaces every node whose address range falls within
// [start, end) with a single FragmentData node.
func spliceFragment(g *Graph, start, end uint32, owner gmdata.Ref[gmdata.CodeKind]) error {
	var idxs []int
	for i, n := range g.Nodes {
		if n.StartAddress >= start && n.EndAddress <= end && n.StartAddress < end {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return nil
	}

	inRange := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		inRange[i] = true
	}

	fragRef := g.push(newNode(start, end, FragmentData{Owner: owner}))

	var preds []NodeRef
	seen := make(map[NodeRef]bool)
	for _, i := range idxs {
		for _, p := range g.Nodes[i].Predecessors {
			if inRange[p.Index] || seen[p] {
				continue
			}
			seen[p] = true
			preds = append(preds, p)
			g.node(p).Successors.Replace(NodeRef{Index: i}, fragRef)
		}
	}
	g.node(fragRef).Predecessors = preds

	// Any edge from outside the range landing on a different member
	// of the range (not just its head) is retargeted at the fragment
	// node too, since the fragment is now opaque as a whole.
	for i := range g.Nodes {
		if inRange[i] || i == fragRef.Index {
			continue
		}
		for _, i2 := range idxs {
			g.Nodes[i].Successors.Replace(NodeRef{Index: i2}, fragRef)
		}
	}

	markRemoved(g, idxs)
	return nil
}

// markRemoved detaches spliced-out nodes from the graph's live set by
// clearing their edges; indices are kept stable (never compacted) so
// earlier NodeRefs collected by other passes stay valid.
func markRemoved(g *Graph, idxs []int) {
	for _, i := range idxs {
		g.Nodes[i].Predecessors = nil
		g.Nodes[i].Successors = Successors{}
	}
}
