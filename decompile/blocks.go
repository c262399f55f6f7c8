// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import (
	"sort"

	"github.com/gm-tools/gmdata/gml"
)

// buildBlocks performs step 1 of SPEC_FULL.md §4.9/§5.10: split instrs
// into straight-line BlockData nodes at every branch target and
// immediately after every branch/return/exit instruction, then wire
// each block's Successors/Predecessors. No original_source blocks.rs
// was retrieved (static_inits.rs and short_circuits.rs both assume it
// exists without defining it), so the leader-set algorithm below is
// this package's own, following the textbook basic-block construction
// the rest of the pipeline's node-splicing style implies.
//
// Branch.Offset is interpreted as a signed word count relative to the
// branch instruction's own address (addr(target) = addr(branch) +
// offset*4), the documented GameMaker VM convention this engine
// adopts throughout (see chains.go for the analogous note about the
// occurrence-chain delta encoding).
func buildBlocks(instrs []gml.Instruction) *Graph {
	addrs := make([]uint32, len(instrs)+1)
	var a uint32
	for i, ins := range instrs {
		addrs[i] = a
		a += gml.Size4(ins) * 4
	}
	addrs[len(instrs)] = a

	leaders := map[uint32]bool{0: true}
	for i, ins := range instrs {
		if branch, ok := ins.(*gml.Branch); ok {
			target := uint32(int64(addrs[i]) + int64(branch.Offset)*4)
			leaders[target] = true
		}
		if isBlockTerminator(ins) && i+1 < len(instrs) {
			leaders[addrs[i+1]] = true
		}
	}

	starts := make([]uint32, 0, len(leaders))
	for addr := range leaders {
		starts = append(starts, addr)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	// instrIndexAt maps a leader's address to the index of the first
	// instruction at or after it, so instruction ranges can be sliced
	// by address without an O(n) scan per block.
	instrIndexAt := make(map[uint32]int, len(addrs))
	for i, addr := range addrs {
		instrIndexAt[addr] = i
	}

	g := &Graph{}
	addrToNode := make(map[uint32]NodeRef, len(starts))
	for idx, start := range starts {
		end := addrs[len(instrs)]
		if idx+1 < len(starts) {
			end = starts[idx+1]
		}
		i0 := instrIndexAt[start]
		i1 := instrIndexAt[end]
		ref := g.push(newNode(start, end, BlockData{Instructions: instrs[i0:i1]}))
		addrToNode[start] = ref
	}

	for idx := range starts {
		ref := NodeRef{Index: idx}
		block := g.node(ref).Data.(BlockData)
		wireBlockSuccessors(g, addrToNode, ref, block.Instructions, g.node(ref).EndAddress, addrs[len(instrs)])
	}
	return g
}

// isBlockTerminator reports whether ins always ends its block: every
// branch-family opcode (conditional or not), and Return/Exit.
func isBlockTerminator(ins gml.Instruction) bool {
	switch v := ins.(type) {
	case *gml.Branch:
		return true
	case *gml.Misc:
		return v.Op == gml.OpRet || v.Op == gml.OpExit
	}
	return false
}

func wireBlockSuccessors(g *Graph, addrToNode map[uint32]NodeRef, ref NodeRef, instrs []gml.Instruction, endAddr, codeEnd uint32) {
	if len(instrs) == 0 {
		if endAddr < codeEnd {
			fallthroughSet(g, ref, addrToNode[endAddr])
		}
		return
	}
	last := instrs[len(instrs)-1]
	branch, isBranch := last.(*gml.Branch)
	switch {
	case isBranch && branch.Op == gml.OpBranch:
		target := addrToNode[branchTargetAddr(g, ref, instrs, branch)]
		branchSet(g, ref, target)
	case isBranch:
		// BranchIf/BranchUnless/PushWithContext/PopWithContext: both
		// a taken edge and a fall-through edge, per successors.rs's
		// Successors.branch_target doc comment.
		target := addrToNode[branchTargetAddr(g, ref, instrs, branch)]
		branchSet(g, ref, target)
		if endAddr < codeEnd {
			fallthroughSet(g, ref, addrToNode[endAddr])
		}
	case isReturnOrExit(last):
		// no successors.
	default:
		if endAddr < codeEnd {
			fallthroughSet(g, ref, addrToNode[endAddr])
		}
	}
}

func isReturnOrExit(ins gml.Instruction) bool {
	m, ok := ins.(*gml.Misc)
	return ok && (m.Op == gml.OpRet || m.Op == gml.OpExit)
}

// branchTargetAddr recomputes a branch instruction's absolute target
// address. n's node start address plus the byte offset of branch
// within n's own instruction list gives the branch's own address.
func branchTargetAddr(g *Graph, ref NodeRef, blockInstrs []gml.Instruction, branch *gml.Branch) uint32 {
	addr := g.node(ref).StartAddress
	for _, ins := range blockInstrs {
		if b, ok := ins.(*gml.Branch); ok && b == branch {
			break
		}
		addr += gml.Size4(ins) * 4
	}
	return uint32(int64(addr) + int64(branch.Offset)*4)
}

func branchSet(g *Graph, from, to NodeRef) {
	t := to
	g.node(from).Successors.BranchTarget = &t
	addPredecessor(g.node(to), from)
}

func fallthroughSet(g *Graph, from, to NodeRef) {
	t := to
	g.node(from).Successors.FallThrough = &t
	addPredecessor(g.node(to), from)
}
