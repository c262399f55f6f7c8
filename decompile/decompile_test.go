// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import (
	"testing"

	"github.com/gm-tools/gmdata/gml"
)

// wellFormed checks the two CFG invariants spec.md §8 scenario 5 names:
// every instruction belongs to exactly one block (trivially true here
// since buildBlocks partitions instrs by address), and every non-terminal
// node has at least one successor.
func wellFormed(t *testing.T, g *Graph) {
	t.Helper()
	for i := range g.Nodes {
		n := &g.Nodes[i]
		block, ok := n.Data.(BlockData)
		if !ok {
			continue
		}
		if len(block.Instructions) == 0 {
			continue
		}
		last := block.Instructions[len(block.Instructions)-1]
		if isReturnOrExit(last) {
			continue
		}
		if n.Successors.FallThrough == nil && n.Successors.BranchTarget == nil {
			t.Errorf("node %d ends in %T with no successor and isn't return/exit", i, last)
		}
	}
}

// straightLineCode is `push.e 1; pop.v.i local.a; ret.v`: no branches,
// so buildBlocks should produce exactly one block.
func straightLineCode() []gml.Instruction {
	return []gml.Instruction{
		&gml.PushImmediate{Value: 1},
		&gml.Pop{Type1: gml.Variable, Type2: gml.Int32, Variable: gml.CodeVariable{
			Instance: gml.InstanceTypeRef{Kind: gml.InstLocal},
		}},
		&gml.Misc{Op: gml.OpRet, Type: gml.Variable},
	}
}

func TestBuildBlocksStraightLine(t *testing.T) {
	g := buildBlocks(straightLineCode())
	if len(g.Nodes) != 1 {
		t.Fatalf("got %d blocks, want 1: no branch should not split the code", len(g.Nodes))
	}
	wellFormed(t, g)
}

// whileLoopCode is the bytecode shape GameMaker's compiler lowers
//
//	while (argument0 < 10) { argument0 += 1 }
//
// to: a conditional branch out of the loop, a body, and an
// unconditional branch back to the condition check.
func whileLoopCode() []gml.Instruction {
	arg := gml.CodeVariable{Instance: gml.InstanceTypeRef{Kind: gml.InstArgument}}
	return []gml.Instruction{
		// addr 0: push argument0 (3 words)
		&gml.Push{PushOp: gml.OpPush, Value: gml.PushValue{Type: gml.Variable, Var: arg}},
		// addr 12: push.e 10 (1 word)
		&gml.PushImmediate{Value: 10},
		// addr 16: cmp lt (1 word)
		&gml.Compare{Type1: gml.Variable, Type2: gml.Int32, Kind: gml.CmpLessThan},
		// addr 20: branch unless -> addr 60, the final ret (offset (60-20)/4=10)
		&gml.Branch{Op: gml.OpBranchUnless, Offset: 10},
		// addr 24: push argument0 (3 words)
		&gml.Push{PushOp: gml.OpPush, Value: gml.PushValue{Type: gml.Variable, Var: arg}},
		// addr 36: push.e 1 (1 word)
		&gml.PushImmediate{Value: 1},
		// addr 40: add.i.v (1 word)
		&gml.Arithmetic{Op: gml.OpAdd, Type1: gml.Int32, Type2: gml.Variable},
		// addr 44: pop.v.i argument0 (3 words)
		&gml.Pop{Type1: gml.Variable, Type2: gml.Int32, Variable: arg},
		// addr 56: branch -> addr 0 (offset (0-56)/4=-14)
		&gml.Branch{Op: gml.OpBranch, Offset: -14},
		// addr 60: ret.v
		&gml.Misc{Op: gml.OpRet, Type: gml.Variable},
	}
}

func TestFindLoopsRecognizesBackEdge(t *testing.T) {
	g := buildBlocks(whileLoopCode())
	wellFormed(t, g)

	findShortCircuits(g, 17)

	if err := findLoops(g); err != nil {
		t.Fatalf("findLoops: %v", err)
	}

	found := false
	for i := range g.Nodes {
		if ld, ok := g.Nodes[i].Data.(LoopData); ok {
			found = true
			if ld.Kind != LoopWhile && ld.Kind != LoopFor {
				t.Errorf("loop classified as %v, want while or for", ld.Kind)
			}
		}
	}
	if !found {
		t.Fatal("findLoops did not collapse the back edge into a LoopData node")
	}
}

func TestFindShortCircuitsMarksSinglePushBlocks(t *testing.T) {
	// `a && true`: the compiler emits the RHS literal as its own
	// single-instruction block, branched to only from the short-circuit
	// check - the exact shape find_short_circuits looks for.
	arg := gml.CodeVariable{Instance: gml.InstanceTypeRef{Kind: gml.InstArgument}}
	instrs := []gml.Instruction{
		// addr 0: push argument0 (3 words)
		&gml.Push{PushOp: gml.OpPush, Value: gml.PushValue{Type: gml.Variable, Var: arg}},
		// addr 12: branch unless -> addr 24, skipping the literal (offset (24-12)/4=3)
		&gml.Branch{Op: gml.OpBranchUnless, Offset: 3},
		// addr 16: push.e-shaped literal, the short-circuit operand (2 words)
		&gml.Push{PushOp: gml.OpPush, Value: gml.PushValue{Type: gml.Int16, Int16: 1}},
		// addr 24: ret.v
		&gml.Misc{Op: gml.OpRet, Type: gml.Variable},
	}
	g := buildBlocks(instrs)
	findShortCircuits(g, 17)
	if len(g.ShortCircuitBlocks) != 1 {
		t.Fatalf("got %d short-circuit blocks, want 1", len(g.ShortCircuitBlocks))
	}
}
