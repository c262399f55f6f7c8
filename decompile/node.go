// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package decompile reconstructs a root code entry's control flow
// graph from its decoded instruction stream: block splitting, fragment
// (sub-function) recovery, static-initializer and short-circuit
// pattern recognition, and loop classification. It deliberately stops
// there - rebuilding an expression/AST tree and rendering GML source
// text is explicitly out of scope (spec.md §4.9, §9 "Decompiler
// completeness"), ground: original_source's
// src/gml/decompiler/control_flow/{node,node_ref,successors,
// static_inits,short_circuits}.rs.
package decompile

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// NodeRef indexes into a Graph's Nodes slice, ground: node_ref.rs's
// NodeRef (there a transparent wrapper over a raw index; the source's
// separate Block/Fragment/StaticInit/Loop index spaces are collapsed
// into one Nodes slice here since Go's NodeData interface already
// discriminates kind without needing per-kind arenas).
type NodeRef struct {
	Index int
}

// Node is one vertex of the control flow graph, ground: node.rs's
// Node<'d>.
type Node struct {
	// StartAddress is the byte address (relative to the owning root
	// code entry's bytecode) of this node's first instruction.
	StartAddress uint32
	// EndAddress is the address just past this node's last
	// instruction (exclusive).
	EndAddress uint32

	Predecessors []NodeRef
	Successors   Successors

	// Parent points at the enveloping high-level structure (a Loop or
	// StaticInit) once this node has been spliced out of the flat
	// graph into one, mirroring node.rs's disconnection scheme.
	Parent *NodeRef

	Data NodeData
}

// NodeData is the per-kind payload of a Node, standing in for the
// source's NodeData enum (Go has no tagged union, so each kind is its
// own type satisfying this marker interface instead).
type NodeData interface {
	isNodeData()
}

// BlockData is a straight-line run of instructions with no internal
// control flow, ground: blocks.rs's Block (not retrieved verbatim in
// original_source, but its shape is implied throughout node.rs,
// static_inits.rs and short_circuits.rs).
type BlockData struct {
	Instructions []gml.Instruction
}

func (BlockData) isNodeData() {}

// FragmentData marks a range of the root entry's bytecode that
// actually belongs to a separate CODE catalog entry (a GMS2.3+
// sub-function or struct constructor sharing its parent's bytecode
// buffer), ground: SPEC_FULL.md §5.10 step 2 / code.go's
// ModernData.Offset design.
type FragmentData struct {
	// Owner is the CODE entry whose Modern.Offset landed in this
	// range.
	Owner gmdata.Ref[gmdata.CodeKind]
}

func (FragmentData) isNodeData() {}

// StaticInitData marks a spliced-out "run this block only once"
// guard, ground: static_inits.rs's StaticInit.
type StaticInitData struct {
	// Head is the node executed the first time control reaches this
	// structure (the previously-fall-through block guarded by the
	// HasStaticInitialized check).
	Head NodeRef
}

func (StaticInitData) isNodeData() {}

// LoopKind classifies a recognized loop's surface shape. GameMaker's
// compiler lowers every GML loop form to the same branch/back-edge
// bytecode shapes (aside from `with`, which gets dedicated
// PushWithContext/PopWithContext opcodes), so these kinds are
// distinguished structurally rather than by any dedicated opcode.
type LoopKind int

const (
	LoopWhile LoopKind = iota
	LoopDoWhile
	LoopFor
	LoopRepeat
	LoopWith
)

func (k LoopKind) String() string {
	switch k {
	case LoopWhile:
		return "while"
	case LoopDoWhile:
		return "do-while"
	case LoopFor:
		return "for"
	case LoopRepeat:
		return "repeat"
	case LoopWith:
		return "with"
	default:
		return "loop"
	}
}

// LoopData marks a spliced-out loop structure, ground: SPEC_FULL.md
// §5.10 step 5 (no original_source loops.rs was retrieved; back-edge
// detection and this classification are this package's own design,
// following the same splice-and-reparent discipline static_inits.rs
// demonstrates for a simpler structure).
type LoopData struct {
	Kind LoopKind
	// Head is the loop's first body node (the node the back edge
	// jumps to).
	Head NodeRef
}

func (LoopData) isNodeData() {}

func newNode(start, end uint32, data NodeData) Node {
	return Node{StartAddress: start, EndAddress: end, Data: data}
}
