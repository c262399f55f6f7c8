// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

import "github.com/gm-tools/gmdata"

// Successors holds a node's outgoing control-flow edges, ported
// directly from original_source's successors.rs.
type Successors struct {
	// FallThrough is the next node executed when control continues
	// sequentially. Nil when the node ends in an unconditional
	// Branch, a Return/Exit, or is the graph's last node.
	FallThrough *NodeRef

	// BranchTarget is the node jumped to when a conditional branch
	// (or PushWithContext/PopWithContext) is taken, or the
	// unconditional target of a plain Branch.
	BranchTarget *NodeRef

	// Catch is unused by this engine (GML bytecode has no try/catch
	// opcode this corpus's pack surfaces); kept for shape parity with
	// successors.rs's Successors.catch, which the source reserves for
	// try-block finally targets.
	Catch *NodeRef
}

// Replace repoints every edge equal to search at replace, ground:
// successors.rs's Successors::replace.
func (s *Successors) Replace(search, replace NodeRef) {
	if s.BranchTarget != nil && *s.BranchTarget == search {
		r := replace
		s.BranchTarget = &r
	}
	if s.FallThrough != nil && *s.FallThrough == search {
		r := replace
		s.FallThrough = &r
	}
	if s.Catch != nil && *s.Catch == search {
		r := replace
		s.Catch = &r
	}
}

// Remove clears whichever edge equals search, ground: successors.rs's
// Successors::remove; returns gmdata.ErrInvalidReference if search
// does not appear.
func (s *Successors) Remove(search NodeRef) error {
	found := false
	if s.BranchTarget != nil && *s.BranchTarget == search {
		s.BranchTarget = nil
		found = true
	}
	if s.FallThrough != nil && *s.FallThrough == search {
		s.FallThrough = nil
		found = true
	}
	if s.Catch != nil && *s.Catch == search {
		s.Catch = nil
		found = true
	}
	if !found {
		return gmdata.ErrInvalidReference
	}
	return nil
}
