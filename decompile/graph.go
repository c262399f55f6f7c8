// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package decompile

// Graph is the control flow graph of one root CODE entry, ground:
// original_source's ControlFlowGraph (referenced throughout
// static_inits.rs/short_circuits.rs as `cfg`).
type Graph struct {
	Nodes []Node

	// ShortCircuitBlocks lists the nodes find_short_circuits (step 4)
	// identified as single-push short-circuit operands, ground:
	// short_circuits.rs's ctx.short_circuit_blocks.
	ShortCircuitBlocks []NodeRef
}

func (g *Graph) node(ref NodeRef) *Node { return &g.Nodes[ref.Index] }

func (g *Graph) push(n Node) NodeRef {
	g.Nodes = append(g.Nodes, n)
	return NodeRef{Index: len(g.Nodes) - 1}
}

// disconnectAllPredecessors detaches every predecessor edge pointing
// at ref (repointing nothing - the caller is about to give ref's
// incoming edges a new destination), ground: static_inits.rs's
// cfg.disconnect_all_predecessors.
func (g *Graph) disconnectAllPredecessors(ref NodeRef) error {
	target := g.node(ref)
	preds := target.Predecessors
	target.Predecessors = nil
	for _, p := range preds {
		if err := g.node(p).Successors.Remove(ref); err != nil {
			return err
		}
	}
	return nil
}

// disconnectFallthroughSuccessor clears ref's own fall-through edge
// and removes ref from that successor's predecessor list, ground:
// static_inits.rs's cfg.disconnect_fallthrough_successor.
func (g *Graph) disconnectFallthroughSuccessor(ref NodeRef) error {
	n := g.node(ref)
	if n.Successors.FallThrough == nil {
		return nil
	}
	succ := *n.Successors.FallThrough
	n.Successors.FallThrough = nil
	return removePredecessor(g.node(succ), ref)
}

func removePredecessor(n *Node, ref NodeRef) error {
	for i, p := range n.Predecessors {
		if p == ref {
			n.Predecessors = append(n.Predecessors[:i], n.Predecessors[i+1:]...)
			return nil
		}
	}
	return nil
}

func addPredecessor(n *Node, ref NodeRef) {
	n.Predecessors = append(n.Predecessors, ref)
}

// replaceInAllSuccessors repoints every node's successor edges that
// target search at replace, used when splicing a structured node in
// place of a range of flat nodes.
func (g *Graph) replaceInAllSuccessors(search, replace NodeRef) {
	for i := range g.Nodes {
		g.Nodes[i].Successors.Replace(search, replace)
	}
}
