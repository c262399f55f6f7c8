// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// toggleDemoLTSCh2 covers the Deltarune demo LTS re-release, chapter 2
// (2025-06-05 onward). scr_debug's body is a GMS2.3-style memoized
// accessor: a forward branch past a one-time closure-construction
// sequence that binds gml_Script_scr_debug as a method and caches it
// on self.scr_debug, ground: original_source's
// actions/toggle_debug/demo_lts_ch2.rs's inline assembly block. The
// branch distance is computed from the instructions' own word sizes
// rather than copied as a hardcoded literal, since this engine's
// Branch.Offset is in 4-byte words relative to the branch
// instruction's own address (see decompile/blocks.go).
func toggleDemoLTSCh2(d *gmdata.Data, enable bool) error {
	script, err := d.ScriptByName("scr_debug")
	if err != nil {
		return err
	}
	if script.Code.IsAbsent() {
		return gmdata.ErrInvalidReference
	}
	code, err := d.CodeByRef(script.Code)
	if err != nil {
		return err
	}

	scrDebugFunc, err := d.FunctionByName("gml_Script_scr_debug")
	if err != nil {
		return err
	}
	selfScrDebug, err := d.VariableByName("scr_debug")
	if err != nil {
		return err
	}
	scrDebugVar := gml.CodeVariable{
		Variable:     gml.VarRef(selfScrDebug),
		VariableType: gml.VarStackTop,
		Instance:     gml.InstanceTypeRef{Kind: gml.InstSelf},
	}

	tail := []gml.Instruction{
		&gml.Push{PushOp: gml.OpPush, Value: gml.PushValue{Type: gml.Int32, Int32: int32(scrDebugFunc)}},
		&gml.Arithmetic{Op: gml.OpConv, Type1: gml.Int32, Type2: gml.Variable},
		&gml.PushImmediate{Value: -1},
		&gml.Arithmetic{Op: gml.OpConv, Type1: gml.Int32, Type2: gml.Variable},
		&gml.Call{ArgCount: 2, Type: gml.Variable, Function: gml.FuncRef(scrDebugFunc)},
		&gml.Duplicate{Type: gml.Variable, Size: 0},
		&gml.PushImmediate{Value: -1},
		&gml.Pop{Type1: gml.Variable, Type2: gml.Variable, Variable: scrDebugVar},
		&gml.Misc{Op: gml.OpPopz, Type: gml.Variable},
	}

	head := []gml.Instruction{
		nil, // placeholder for the forward Branch, filled in below once tail's size is known
		pushInt(enable),
		&gml.Arithmetic{Op: gml.OpConv, Type1: gml.Int32, Type2: gml.Variable},
		&gml.Misc{Op: gml.OpRet, Type: gml.Variable},
		&gml.Misc{Op: gml.OpExit, Type: gml.Int32},
	}

	var afterBranchWords uint32
	for _, instr := range head[1:] {
		afterBranchWords += gml.Size4(instr)
	}
	head[0] = &gml.Branch{Op: gml.OpBranch, Offset: int32(1 + afterBranchWords)}

	code.Instructions = append(head, tail...)
	return nil
}
