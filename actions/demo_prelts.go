// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// toggleDemoPreLTS covers the Deltarune 1&2 demo before the LTS
// re-release (2021-09-17 to 2025-06-05): three separate code entries
// need patching, ground: original_source's
// actions/toggle_debug/demo_prelts.rs.
func toggleDemoPreLTS(d *gmdata.Data, enable bool) error {
	script, err := d.ScriptByName("SCR_GAMESTART")
	if err != nil {
		return err
	}
	if script.Code.IsAbsent() {
		return gmdata.ErrInvalidReference
	}
	if err := replaceDebug(d, script.Code, enable, gml.InstGlobal); err != nil {
		return err
	}

	controllerRef, err := d.CodeRefByName("gml_Object_obj_debugcontroller_ch1_Create_0")
	if err != nil {
		return err
	}
	if err := replaceDebug(d, controllerRef, enable, gml.InstSelf); err != nil {
		return err
	}

	// obj_debugProfiler's Create event doesn't toggle a variable: its
	// whole body is either the two instructions that zero
	// self.cutsceneshow (enabling) or nothing at all (disabling), so
	// there's no existing pattern for replaceDebug to locate.
	profiler, err := d.CodeByName("gml_Object_obj_debugProfiler_Create_0")
	if err != nil {
		return err
	}
	if !enable {
		profiler.Instructions = nil
		return nil
	}

	idx, err := d.VariableByName("cutsceneshow")
	if err != nil {
		return err
	}
	cutsceneshow := gml.CodeVariable{
		Variable:     gml.VarRef(idx),
		VariableType: gml.VarNormal,
		Instance:     gml.InstanceTypeRef{Kind: gml.InstSelf},
	}
	profiler.Instructions = []gml.Instruction{
		pushInt(false),
		popVariable(cutsceneshow),
	}
	return nil
}
