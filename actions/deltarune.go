// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// toggleDeltarune covers Deltarune chapters 1, 2 and 4 (chapter 3
// needs the separate, unimplemented handling in chapter3.go), ground:
// original_source's actions/toggle_debug/deltarune.rs.
//
// The source notes the scr_flag_get rewrite it also performs ("This is
// untested, undefined behavior could occur!" / "modifying control
// flow is hard") is itself unimplemented there - it bails out before
// attempting any instruction rewrite. This port carries that same
// boundary forward rather than guessing at control-flow surgery the
// source author explicitly backed away from.
func toggleDeltarune(d *gmdata.Data, enable bool) error {
	codeRef, err := d.CodeRefByName("gml_Object_obj_initializer2_Create_0")
	if err != nil {
		return err
	}
	if err := replaceDebug(d, codeRef, enable, gml.InstGlobal); err != nil {
		return err
	}

	if _, err := d.CodeByName("gml_Script_scr_flag_name_get"); err != nil {
		// Not present in this build; nothing further to do.
		return nil
	}

	return gmdata.ErrNotImplemented
}
