// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// toggleChapter1Old covers the Deltarune chapter 1 build that predates
// the 1&2 demo (2018-08-31 to 2021-09-17). scr_debug's entire body is
// replaced rather than patched in place - the source script is just
// four instructions setting and re-returning global.debug, ground:
// original_source's actions/toggle_debug/chapter1_old.rs.
func toggleChapter1Old(d *gmdata.Data, enable bool) error {
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

	global, err := debugVariable(d, gml.InstGlobal)
	if err != nil {
		return err
	}

	code.Instructions = []gml.Instruction{
		pushInt(enable),
		popVariable(global),
		pushVariable(global),
		returnValue(),
	}
	return nil
}
