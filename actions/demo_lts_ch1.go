// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// toggleDemoLTSCh1 covers the Deltarune demo LTS re-release, chapter 1
// (2025-06-05 onward), ground: original_source's
// actions/toggle_debug/demo_lts_ch1.rs.
func toggleDemoLTSCh1(d *gmdata.Data, enable bool) error {
	codeRef, err := d.CodeRefByName("gml_Object_obj_debugcontroller_Create_0")
	if err != nil {
		return err
	}
	return replaceDebug(d, codeRef, enable, gml.InstGlobal)
}
