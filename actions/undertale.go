// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// toggleUndertale covers any Undertale or NXTALE release (2015-09-15
// onward): SCR_GAMESTART's code sets global.debug once near the top,
// ground: original_source's actions/toggle_debug/undertale.rs.
func toggleUndertale(d *gmdata.Data, enable bool) error {
	script, err := d.ScriptByName("SCR_GAMESTART")
	if err != nil {
		return err
	}
	if script.Code.IsAbsent() {
		return gmdata.ErrInvalidReference
	}
	return replaceDebug(d, script.Code, enable, gml.InstGlobal)
}
