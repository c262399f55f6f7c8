// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import "github.com/gm-tools/gmdata"

// toggleChapter3 covers Deltarune chapter 3 (2025-06-05 onward). The
// source file this is ported from, original_source's
// actions/toggle_debug/chapter3.rs, has no toggle function body at
// all - only imports - marking this variant's flag-accessor rewrite as
// never actually implemented upstream. Per spec.md §9's open question,
// this is left as a deliberate stub rather than a guess at undefined
// semantics.
func toggleChapter3(d *gmdata.Data, enable bool) error {
	return gmdata.ErrNotImplemented
}
