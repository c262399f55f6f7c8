// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package actions implements the high-level bytecode-patching family
// described by spec.md §4.10: locate a specific instruction pattern
// and rewrite it in place, idempotently. The debug-mode toggle is the
// only member of this family the retrieved original_source carries,
// ground: original_source's libgm/src/actions/toggle_debug/*.rs - one
// file per game variant, sharing the replaceDebug helper below.
package actions

import (
	"github.com/gm-tools/gmdata"
)

// Variant selects which game build's toggle-debug strategy to run,
// standing in for the source's one-module-per-variant dispatch (there
// the caller picks the module via its own build/import; here it picks
// a Variant value instead since Go has no equivalent of importing a
// sibling module conditionally).
type Variant int

const (
	// VariantUndertale covers any Undertale or NXTALE release.
	VariantUndertale Variant = iota
	// VariantChapter1Old is the Deltarune chapter 1 build that predates
	// the 1&2 demo (2018-08-31 to 2021-09-17).
	VariantChapter1Old
	// VariantDemoPreLTS is the Deltarune 1&2 demo before the LTS
	// re-release (2021-09-17 to 2025-06-05).
	VariantDemoPreLTS
	// VariantDemoLTSCh1 is the Deltarune demo LTS re-release, chapter 1.
	VariantDemoLTSCh1
	// VariantDemoLTSCh2 is the Deltarune demo LTS re-release, chapter 2.
	VariantDemoLTSCh2
	// VariantDeltarune covers Deltarune chapters 1, 2 and 4 (chapter 3
	// needs the separate, unimplemented handling in chapter3.go).
	VariantDeltarune
	// VariantChapter3 is Deltarune chapter 3 (and 4's chapter-3-shaped
	// data): deliberately unimplemented, see chapter3.go.
	VariantChapter3
)

// ToggleDebug dispatches to the game variant's own debug-toggle
// strategy, mirroring the source's per-variant toggle(data, enable)
// entry point.
func ToggleDebug(d *gmdata.Data, variant Variant, enable bool) error {
	switch variant {
	case VariantUndertale:
		return toggleUndertale(d, enable)
	case VariantChapter1Old:
		return toggleChapter1Old(d, enable)
	case VariantDemoPreLTS:
		return toggleDemoPreLTS(d, enable)
	case VariantDemoLTSCh1:
		return toggleDemoLTSCh1(d, enable)
	case VariantDemoLTSCh2:
		return toggleDemoLTSCh2(d, enable)
	case VariantDeltarune:
		return toggleDeltarune(d, enable)
	case VariantChapter3:
		return toggleChapter3(d, enable)
	default:
		return gmdata.ErrNotImplemented
	}
}
