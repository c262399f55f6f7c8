// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"testing"

	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// newUndertaleFixture builds a minimal *gmdata.Data carrying just
// enough catalog state for toggleUndertale to find and patch
// SCR_GAMESTART's "global.debug = 0" assignment: a string pool, one
// Variable named "debug", one Script pointing at one Code entry whose
// instructions are the push/pop pair replaceDebug scans for.
func newUndertaleFixture(t *testing.T, initialDebug int16) *gmdata.Data {
	t.Helper()
	pool := gmdata.NewStringPool()
	scriptName := pool.Intern("SCR_GAMESTART")
	debugName := pool.Intern("debug")

	d := &gmdata.Data{
		Strings:   pool,
		Variables: []gmdata.Variable{{Name: debugName}},
		Code: []gmdata.Code{{
			Name: pool.Intern("gml_Script_SCR_GAMESTART"),
			Instructions: []gml.Instruction{
				&gml.PushImmediate{Value: initialDebug},
				&gml.Pop{Type1: gml.Int32, Type2: gml.Variable, Variable: gml.CodeVariable{
					Variable:     0,
					VariableType: gml.VarNormal,
					Instance:     gml.InstanceTypeRef{Kind: gml.InstGlobal},
				}},
				&gml.Misc{Op: gml.OpRet, Type: gml.Variable},
			},
		}},
		Scripts: []gmdata.Script{{
			Name: scriptName,
			Code: gmdata.Ref[gmdata.CodeKind]{Index: 0},
		}},
	}
	return d
}

func debugLiteral(t *testing.T, d *gmdata.Data) int16 {
	t.Helper()
	push, ok := d.Code[0].Instructions[0].(*gml.PushImmediate)
	if !ok {
		t.Fatalf("instruction 0 is %T, want *gml.PushImmediate", d.Code[0].Instructions[0])
	}
	return push.Value
}

// TestToggleDebugIsIdempotent exercises spec.md §8 scenario 2: applying
// a debug-toggle action twice leaves the file in the same state as
// applying it once.
func TestToggleDebugIsIdempotent(t *testing.T) {
	d := newUndertaleFixture(t, 0)

	if err := ToggleDebug(d, VariantUndertale, true); err != nil {
		t.Fatalf("first ToggleDebug: %v", err)
	}
	if got := debugLiteral(t, d); got != 1 {
		t.Fatalf("after enabling, literal is %d, want 1", got)
	}

	if err := ToggleDebug(d, VariantUndertale, true); err != nil {
		t.Fatalf("second ToggleDebug: %v", err)
	}
	if got := debugLiteral(t, d); got != 1 {
		t.Fatalf("after re-enabling, literal is %d, want 1 (not idempotent)", got)
	}
}

func TestToggleDebugDisable(t *testing.T) {
	d := newUndertaleFixture(t, 1)
	if err := ToggleDebug(d, VariantUndertale, false); err != nil {
		t.Fatalf("ToggleDebug disable: %v", err)
	}
	if got := debugLiteral(t, d); got != 0 {
		t.Fatalf("after disabling, literal is %d, want 0", got)
	}
}

func TestToggleDebugUnimplementedVariantsErr(t *testing.T) {
	d := newUndertaleFixture(t, 0)
	if err := ToggleDebug(d, VariantChapter3, true); err == nil {
		t.Fatal("VariantChapter3 should report ErrNotImplemented, not succeed silently")
	}
}
