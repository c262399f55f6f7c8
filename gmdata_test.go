// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import (
	"bytes"
	"testing"

	"github.com/gm-tools/gmdata/gml"
)

// minimalData builds the smallest Data that exercises the catalog
// types spec.md §8 scenarios 1 and 3 care about: one named, occurring
// VARI entry and one root CODE entry that pushes a literal into it.
func minimalData(t *testing.T) *Data {
	t.Helper()
	pool := NewStringPool()
	d := &Data{
		Strings: pool,
		GeneralInfo: GeneralInfo{
			BytecodeVersion: 17,
			Filename:        NoRef[StringKind](),
			Config:          NoRef[StringKind](),
			Name:            pool.Intern("minimal"),
			DisplayName:     NoRef[StringKind](),
		},
		Variables: []Variable{{Name: pool.Intern("x")}},
		Code: []Code{{
			Name: pool.Intern("gml_Script_main"),
			Instructions: []gml.Instruction{
				&gml.PushImmediate{Value: 5},
				&gml.Pop{Type1: gml.Int32, Type2: gml.Variable, Variable: gml.CodeVariable{
					Variable:     0,
					VariableType: gml.VarNormal,
					Instance:     gml.InstanceTypeRef{Kind: gml.InstGlobal},
				}},
				&gml.Misc{Op: gml.OpRet, Type: gml.Variable},
			},
		}},
	}
	return d
}

// TestBuildParseRoundTrip is spec.md §8 scenario 1: a file built from
// an in-memory model reparses into an equivalent one (same code,
// string and variable catalogs), and scenario 3's size stability -
// rebuilding a freshly reparsed file produces identical bytes.
func TestBuildParseRoundTrip(t *testing.T) {
	d := minimalData(t)

	out1, err := d.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d2, err := Parse(out1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	name, err := d2.Strings.String(d2.Code[0].Name)
	if err != nil {
		t.Fatalf("resolving reparsed code name: %v", err)
	}
	if name != "gml_Script_main" {
		t.Fatalf("reparsed code entry named %q, want gml_Script_main", name)
	}
	if len(d2.Code[0].Instructions) != len(d.Code[0].Instructions) {
		t.Fatalf("reparsed code has %d instructions, want %d", len(d2.Code[0].Instructions), len(d.Code[0].Instructions))
	}

	varName, err := d2.Strings.String(d2.Variables[0].Name)
	if err != nil {
		t.Fatalf("resolving reparsed variable name: %v", err)
	}
	if varName != "x" {
		t.Fatalf("reparsed variable named %q, want x", varName)
	}

	out2, err := d2.Build()
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("rebuild is not stable: %d bytes vs %d bytes", len(out1), len(out2))
	}
}

// TestBuildParseRoundTripFeatures is a regression test for a FEAT chunk
// rebuild-stability bug: Build used to resolve each d.Features entry to
// its string and re-intern it into the pool on every call, so a second
// Build of a reparsed file grew STRG by one string per feature instead
// of reproducing the same bytes. Features must round-trip as StringRefs
// so a rebuild reuses the existing pool slot.
func TestBuildParseRoundTripFeatures(t *testing.T) {
	d := minimalData(t)
	d.Features = []StringRef{d.Strings.Intern("gml_Script_main_feature")}

	out1, err := d.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d2, err := Parse(out1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d2.Features) != 1 {
		t.Fatalf("reparsed Features has %d entries, want 1", len(d2.Features))
	}
	feats, err := d2.FeatureStrings()
	if err != nil {
		t.Fatalf("FeatureStrings: %v", err)
	}
	if feats[0] != "gml_Script_main_feature" {
		t.Fatalf("reparsed feature %q, want gml_Script_main_feature", feats[0])
	}

	out2, err := d2.Build()
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("rebuild is not stable with a non-empty FEAT chunk: %d bytes vs %d bytes", len(out1), len(out2))
	}
}

// TestCodeByNameAndRef checks the name/ref lookup helpers scenario 1's
// "find the script I just wrote back" step relies on.
func TestCodeByNameAndRef(t *testing.T) {
	d := minimalData(t)
	c, err := d.CodeByName("gml_Script_main")
	if err != nil {
		t.Fatalf("CodeByName: %v", err)
	}
	if !c.IsRoot() {
		t.Fatal("single CODE entry with no ModernData should be its own root")
	}

	ref, err := d.CodeRefByName("gml_Script_main")
	if err != nil {
		t.Fatalf("CodeRefByName: %v", err)
	}
	c2, err := d.CodeByRef(ref)
	if err != nil {
		t.Fatalf("CodeByRef: %v", err)
	}
	if c2 != c {
		t.Fatal("CodeByRef(CodeRefByName(name)) should resolve to the same entry CodeByName found")
	}
}
