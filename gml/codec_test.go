// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gml

import "testing"

// a stub NameResolver/NameInterner pair good enough for tests that
// don't exercise real catalog lookups - every variable/function is
// named after its raw index.
type stubNames struct{}

func (stubNames) VariableName(ref VarRef) string   { return "x" }
func (stubNames) FunctionName(ref FuncRef) string  { return "fn" }
func (stubNames) StringLiteral(id int32) string    { return "lit" }
func (stubNames) InternVariable(name string) VarRef  { return 0 }
func (stubNames) InternFunction(name string) FuncRef { return 0 }
func (stubNames) InternString(lit string) int32      { return 0 }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	instrs := []Instruction{
		&PushImmediate{Value: 42},
		&Arithmetic{Op: OpConv, Type1: Int32, Type2: Variable},
		&Pop{Type1: Variable, Type2: Int32, Variable: CodeVariable{
			Variable:     0,
			VariableType: VarNormal,
			Instance:     InstanceTypeRef{Kind: InstGlobal},
		}},
		&Misc{Op: OpRet, Type: Variable},
	}

	raw, _, err := Encode(instrs, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, _, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != len(instrs) {
		t.Fatalf("got %d instructions, want %d", len(decoded), len(instrs))
	}
	for i, want := range instrs {
		if decoded[i].Opcode() != want.Opcode() {
			t.Errorf("instruction %d: opcode %v, want %v", i, decoded[i].Opcode(), want.Opcode())
		}
	}
}

// TestAssembleDisassembleScenario exercises the four-instruction shape
// spec.md §8 scenario 4 describes (push an int16 literal, convert it
// to a variable-typed value, pop it into global.x, return) and checks
// that Disassemble/Assemble round-trip losslessly. The rendered
// mnemonic for the literal push is this engine's own "push.e" (the
// int16-literal letter per DataType.String), not the scenario prose's
// illustrative "push.i".
func TestAssembleDisassembleScenario(t *testing.T) {
	instrs := []Instruction{
		&PushImmediate{Value: 42},
		&Arithmetic{Op: OpConv, Type1: Int32, Type2: Variable},
		&Pop{Type1: Variable, Type2: Int32, Variable: CodeVariable{
			Variable:     0,
			VariableType: VarNormal,
			Instance:     InstanceTypeRef{Kind: InstGlobal},
		}},
		&Misc{Op: OpRet, Type: Variable},
	}

	names := stubNames{}
	lines := Disassemble(instrs, names)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %v", len(lines), lines)
	}

	reassembled, err := Assemble(lines, names)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(reassembled) != len(instrs) {
		t.Fatalf("got %d reassembled instructions, want %d", len(reassembled), len(instrs))
	}

	lines2 := Disassemble(reassembled, names)
	for i := range lines {
		if lines[i] != lines2[i] {
			t.Errorf("line %d drifted: %q vs %q", i, lines[i], lines2[i])
		}
	}
}

func TestSize4WordsCoversBranchArithmetic(t *testing.T) {
	if (&Branch{Op: OpBranch, Offset: 3}).Opcode() != OpBranch {
		t.Fatal("Branch.Opcode() mismatch")
	}
	if Size4(&Call{ArgCount: 1, Type: Variable, Function: 0}) != 2 {
		t.Fatal("Call should occupy 2 words")
	}
	if Size4(&Pop{Type1: Variable, Type2: Int32}) != 3 {
		t.Fatal("Pop should occupy 3 words (header + chain + metadata)")
	}
}
