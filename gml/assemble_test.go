// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gml

import "testing"

// stringNames is a stubNames variant whose StringLiteral/InternString
// actually round-trip through a table, needed to exercise push.s with
// literals that contain spaces (stubNames.StringLiteral always returns
// the same constant, which can't catch a tokenization regression).
type stringNames struct {
	stubNames
	table []string
}

func (n *stringNames) StringLiteral(id int32) string { return n.table[id] }

func (n *stringNames) InternString(lit string) int32 {
	for i, s := range n.table {
		if s == lit {
			return int32(i)
		}
	}
	n.table = append(n.table, lit)
	return int32(len(n.table) - 1)
}

// TestAssembleDisassembleStringPushWithSpaces is a regression test for
// a tokenization bug: assembleLine used to split operands on
// strings.Fields, which breaks a quoted push.s literal containing
// whitespace into fragments ("Game Over" -> [`"Game`, `Over"`]) and
// fails to reassemble it. GML string literals routinely contain
// spaces, so this is the common case, not an edge case.
func TestAssembleDisassembleStringPushWithSpaces(t *testing.T) {
	names := &stringNames{table: []string{"Game Over"}}
	instrs := []Instruction{
		&Push{PushOp: OpPush, Value: PushValue{Type: String, Int32: 0}},
	}

	lines := Disassemble(instrs, names)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(lines), lines)
	}
	want := `push.s "Game Over"`
	if lines[0] != want {
		t.Fatalf("disassembled %q, want %q", lines[0], want)
	}

	reassembled, err := Assemble(lines, names)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	push, ok := reassembled[0].(*Push)
	if !ok {
		t.Fatalf("reassembled instruction is %T, want *Push", reassembled[0])
	}
	if push.Value.Type != String || names.table[push.Value.Int32] != "Game Over" {
		t.Fatalf("reassembled push operand %+v did not resolve back to %q", push.Value, "Game Over")
	}
}

// TestTokenizeLineKeepsQuotedSpaces checks the scanner directly against
// the shapes assembleLine's callers rely on: a quoted run with an
// embedded escaped quote stays one token, and plain operands still
// split on whitespace exactly like strings.Fields did.
func TestTokenizeLineKeepsQuotedSpaces(t *testing.T) {
	tokens, err := tokenizeLine(`push.s "say \"hi\" now" extra`)
	if err != nil {
		t.Fatalf("tokenizeLine: %v", err)
	}
	want := []string{"push.s", `"say \"hi\" now"`, "extra"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens %v, want %v", len(tokens), tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}

	if _, err := tokenizeLine(`push.s "unterminated`); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}
