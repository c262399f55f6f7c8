// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gml

import (
	"fmt"
	"strconv"
	"strings"
)

// NameInterner is Assemble's counterpart to NameResolver: it turns a
// textual name back into a catalog index, interning new strings as
// needed (e.g. when a line refers to a variable not yet in VARI).
type NameInterner interface {
	InternVariable(name string) VarRef
	InternFunction(name string) FuncRef
	InternString(lit string) int32
}

// AssembleError reports a malformed assembler line, wrapping
// SPEC_FULL.md's "assembler parse error" kind.
type AssembleError struct {
	Line int
	Text string
	Msg  string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("gml: assembler error at line %d (%q): %s", e.Line, e.Text, e.Msg)
}

// Assemble parses one instruction per line per the grammar in
// disassemble.go's doc comment, returning instructions in order.
// Reassembling Disassemble's output gives back the same opcodes, types
// and operands, with these exceptions: every variable reference comes
// back with VariableType VarNormal and IsInt32 false, a game-object
// instance ("obj<N>") is rejected as an unknown instance specifier, and
// a Push of type Int16 comes back as a PushImmediate, since both are
// written as "push.e".
func Assemble(lines []string, names NameInterner) ([]Instruction, error) {
	out := make([]Instruction, 0, len(lines))
	for lineNo, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		ins, err := assembleLine(line, names)
		if err != nil {
			return nil, &AssembleError{Line: lineNo + 1, Text: line, Msg: err.Error()}
		}
		out = append(out, ins)
	}
	return out, nil
}

func assembleLine(line string, names NameInterner) (Instruction, error) {
	fields, err := tokenizeLine(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty instruction line")
	}
	head := fields[0]
	operands := fields[1:]
	parts := strings.Split(head, ".")
	mnemonic := parts[0]
	types := parts[1:]
	if len(parts) >= 2 {
		if _, ok := ParseMnemonic(parts[0] + "." + parts[1]); ok {
			mnemonic = parts[0] + "." + parts[1]
			types = parts[2:]
		}
	}

	op, ok := ParseMnemonic(mnemonic)
	if !ok {
		return nil, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}

	dtAt := func(i int) (DataType, error) {
		if i >= len(types) {
			return 0, fmt.Errorf("missing type operand %d", i)
		}
		dt, ok := ParseDataTypeLetter(types[i][0])
		if !ok {
			return 0, fmt.Errorf("unknown type letter %q", types[i])
		}
		return dt, nil
	}

	switch {
	case op.IsArithmetic():
		t1, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		t2, err := dtAt(1)
		if err != nil {
			return nil, err
		}
		return &Arithmetic{Op: op, Type1: t1, Type2: t2}, nil

	case op == OpCmp:
		t1, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		t2, err := dtAt(1)
		if err != nil {
			return nil, err
		}
		if len(operands) < 1 {
			return nil, fmt.Errorf("cmp requires a comparison symbol operand")
		}
		kind, ok := parseComparisonSymbol(operands[0])
		if !ok {
			return nil, fmt.Errorf("unknown comparison %q", operands[0])
		}
		return &Compare{Type1: t1, Type2: t2, Kind: kind}, nil

	case op == OpDup:
		t, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		if len(operands) < 1 {
			return nil, fmt.Errorf("dup requires a size operand")
		}
		size, err := strconv.Atoi(operands[0])
		if err != nil {
			return nil, err
		}
		d := &Duplicate{Type: t, Size: uint8(size)}
		if len(operands) >= 2 {
			mode, err := strconv.Atoi(operands[1])
			if err != nil {
				return nil, err
			}
			d.SwapMode = uint8(mode)
			d.HasSwap = true
		}
		return d, nil

	case op == OpPushImmediate:
		if len(operands) < 1 {
			return nil, fmt.Errorf("push.e requires an integer operand")
		}
		v, err := parseIntLiteral(operands[0])
		if err != nil {
			return nil, err
		}
		return &PushImmediate{Value: int16(v)}, nil

	case op == OpPush || op == OpPushLocal || op == OpPushGlobal || op == OpPushBuiltin:
		dt, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		if len(operands) < 1 {
			return nil, fmt.Errorf("%s requires an operand", mnemonic)
		}
		val, err := parsePushOperand(dt, operands[0], names)
		if err != nil {
			return nil, err
		}
		return &Push{PushOp: op, Value: val}, nil

	case op == OpPop:
		t1, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		t2, err := dtAt(1)
		if err != nil {
			return nil, err
		}
		if len(operands) < 1 {
			return nil, fmt.Errorf("pop requires a variable operand")
		}
		cv, err := parseVariable(operands[0], names)
		if err != nil {
			return nil, err
		}
		return &Pop{Type1: t1, Type2: t2, Variable: cv}, nil

	case op.IsBranch():
		if len(operands) < 1 {
			return nil, fmt.Errorf("%s requires a jump-offset operand", mnemonic)
		}
		v, err := parseIntLiteral(operands[0])
		if err != nil {
			return nil, err
		}
		return &Branch{Op: op, Offset: int32(v)}, nil

	case op == OpCall:
		t, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		if len(operands) < 2 {
			return nil, fmt.Errorf("call requires function and argcount operands")
		}
		fn := names.InternFunction(operands[0])
		argc, err := strconv.Atoi(operands[1])
		if err != nil {
			return nil, err
		}
		return &Call{ArgCount: uint8(argc), Type: t, Function: fn}, nil

	case op == OpRet || op == OpExit || op == OpPopz:
		t, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		return &Misc{Op: op, Type: t}, nil

	case op == OpBreak:
		t, err := dtAt(0)
		if err != nil {
			return nil, err
		}
		m := &Misc{Op: op, Type: t}
		if len(operands) >= 1 {
			v, err := parseIntLiteral(operands[0])
			if err != nil {
				return nil, err
			}
			m.ExtraI16 = int16(v)
			m.HasExtra = true
		}
		return m, nil

	default:
		return nil, fmt.Errorf("mnemonic %q not assignable to a known opcode family", mnemonic)
	}
}

func parsePushOperand(dt DataType, tok string, names NameInterner) (PushValue, error) {
	pv := PushValue{Type: dt}
	switch dt {
	case Int16:
		v, err := parseIntLiteral(tok)
		if err != nil {
			return pv, err
		}
		pv.Int16 = int16(v)
	case Int32:
		v, err := parseIntLiteral(tok)
		if err != nil {
			return pv, err
		}
		pv.Int32 = int32(v)
	case Int64:
		v, err := parseIntLiteral(tok)
		if err != nil {
			return pv, err
		}
		pv.Int64 = v
	case Double:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return pv, err
		}
		pv.Double = f
	case Boolean:
		pv.Bool = tok == "true"
	case String:
		lit, err := unquoteString(tok)
		if err != nil {
			return pv, err
		}
		pv.Int32 = names.InternString(lit)
	case Variable:
		cv, err := parseVariable(tok, names)
		if err != nil {
			return pv, err
		}
		pv.Var = cv
	}
	return pv, nil
}

func parseVariable(tok string, names NameInterner) (CodeVariable, error) {
	idx := strings.IndexByte(tok, '.')
	if idx < 0 {
		return CodeVariable{}, fmt.Errorf("malformed variable reference %q (want instance.name)", tok)
	}
	instTok, nameTok := tok[:idx], tok[idx+1:]
	inst, err := parseInstance(instTok)
	if err != nil {
		return CodeVariable{}, err
	}
	return CodeVariable{Variable: names.InternVariable(nameTok), Instance: inst, VariableType: VarNormal}, nil
}

func parseInstance(tok string) (InstanceTypeRef, error) {
	switch tok {
	case "self":
		return InstanceTypeRef{Kind: InstSelf}, nil
	case "other":
		return InstanceTypeRef{Kind: InstOther}, nil
	case "global":
		return InstanceTypeRef{Kind: InstGlobal}, nil
	case "local":
		return InstanceTypeRef{Kind: InstLocal}, nil
	case "arg":
		return InstanceTypeRef{Kind: InstArgument}, nil
	case "stacktop":
		return InstanceTypeRef{Kind: InstStackTop}, nil
	case "builtin":
		return InstanceTypeRef{Kind: InstBuiltin}, nil
	case "static":
		return InstanceTypeRef{Kind: InstStatic}, nil
	case "all":
		return InstanceTypeRef{Kind: InstAll}, nil
	case "none":
		return InstanceTypeRef{Kind: InstNone}, nil
	default:
		if n, err := strconv.Atoi(tok); err == nil {
			return InstanceTypeRef{Kind: InstRoomInstance, RoomInstanceID: int16(n - 100000)}, nil
		}
		return InstanceTypeRef{}, fmt.Errorf("unknown instance specifier %q", tok)
	}
}

func parseComparisonSymbol(tok string) (ComparisonType, bool) {
	for k, v := range comparisonSymbols {
		if v == tok {
			return k, true
		}
	}
	return 0, false
}

func parseIntLiteral(tok string) (int64, error) {
	tok = strings.ReplaceAll(tok, "_", "")
	base := 10
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		base = 16
		tok = tok[2:]
	}
	return strconv.ParseInt(tok, base, 64)
}

// tokenizeLine splits line on whitespace like strings.Fields, except a
// double-quoted run is kept as a single token even when it contains
// spaces - disassemble.go's quoteString emits push.s operands this way,
// and unquoteString expects the surrounding quotes still attached. A
// backslash inside the quotes escapes the next byte, so an escaped
// quote doesn't end the run early.
func tokenizeLine(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes, escaped, hasToken := false, false, false

	flush := func() {
		if hasToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			cur.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuotes = false
			}
		case c == '"':
			inQuotes = true
			hasToken = true
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		default:
			hasToken = true
			cur.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated string literal in %q", line)
	}
	flush()
	return tokens, nil
}

func unquoteString(tok string) (string, error) {
	if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %q", tok)
	}
	inner := tok[1 : len(tok)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
