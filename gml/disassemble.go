// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gml

import (
	"fmt"
	"strconv"
	"strings"
)

// NameResolver supplies the human-readable names the disassembler
// substitutes for raw VarRef/FuncRef/string-id operands; the caller
// (gmdata, which owns the string pool and catalog lists) implements
// it. A nil resolver falls back to printing the raw numeric index.
type NameResolver interface {
	VariableName(VarRef) string
	FunctionName(FuncRef) string
	StringLiteral(id int32) string
}

// Disassemble renders one instruction per line, per SPEC_FULL.md
// §5.9's grammar: "mnemonic[.type[.type]] operand...".
func Disassemble(instrs []Instruction, names NameResolver) []string {
	lines := make([]string, 0, len(instrs))
	for _, ins := range instrs {
		lines = append(lines, disassembleOne(ins, names))
	}
	return lines
}

func disassembleOne(ins Instruction, names NameResolver) string {
	switch v := ins.(type) {
	case *Arithmetic:
		return fmt.Sprintf("%s.%s.%s", v.Op.Mnemonic(), v.Type1, v.Type2)
	case *Compare:
		return fmt.Sprintf("cmp.%s.%s %s", v.Type1, v.Type2, v.Kind)
	case *Duplicate:
		if v.HasSwap {
			return fmt.Sprintf("dup.%s %d %d", v.Type, v.Size, v.SwapMode)
		}
		return fmt.Sprintf("dup.%s %d", v.Type, v.Size)
	case *PushImmediate:
		return fmt.Sprintf("push.e %d", v.Value)
	case *Push:
		return fmt.Sprintf("%s %s", disassemblePushHead(v), disassemblePushOperand(v, names))
	case *Pop:
		return fmt.Sprintf("pop.%s.%s %s", v.Type1, v.Type2, disassembleVariable(v.Variable, names))
	case *Branch:
		return fmt.Sprintf("%s %d", v.Op.Mnemonic(), v.Offset)
	case *Call:
		return fmt.Sprintf("call.%s %s %d", v.Type, funcName(v.Function, names), v.ArgCount)
	case *Misc:
		if v.HasExtra {
			return fmt.Sprintf("%s.%s %d", v.Op.Mnemonic(), v.Type, v.ExtraI16)
		}
		return fmt.Sprintf("%s.%s", v.Op.Mnemonic(), v.Type)
	default:
		return fmt.Sprintf("; unknown instruction %T", ins)
	}
}

func disassemblePushHead(p *Push) string {
	return fmt.Sprintf("%s.%s", p.PushOp.Mnemonic(), p.Value.Type)
}

func disassemblePushOperand(p *Push, names NameResolver) string {
	switch p.Value.Type {
	case Int16:
		return strconv.Itoa(int(p.Value.Int16))
	case Int32:
		return strconv.Itoa(int(p.Value.Int32))
	case Int64:
		return strconv.FormatInt(p.Value.Int64, 10)
	case Double:
		return strconv.FormatFloat(p.Value.Double, 'g', -1, 64)
	case Boolean:
		if p.Value.Bool {
			return "true"
		}
		return "false"
	case String:
		if names != nil {
			return quoteString(names.StringLiteral(p.Value.Int32))
		}
		return fmt.Sprintf("str<%d>", p.Value.Int32)
	case Variable:
		return disassembleVariable(p.Value.Var, names)
	default:
		return "?"
	}
}

func disassembleVariable(cv CodeVariable, names NameResolver) string {
	var name string
	if names != nil {
		name = names.VariableName(cv.Variable)
	} else {
		name = fmt.Sprintf("var<%d>", cv.Variable)
	}
	return fmt.Sprintf("%s.%s", cv.Instance, name)
}

func funcName(f FuncRef, names NameResolver) string {
	if names != nil {
		return names.FunctionName(f)
	}
	return fmt.Sprintf("func<%d>", f)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
