// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gml

import "fmt"

// Instruction is the uniform contract every opcode-family struct
// below satisfies. A flat interface with one concrete type per family
// (SPEC_FULL.md Design Notes: "variant instructions... avoid class
// hierarchies") keeps CFG analyses a simple type switch instead of a
// probe over a single do-everything struct.
type Instruction interface {
	Opcode() Opcode
	isInstruction()
}

// Size4 returns how many 4-byte words this instruction occupies in
// the bytecode stream - needed to compute absolute addresses for
// branch targets and block boundaries.
func Size4(i Instruction) uint32 {
	switch v := i.(type) {
	case *Push:
		return 1 + v.Value.Type.Size4Words()
	case *Pop:
		return 1 + 2 // header word + chain word + variable-metadata word
	case *Call:
		return 2
	default:
		return 1
	}
}

// Size4Words mirrors DataType.Size4 but returns the number of whole
// 32-bit words a push operand's trailing literal occupies (distinct
// from stack footprint: Int64/Double need two trailing words, a
// string/function id needs one, and a variable needs two - a chain
// word followed by a VariableType/InstanceType metadata word, see
// codec.go's variableMetadataWord).
func (t DataType) Size4Words() uint32 {
	switch t {
	case Int64, Double, Variable:
		return 2
	default:
		return 1
	}
}

// Arithmetic covers Add/Sub/Mul/Div/Rem/Mod/And/Or/Xor/Shl/Shr/Neg/Not
// and Conv - two data types packed into the operand's high byte.
type Arithmetic struct {
	Op    Opcode
	Type1 DataType
	Type2 DataType
}

func (a *Arithmetic) Opcode() Opcode { return a.Op }
func (*Arithmetic) isInstruction()   {}

// Compare is Cmp: two data types plus a comparison kind.
type Compare struct {
	Type1, Type2 DataType
	Kind         ComparisonType
}

func (*Compare) Opcode() Opcode { return OpCmp }
func (*Compare) isInstruction() {}

// Duplicate is Dup: a size byte, a data type, and an optional swap
// mode (GMS2.3+ dup-swap variant).
type Duplicate struct {
	Type     DataType
	Size     uint8
	SwapMode uint8
	HasSwap  bool
}

func (*Duplicate) Opcode() Opcode { return OpDup }
func (*Duplicate) isInstruction() {}

// PushImmediate is the dedicated int16-literal push; the value is
// always widened to Int32 once on the stack.
type PushImmediate struct {
	Value int16
}

func (*PushImmediate) Opcode() Opcode { return OpPushImmediate }
func (*PushImmediate) isInstruction() {}

// Push is the general literal/variable push family; PushOp selects
// which of Push/PushLocal/PushGlobal/PushBuiltin this is.
type Push struct {
	PushOp Opcode
	Value  PushValue
}

func (p *Push) Opcode() Opcode { return p.PushOp }
func (*Push) isInstruction()   {}

// Pop pops the stack top into a variable: two data types plus the
// variable reference and its instance-type field.
type Pop struct {
	Type1, Type2 DataType
	Variable     CodeVariable
}

func (*Pop) Opcode() Opcode { return OpPop }
func (*Pop) isInstruction() {}

// Branch covers Branch/BranchIf/BranchUnless/PushWithContext/
// PopWithContext - a signed 24-bit jump offset in 4-byte units.
type Branch struct {
	Op     Opcode
	Offset int32
}

func (b *Branch) Opcode() Opcode { return b.Op }
func (*Branch) isInstruction()   {}

// Call invokes a function: argument count, data type, function ref.
type Call struct {
	ArgCount uint8
	Type     DataType
	Function FuncRef
}

func (*Call) Opcode() Opcode { return OpCall }
func (*Call) isInstruction() {}

// Misc covers Return/Exit/Popz/Break - opcodes whose only meaningful
// field is their own data type (or none at all).
type Misc struct {
	Op   Opcode
	Type DataType
	// ExtraI16 carries Break's signed 16-bit sub-opcode; unused by the
	// other members of this family.
	ExtraI16 int16
	HasExtra bool
}

func (m *Misc) Opcode() Opcode { return m.Op }
func (*Misc) isInstruction()   {}

func (p *Push) String() string {
	return fmt.Sprintf("%s.%s", p.PushOp.Mnemonic(), p.Value.Type)
}
