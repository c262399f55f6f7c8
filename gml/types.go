// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package gml models GameMaker Language bytecode: the opcode
// taxonomy, typed operand variants, and the textual assembler grammar
// that round-trips them. It has no dependency on the container format
// in the parent gmdata package - VarRef/FuncRef are raw catalog
// indices rather than gmdata.Ref, so this package can be imported
// without a cycle and reused by anything that only cares about
// bytecode (the decompiler, the action APIs).
package gml

import "fmt"

// DataType is a primitive instruction operand type, ported from
// original_source's gml/instruction/data_type.rs. Int16 only ever
// appears as a push literal's type (PushImmediate, or a Push whose
// value type is Int16); it never exists on the runtime stack.
type DataType uint8

const (
	Double DataType = 0
	Int32  DataType = 2
	Int64  DataType = 3
	Boolean DataType = 4
	Variable DataType = 5
	String  DataType = 6
	Int16   DataType = 15
)

func (t DataType) String() string {
	switch t {
	case Double:
		return "d"
	case Int32:
		return "i"
	case Int64:
		return "l"
	case Boolean:
		return "b"
	case Variable:
		return "v"
	case String:
		return "s"
	case Int16:
		return "e"
	default:
		return fmt.Sprintf("dt(%d)", uint8(t))
	}
}

// Size4 is this type's stack footprint in 4-byte units - the unit
// used by branch jump offsets.
func (t DataType) Size4() uint8 {
	switch t {
	case Int16, Int32, Boolean, String:
		return 1
	case Int64, Double:
		return 2
	case Variable:
		return 4
	default:
		return 1
	}
}

// ParseDataTypeLetter maps one assembler type letter back to a
// DataType.
func ParseDataTypeLetter(c byte) (DataType, bool) {
	switch c {
	case 'd':
		return Double, true
	case 'i':
		return Int32, true
	case 'l':
		return Int64, true
	case 'b':
		return Boolean, true
	case 'v':
		return Variable, true
	case 's':
		return String, true
	case 'e':
		return Int16, true
	default:
		return 0, false
	}
}

// InstanceType selects which object/instance scope a variable access
// targets, ported from instruction/instance_type.rs.
type InstanceType int32

const (
	InstSelf InstanceType = iota
	InstOther
	InstAll
	InstNone
	InstGlobal
	InstBuiltin
	InstLocal
	InstStackTop
	InstArgument
	InstStatic
	InstGameObject  // carries a GameObject index in InstanceTypeRef.Object
	InstRoomInstance // carries a room-instance id (-100000 biased) in InstanceTypeRef.RoomInstanceID
)

// InstanceTypeRef pairs an InstanceType with the extra payload the
// GameObject/RoomInstance variants carry (Go has no enum-with-data, so
// this is the idiomatic stand-in for the source's
// InstanceType::GameObject(GMRef<...>) / ::RoomInstance(i16) arms).
type InstanceTypeRef struct {
	Kind           InstanceType
	Object         int32
	RoomInstanceID int16
}

func (r InstanceTypeRef) String() string {
	switch r.Kind {
	case InstSelf:
		return "self"
	case InstOther:
		return "other"
	case InstAll:
		return "all"
	case InstNone:
		return "none"
	case InstGlobal:
		return "global"
	case InstBuiltin:
		return "builtin"
	case InstLocal:
		return "local"
	case InstStackTop:
		return "stacktop"
	case InstArgument:
		return "arg"
	case InstStatic:
		return "static"
	case InstGameObject:
		return fmt.Sprintf("obj<%d>", r.Object)
	case InstRoomInstance:
		return fmt.Sprintf("%d", int32(r.RoomInstanceID)+100000)
	default:
		return "?"
	}
}

// AsVARI collapses an instruction-side instance type down to the
// narrower set legal on a VARI entry's own instance_type field, ported
// from instance_type.rs's as_vari.
func (r InstanceTypeRef) AsVARI() InstanceTypeRef {
	switch r.Kind {
	case InstGameObject, InstRoomInstance, InstOther, InstBuiltin, InstStackTop:
		return InstanceTypeRef{Kind: InstSelf}
	case InstArgument:
		return InstanceTypeRef{Kind: InstBuiltin}
	default:
		return r
	}
}

// VariableType distinguishes array/chain/instance-id variable access
// shapes, ported from instruction/variable_type.rs.
type VariableType uint8

const (
	VarArray     VariableType = 0x00
	VarMultiPush VariableType = 0x10
	VarStackTop  VariableType = 0x80
	VarMultiPop  VariableType = 0x90
	VarNormal    VariableType = 0xA0
	VarInstance  VariableType = 0xE0
)

// ComparisonType is the kind field of a Compare instruction, ported
// from instruction/comparison_type.rs.
type ComparisonType uint8

const (
	CmpLessThan ComparisonType = iota + 1
	CmpLessOrEqual
	CmpEqual
	CmpNotEqual
	CmpGreaterOrEqual
	CmpGreaterThan
)

var comparisonSymbols = map[ComparisonType]string{
	CmpLessThan: "<", CmpLessOrEqual: "<=", CmpEqual: "==",
	CmpNotEqual: "!=", CmpGreaterOrEqual: ">=", CmpGreaterThan: ">",
}

func (c ComparisonType) String() string { return comparisonSymbols[c] }

// VarRef and FuncRef are raw catalog indices into the file's VARI/FUNC
// tables, used instead of gmdata.Ref so this package stays free of a
// dependency on the parent module.
type VarRef int32
type FuncRef int32

// CodeVariable is a fully resolved variable reference inside an
// instruction operand, ported from instruction/code_variable.rs.
type CodeVariable struct {
	Variable     VarRef
	VariableType VariableType
	Instance     InstanceTypeRef
	IsInt32      bool
}

// PushValue is the payload of a Push/PushLocal/PushGlobal/PushBuiltin
// instruction, ported from instruction/push_value.rs. Go has no tagged
// union, so exactly one of the typed fields is meaningful, selected by
// Type.
type PushValue struct {
	Type     DataType
	Int16    int16
	Int32    int32
	Int64    int64
	Double   float64
	Bool     bool
	Str      string
	Function FuncRef
	Var      CodeVariable
}
