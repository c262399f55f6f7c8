// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gml

import (
	"encoding/binary"
	"fmt"
	"math"
)

// wordAt/putWordAt always use little-endian: GameMaker bytecode words
// are never byte-swapped even in big-endian container files (only the
// container's own chunk headers and primitive fields are endian
// sensitive - the VM word format is fixed).
func wordAt(words []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(words[i*4:])
}

func putWordAt(words []byte, i int, v uint32) {
	binary.LittleEndian.PutUint32(words[i*4:], v)
}

// ChainSite records where one instruction's occurrence-chain operand
// word lives, both as a word index into this code entry's bytecode
// and as the raw 24-bit value that was actually stored there (still
// unresolved: it is either a chain delta or, for the question of
// "does this look like an unthreaded entry", the terminator marker).
// Root-package code wiring (gmdata's chains.go) uses this to walk chains
// across every code entry using absolute file offsets; this package
// only decodes/encodes the word shape.
type ChainSite struct {
	WordIndex int
	Raw       uint32
	// Which instruction (by index into the Decode result) and which
	// of its CodeVariable fields this site feeds.
	InstrIndex int
	IsFunction bool
}

// Decode parses a contiguous run of 32-bit bytecode words into
// Instructions. It returns, alongside the instructions, the list of
// ChainSites belonging to variable/function-carrying instructions, in
// stream order - the raw 24-bit slot is left un-interpreted pending
// the occurrence-chain walk.
func Decode(raw []byte) ([]Instruction, []ChainSite, error) {
	if len(raw)%4 != 0 {
		return nil, nil, fmt.Errorf("gml: bytecode length %d is not a multiple of 4", len(raw))
	}
	n := len(raw) / 4
	var instrs []Instruction
	var sites []ChainSite
	i := 0
	for i < n {
		word := wordAt(raw, i)
		op := Opcode(word >> 24)
		operand := word & 0x00FFFFFF

		switch {
		case op.IsArithmetic():
			instrs = append(instrs, &Arithmetic{
				Op:    op,
				Type1: DataType(operand & 0xFF),
				Type2: DataType((operand >> 8) & 0xFF),
			})
			i++
		case op == OpCmp:
			instrs = append(instrs, &Compare{
				Type1: DataType(operand & 0xFF),
				Type2: DataType((operand >> 8) & 0xFF),
				Kind:  ComparisonType((operand >> 16) & 0xFF),
			})
			i++
		case op == OpDup:
			instrs = append(instrs, &Duplicate{
				Size: uint8(operand & 0xFF),
				Type: DataType((operand >> 8) & 0xFF),
			})
			i++
		case op == OpPushImmediate:
			instrs = append(instrs, &PushImmediate{Value: int16(uint16(operand & 0xFFFF))})
			i++
		case op == OpPush || op == OpPushLocal || op == OpPushGlobal || op == OpPushBuiltin:
			dt := DataType((operand >> 16) & 0xFF)
			instr := &Push{PushOp: op, Value: PushValue{Type: dt}}
			instrs = append(instrs, instr)
			idx := len(instrs) - 1
			i++
			switch dt {
			case Int16:
				instr.Value.Int16 = int16(uint16(wordAt(raw, i)))
				i++
			case Int32:
				instr.Value.Int32 = int32(wordAt(raw, i))
				i++
			case Int64:
				lo := uint64(wordAt(raw, i))
				hi := uint64(wordAt(raw, i+1))
				instr.Value.Int64 = int64(lo | hi<<32)
				i += 2
			case Double:
				lo := uint64(wordAt(raw, i))
				hi := uint64(wordAt(raw, i+1))
				instr.Value.Double = float64FromBits(lo | hi<<32)
				i += 2
			case Boolean:
				instr.Value.Bool = wordAt(raw, i) != 0
				i++
			case String:
				instr.Value.Int32 = int32(wordAt(raw, i)) // string id, resolved by caller
				i++
			case Variable:
				sites = append(sites, ChainSite{WordIndex: i, Raw: wordAt(raw, i) & 0x00FFFFFF, InstrIndex: idx})
				i++
				vt, inst := decodeVariableMetadata(wordAt(raw, i))
				instr.Value.Var = CodeVariable{VariableType: vt, Instance: inst}
				i++
			default:
				return nil, nil, fmt.Errorf("gml: unsupported push data type %v at word %d", dt, i)
			}
		case op == OpPop:
			type1 := DataType(operand & 0xFF)
			type2 := DataType((operand >> 8) & 0xFF)
			instr := &Pop{Type1: type1, Type2: type2}
			instrs = append(instrs, instr)
			idx := len(instrs) - 1
			i++
			sites = append(sites, ChainSite{WordIndex: i, Raw: wordAt(raw, i) & 0x00FFFFFF, InstrIndex: idx})
			i++
			vt, inst := decodeVariableMetadata(wordAt(raw, i))
			instr.Variable = CodeVariable{VariableType: vt, Instance: inst}
			i++
		case op.IsBranch():
			instrs = append(instrs, &Branch{Op: op, Offset: decode24Signed(operand)})
			i++
		case op == OpCall:
			instrs = append(instrs, &Call{
				ArgCount: uint8(operand & 0xFF),
				Type:     DataType((operand >> 16) & 0xFF),
			})
			idx := len(instrs) - 1
			i++
			sites = append(sites, ChainSite{WordIndex: i, Raw: wordAt(raw, i) & 0x00FFFFFF, InstrIndex: idx, IsFunction: true})
			i++
		case op == OpRet || op == OpExit || op == OpPopz:
			instrs = append(instrs, &Misc{Op: op, Type: DataType(operand & 0xFF)})
			i++
		case op == OpBreak:
			instrs = append(instrs, &Misc{Op: op, Type: DataType(operand & 0xFF), ExtraI16: int16(uint16(operand >> 8)), HasExtra: true})
			i++
		default:
			return nil, nil, fmt.Errorf("gml: unrecognized opcode 0x%02X at word %d", byte(op), i)
		}
	}
	return instrs, sites, nil
}

// variableMetadataWord packs a CodeVariable's VariableType and
// InstanceTypeRef into the word immediately following a variable
// occurrence's chain word. This packing is this engine's own design
// (the exact on-disk bit layout was not among the retrieved reference
// sources); it only needs to be internally self-consistent, since
// Decode/Encode are each other's only readers.
func variableMetadataWord(vt VariableType, inst InstanceTypeRef) uint32 {
	var payload int32
	switch inst.Kind {
	case InstGameObject:
		payload = inst.Object
	case InstRoomInstance:
		payload = int32(inst.RoomInstanceID)
	}
	return uint32(vt) | uint32(uint8(inst.Kind))<<8 | uint32(payload)<<16
}

func decodeVariableMetadata(w uint32) (VariableType, InstanceTypeRef) {
	vt := VariableType(w & 0xFF)
	kind := InstanceType(int8(uint8((w >> 8) & 0xFF)))
	payload := int32(w) >> 16
	inst := InstanceTypeRef{Kind: kind}
	switch kind {
	case InstGameObject:
		inst.Object = payload
	case InstRoomInstance:
		inst.RoomInstanceID = int16(payload)
	}
	return vt, inst
}

// decode24Signed sign-extends a 24-bit two's-complement field.
func decode24Signed(v uint32) int32 {
	v &= 0x00FFFFFF
	if v&0x00800000 != 0 {
		return int32(v | 0xFF000000)
	}
	return int32(v)
}

func encode24Signed(v int32) uint32 {
	return uint32(v) & 0x00FFFFFF
}

// Encode is the builder-side counterpart of Decode. chainOverride, if
// non-nil, supplies the 24-bit value to emit at a given output word
// index in place of zero - used for the occurrence-chain backpatch
// pass, which must run after every code entry has been encoded once.
func Encode(instrs []Instruction, chainOverride map[int]uint32) ([]byte, []ChainSite, error) {
	var buf []uint32
	var sites []ChainSite
	emit := func(v uint32) { buf = append(buf, v) }
	for _, ins := range instrs {
		switch v := ins.(type) {
		case *Arithmetic:
			emit(uint32(v.Op)<<24 | uint32(v.Type1) | uint32(v.Type2)<<8)
		case *Compare:
			emit(uint32(OpCmp)<<24 | uint32(v.Type1) | uint32(v.Type2)<<8 | uint32(v.Kind)<<16)
		case *Duplicate:
			emit(uint32(OpDup)<<24 | uint32(v.Size) | uint32(v.Type)<<8)
		case *PushImmediate:
			emit(uint32(OpPushImmediate)<<24 | uint32(uint16(v.Value)))
		case *Push:
			emit(uint32(v.PushOp)<<24 | uint32(v.Value.Type)<<16)
			switch v.Value.Type {
			case Int16:
				emit(uint32(uint16(v.Value.Int16)))
			case Int32, String:
				emit(uint32(v.Value.Int32))
			case Int64:
				bits := uint64(v.Value.Int64)
				emit(uint32(bits))
				emit(uint32(bits >> 32))
			case Double:
				bits := float64Bits(v.Value.Double)
				emit(uint32(bits))
				emit(uint32(bits >> 32))
			case Boolean:
				if v.Value.Bool {
					emit(1)
				} else {
					emit(0)
				}
			case Variable:
				idx := len(buf)
				raw := chainOverride[idx]
				emit(raw & 0x00FFFFFF)
				emit(variableMetadataWord(v.Value.Var.VariableType, v.Value.Var.Instance))
				sites = append(sites, ChainSite{WordIndex: idx, InstrIndex: -1})
			}
		case *Pop:
			emit(uint32(OpPop)<<24 | uint32(v.Type1) | uint32(v.Type2)<<8)
			idx := len(buf)
			raw := chainOverride[idx]
			emit(raw & 0x00FFFFFF)
			emit(variableMetadataWord(v.Variable.VariableType, v.Variable.Instance))
			sites = append(sites, ChainSite{WordIndex: idx, InstrIndex: -1})
		case *Branch:
			emit(uint32(v.Op)<<24 | encode24Signed(v.Offset))
		case *Call:
			emit(uint32(OpCall)<<24 | uint32(v.ArgCount) | uint32(v.Type)<<16)
			idx := len(buf)
			raw := chainOverride[idx]
			emit(raw & 0x00FFFFFF)
			sites = append(sites, ChainSite{WordIndex: idx, InstrIndex: -1, IsFunction: true})
		case *Misc:
			extra := uint32(v.Type)
			if v.HasExtra {
				extra |= uint32(uint16(v.ExtraI16)) << 8
			}
			emit(uint32(v.Op)<<24 | extra)
		default:
			return nil, nil, fmt.Errorf("gml: unknown instruction type %T", ins)
		}
	}
	out := make([]byte, len(buf)*4)
	for i, w := range buf {
		putWordAt(out, i, w)
	}
	return out, sites, nil
}

func float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }

func float64Bits(f float64) uint64 { return math.Float64bits(f) }
