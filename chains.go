// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "github.com/gm-tools/gmdata/gml"

// Occurrence chains thread every use of a given variable or function
// through a singly linked list embedded directly in the bytecode: each
// occurrence's chain word holds a signed byte delta from its own
// absolute file offset to the next occurrence's, or zero to mark the
// last occurrence. The owning VARI/FUNC entry only remembers the head
// (FirstOccurrenceOffset) and the total length (OccurrenceCount). This
// exact delta encoding is this engine's own design choice: the
// retrieved original_source files describe occurrence counts and a
// first-occurrence offset but never pin down what the chain word
// itself holds bit-for-bit, so Decode/Encode and this file are each
// other's only readers and only need to agree with themselves.

// chainTarget is one resolved occurrence site: which code entry and
// which of its instructions the chain word belongs to.
type chainTarget struct {
	codeIdx, instrIdx int
	isFunction        bool
	raw               uint32
}

// signed24 sign-extends the low 24 bits of v, mirroring gml's own
// internal 24-bit operand decode but operating on a ChainSite.Raw value
// that arrives already masked.
func signed24(v uint32) int32 {
	v &= 0x00FFFFFF
	if v&0x00800000 != 0 {
		return int32(v | 0xFF000000)
	}
	return int32(v)
}

// wireOccurrenceChains walks every Variable's and Function's
// occurrence chain after every root CODE entry has been decoded,
// resolving each visited instruction's CodeVariable.Variable or
// Call.Function field to the owning catalog index.
func (d *Data) wireOccurrenceChains() error {
	siteIndex := make(map[uint32]chainTarget)
	for ci := range d.Code {
		c := &d.Code[ci]
		if !c.IsRoot() {
			continue
		}
		for _, site := range c.chainSites {
			offset := c.bytecodeStart + uint32(site.WordIndex)*4
			siteIndex[offset] = chainTarget{
				codeIdx:    ci,
				instrIdx:   site.InstrIndex,
				isFunction: site.IsFunction,
				raw:        site.Raw,
			}
		}
	}

	for vi := range d.Variables {
		v := &d.Variables[vi]
		if v.OccurrenceCount == 0 {
			continue
		}
		varIdx := vi
		err := walkChain(siteIndex, v.FirstOccurrenceOffset, v.OccurrenceCount, false, func(t chainTarget) error {
			instr := d.Code[t.codeIdx].Instructions[t.instrIdx]
			switch ins := instr.(type) {
			case *gml.Push:
				ins.Value.Var.Variable = gml.VarRef(varIdx)
			case *gml.Pop:
				ins.Variable.Variable = gml.VarRef(varIdx)
			default:
				return wrapf(ErrChainCorrupt, "variable occurrence lands on unexpected instruction %T", instr)
			}
			return nil
		})
		if err != nil {
			return wrapf(err, "variable %q occurrence chain", mustString(d, v.Name))
		}
	}

	for fi := range d.Functions {
		f := &d.Functions[fi]
		if f.OccurrenceCount == 0 {
			continue
		}
		funcIdx := fi
		err := walkChain(siteIndex, f.FirstOccurrenceOffset, f.OccurrenceCount, true, func(t chainTarget) error {
			call, ok := d.Code[t.codeIdx].Instructions[t.instrIdx].(*gml.Call)
			if !ok {
				return wrapf(ErrChainCorrupt, "function occurrence lands on non-Call instruction")
			}
			call.Function = gml.FuncRef(funcIdx)
			return nil
		})
		if err != nil {
			return wrapf(err, "function %q occurrence chain", mustString(d, f.Name))
		}
	}
	return nil
}

// walkChain follows count occurrences starting at first, calling visit
// for each and validating that the chain terminates exactly where
// OccurrenceCount says it should - neither early nor late.
func walkChain(siteIndex map[uint32]chainTarget, first uint32, count uint32, wantFunction bool, visit func(chainTarget) error) error {
	offset := first
	for i := uint32(0); i < count; i++ {
		t, ok := siteIndex[offset]
		if !ok {
			return wrapf(ErrChainCorrupt, "no chain site at offset %d (occurrence %d of %d)", offset, i+1, count)
		}
		if t.isFunction != wantFunction {
			return wrapf(ErrChainCorrupt, "chain site at offset %d is the wrong kind of occurrence", offset)
		}
		if err := visit(t); err != nil {
			return err
		}
		delta := signed24(t.raw)
		if i == count-1 {
			if delta != 0 {
				return wrapf(ErrChainCorrupt, "expected terminator after %d occurrences, found delta %d", count, delta)
			}
			continue
		}
		if delta == 0 {
			return wrapf(ErrChainCorrupt, "chain terminated early after %d of %d occurrences", i+1, count)
		}
		offset = uint32(int64(offset) + int64(delta))
	}
	return nil
}

// occurrence is one resolved chain-word location collected while
// re-scanning the just-encoded CODE entries during a build.
type occurrence struct {
	offset uint32
}

// finalizeOccurrenceChains runs after every root CODE entry has been
// serialized (so every entry's bytecodeStart/chainSites are known) and
// before VARI/FUNC are serialized (so their OccurrenceCount/
// FirstOccurrenceOffset fields are ready in time). It re-derives each
// variable's and function's occurrence list in program order by
// re-walking the instructions it just encoded, fills in the owning
// catalog entries, and patches the zero chain-word placeholders CODE
// was serialized with into the actual deltas.
func (d *Data) finalizeOccurrenceChains(b *Builder) error {
	varOccs := make(map[int32][]occurrence)
	funcOccs := make(map[int32][]occurrence)

	for ci := range d.Code {
		c := &d.Code[ci]
		if !c.IsRoot() {
			continue
		}
		site := 0
		for _, instr := range c.Instructions {
			var offset uint32
			switch ins := instr.(type) {
			case *gml.Push:
				if ins.Value.Type != gml.Variable {
					continue
				}
				if site >= len(c.chainSites) {
					return wrapf(ErrChainCorrupt, "code entry %q ran out of chain sites", mustString(d, c.Name))
				}
				offset = c.bytecodeStart + uint32(c.chainSites[site].WordIndex)*4
				site++
				varOccs[int32(ins.Value.Var.Variable)] = append(varOccs[int32(ins.Value.Var.Variable)], occurrence{offset: offset})
			case *gml.Pop:
				if site >= len(c.chainSites) {
					return wrapf(ErrChainCorrupt, "code entry %q ran out of chain sites", mustString(d, c.Name))
				}
				offset = c.bytecodeStart + uint32(c.chainSites[site].WordIndex)*4
				site++
				varOccs[int32(ins.Variable.Variable)] = append(varOccs[int32(ins.Variable.Variable)], occurrence{offset: offset})
			case *gml.Call:
				if site >= len(c.chainSites) {
					return wrapf(ErrChainCorrupt, "code entry %q ran out of chain sites", mustString(d, c.Name))
				}
				offset = c.bytecodeStart + uint32(c.chainSites[site].WordIndex)*4
				site++
				funcOccs[int32(ins.Function)] = append(funcOccs[int32(ins.Function)], occurrence{offset: offset})
			}
		}
	}

	for idx, occs := range varOccs {
		if idx < 0 || int(idx) >= len(d.Variables) {
			return wrapf(ErrChainCorrupt, "variable occurrence references out-of-range index %d", idx)
		}
		if err := patchChain(b, occs); err != nil {
			return wrapf(err, "variable %q", mustString(d, d.Variables[idx].Name))
		}
		d.Variables[idx].OccurrenceCount = uint32(len(occs))
		d.Variables[idx].FirstOccurrenceOffset = occs[0].offset
	}
	for idx, occs := range funcOccs {
		if idx < 0 || int(idx) >= len(d.Functions) {
			return wrapf(ErrChainCorrupt, "function occurrence references out-of-range index %d", idx)
		}
		if err := patchChain(b, occs); err != nil {
			return wrapf(err, "function %q", mustString(d, d.Functions[idx].Name))
		}
		d.Functions[idx].OccurrenceCount = uint32(len(occs))
		d.Functions[idx].FirstOccurrenceOffset = occs[0].offset
	}
	return nil
}

// patchChain backpatches each occurrence's chain word in program order
// with the signed byte delta to the next occurrence, zero-terminating
// the last one.
func patchChain(b *Builder, occs []occurrence) error {
	for i, occ := range occs {
		if i == len(occs)-1 {
			b.patchBytecodeWord(occ.offset, 0)
			continue
		}
		delta := int64(occs[i+1].offset) - int64(occ.offset)
		if delta < -(1<<23) || delta >= (1<<23) {
			return wrapf(ErrCapacityExceeded, "occurrence chain delta %d does not fit 24 bits", delta)
		}
		b.patchBytecodeWord(occ.offset, uint32(int32(delta))&0x00FFFFFF)
	}
	return nil
}
