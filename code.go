// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "github.com/gm-tools/gmdata/gml"

// ModernData is the extra per-entry metadata present once the
// container's bytecode version reaches 15, ground: original_source's
// libgm/src/gml.rs ModernData (locals_count, arguments_count,
// weird_local_flag, offset, parent).
type ModernData struct {
	LocalsCount    uint16
	ArgumentsCount uint16
	WeirdLocalFlag bool

	// Offset is the execution entry point, in bytes, into the owning
	// root entry's decoded instruction stream - zero for root entries,
	// nonzero for a fragment/sub-function entry that shares its
	// parent's bytecode rather than carrying its own copy.
	Offset uint32

	// Parent is the root code entry this entry's bytecode actually
	// belongs to. Absent for root entries.
	Parent Ref[CodeKind]
}

// Code is one CODE entry. A root entry (Modern == nil || Modern.Parent
// absent) owns Instructions directly; a fragment entry's Instructions
// is left nil - its logical instructions are the parent's stream
// sliced at Modern.Offset, as discovered by the decompiler's fragment
// pass (SPEC_FULL.md §5.10), not duplicated on disk.
type Code struct {
	Name         StringRef
	Instructions []gml.Instruction
	Modern       *ModernData

	// bytecodeStart is the absolute file offset of this entry's first
	// instruction word, valid only for root entries and only while
	// wiring occurrence chains (see chains.go); it does not survive a
	// round trip through a fresh Parse.
	bytecodeStart uint32
	// chainSites mirrors gml.Decode's ChainSite list for this entry's
	// own instructions, kept alive until occurrence chains are walked.
	chainSites []gml.ChainSite
}

// IsRoot reports whether this entry owns its own bytecode rather than
// sharing a parent's.
func (c *Code) IsRoot() bool {
	return c.Modern == nil || c.Modern.Parent.IsAbsent()
}

func (c *Code) Deserialize(r *Reader, d *Data) error {
	var err error
	if c.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	length, err := r.ReadU32()
	if err != nil {
		return err
	}
	if d.GeneralInfo.BytecodeVersion < 15 {
		raw, err := r.ReadBytes(length)
		if err != nil {
			return err
		}
		c.bytecodeStart = r.Pos() - length
		instrs, sites, err := gml.Decode(raw)
		if err != nil {
			return wrapf(err, "decoding code entry %q", mustString(d, c.Name))
		}
		c.Instructions = instrs
		c.chainSites = sites
		return nil
	}

	locals, err := r.ReadU16()
	if err != nil {
		return err
	}
	argsRaw, err := r.ReadU16()
	if err != nil {
		return err
	}
	offset, err := r.ReadI32()
	if err != nil {
		return err
	}
	parentIdx, err := r.ReadI32()
	if err != nil {
		return err
	}
	modern := &ModernData{
		LocalsCount:    locals,
		ArgumentsCount: argsRaw & 0x7FFF,
		WeirdLocalFlag: argsRaw&0x8000 != 0,
		Offset:         uint32(offset),
		Parent:         Ref[CodeKind]{Index: parentIdx},
	}
	c.Modern = modern

	if modern.Parent.IsAbsent() {
		raw, err := r.ReadBytes(length)
		if err != nil {
			return err
		}
		c.bytecodeStart = r.Pos() - length
		instrs, sites, err := gml.Decode(raw)
		if err != nil {
			return wrapf(err, "decoding code entry %q", mustString(d, c.Name))
		}
		c.Instructions = instrs
		c.chainSites = sites
	}
	return nil
}

func (c *Code) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(c.Name)

	if c.Modern == nil {
		raw, sites, err := gml.Encode(c.Instructions, nil)
		if err != nil {
			return wrapf(err, "encoding code entry %q", mustString(d, c.Name))
		}
		b.WriteU32(uint32(len(raw)))
		if d.GeneralInfo.BytecodeVersion >= 15 {
			// Deserialize reads the modern header from bytecode version 15
			// on; write a root entry's zeroed fields with an absent parent.
			b.WriteU16(0)
			b.WriteU16(0)
			b.WriteI32(0)
			b.WriteI32(-1)
		}
		c.bytecodeStart = b.Pos()
		c.chainSites = sites
		b.WriteBytes(raw)
		return nil
	}

	argsRaw := c.Modern.ArgumentsCount & 0x7FFF
	if c.Modern.WeirdLocalFlag {
		argsRaw |= 0x8000
	}

	if c.Modern.Parent.IsAbsent() {
		raw, sites, err := gml.Encode(c.Instructions, nil)
		if err != nil {
			return wrapf(err, "encoding code entry %q", mustString(d, c.Name))
		}
		b.WriteU32(uint32(len(raw)))
		b.WriteU16(c.Modern.LocalsCount)
		b.WriteU16(argsRaw)
		b.WriteI32(int32(c.Modern.Offset))
		b.WriteI32(c.Modern.Parent.Index)
		c.bytecodeStart = b.Pos()
		c.chainSites = sites
		b.WriteBytes(raw)
		return nil
	}

	b.WriteU32(0)
	b.WriteU16(c.Modern.LocalsCount)
	b.WriteU16(argsRaw)
	b.WriteI32(int32(c.Modern.Offset))
	b.WriteI32(c.Modern.Parent.Index)
	return nil
}

// mustString resolves a pooled string for an error message, falling
// back to "<unknown>" rather than propagating a second error out of an
// error-formatting helper.
func mustString(d *Data, ref StringRef) string {
	s, err := d.Strings.String(ref)
	if err != nil {
		return "<unknown>"
	}
	return s
}
