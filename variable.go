// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "github.com/gm-tools/gmdata/gml"

// VariablesHeader is VARI's chunk-level prelude, present only once
// the container's bytecode version reaches 15. Ground:
// original_source's src/serialize/variables.rs build_chunk_vari,
// which writes these three counts before any entry.
type VariablesHeader struct {
	GlobalsCount   uint32
	InstancesCount uint32
	LocalsCount    uint32
}

// Variable is one VARI entry: a named slot plus its occurrence-chain
// head, ground: original_source's src/variables.rs UTVariable and
// src/serialize/variables.rs build_variable.
type Variable struct {
	Name StringRef

	// InstanceType and VariableID are only meaningful once bytecode
	// version reaches 15; both are zero-valued before that.
	InstanceType gml.InstanceTypeRef
	VariableID   int32

	OccurrenceCount       uint32
	FirstOccurrenceOffset uint32
}

func (v *Variable) Deserialize(r *Reader, d *Data) error {
	var err error
	if v.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if d.GeneralInfo.BytecodeVersion >= 15 {
		rawInstance, err := r.ReadI32()
		if err != nil {
			return err
		}
		v.InstanceType = gml.InstanceTypeRef{Kind: gml.InstanceType(rawInstance)}
		if v.VariableID, err = r.ReadI32(); err != nil {
			return err
		}
	}
	if v.OccurrenceCount, err = r.ReadU32(); err != nil {
		return err
	}
	if v.FirstOccurrenceOffset, err = r.ReadU32(); err != nil {
		return err
	}
	return nil
}

func (v *Variable) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(v.Name)
	if d.GeneralInfo.BytecodeVersion >= 15 {
		b.WriteI32(int32(v.InstanceType.Kind))
		b.WriteI32(v.VariableID)
	}
	b.WriteU32(v.OccurrenceCount)
	b.WriteU32(v.FirstOccurrenceOffset)
	return nil
}

func deserializeVariablesChunk(r *Reader, d *Data) (VariablesHeader, []Variable, error) {
	var header VariablesHeader
	if d.GeneralInfo.BytecodeVersion >= 15 {
		var err error
		if header.GlobalsCount, err = r.ReadU32(); err != nil {
			return header, nil, err
		}
		if header.InstancesCount, err = r.ReadU32(); err != nil {
			return header, nil, err
		}
		if header.LocalsCount, err = r.ReadU32(); err != nil {
			return header, nil, err
		}
	}
	var vars []Variable
	for r.Pos() < r.Chunk().End {
		var v Variable
		if err := v.Deserialize(r, d); err != nil {
			return header, nil, wrapf(err, "variable entry %d", len(vars))
		}
		vars = append(vars, v)
	}
	return header, vars, nil
}

func serializeVariablesChunk(b *Builder, d *Data, header VariablesHeader, vars []Variable) error {
	b.BeginChunk(ChunkVARI)
	if d.GeneralInfo.BytecodeVersion >= 15 {
		b.WriteU32(header.GlobalsCount)
		b.WriteU32(header.InstancesCount)
		b.WriteU32(header.LocalsCount)
	}
	for i := range vars {
		if err := vars[i].Serialize(b, d); err != nil {
			return wrapf(err, "variable entry %d", i)
		}
	}
	b.EndChunk()
	return nil
}
