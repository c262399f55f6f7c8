// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// Build serializes d back into a fresh FORM container, the inverse of
// Parse/Open. It never touches d.data/mapped/file - the returned slice
// is a brand new buffer - so it is safe to call on a Data produced by
// either Parse or Open, and on one assembled from scratch by a caller
// that only ever used NewData.
func (d *Data) Build() ([]byte, error) {
	pool := d.Strings
	if pool == nil {
		pool = NewStringPool()
	}

	b := NewBuilder(d.Endianness, d.opts, pool, d.logger)

	// FORM's own header is written directly into the buffer (rather
	// than prepended after the fact) so every absolute offset computed
	// during the rest of the build - string pool offsets, pointer
	// tables, occurrence-chain chain-word addresses - already accounts
	// for it, matching Parse's file-absolute addressing.
	formName := ChunkFORM
	if d.Endianness == BigEndian {
		formName = formName.reversed()
	}
	b.WriteBytes(formName[:])
	formLenPos := b.Pos()
	b.WriteU32(deadPlaceholder)

	b.BeginChunk(ChunkGEN8)
	if err := d.GeneralInfo.Serialize(b, d); err != nil {
		return nil, wrapf(err, "serializing GEN8")
	}
	b.EndChunk()

	b.BeginChunk(ChunkOPTN)
	if err := d.Options_.Serialize(b, d); err != nil {
		return nil, wrapf(err, "serializing OPTN")
	}
	b.EndChunk()

	b.BeginChunk(ChunkEXTN)
	if err := WritePointerList[Extension](b, d, d.Extensions); err != nil {
		return nil, wrapf(err, "serializing EXTN")
	}
	b.EndChunk()

	b.BeginChunk(ChunkSOND)
	if err := WritePointerList[Sound](b, d, d.Sounds); err != nil {
		return nil, wrapf(err, "serializing SOND")
	}
	b.EndChunk()

	b.BeginChunk(ChunkAGRP)
	if err := WritePointerList[AudioGroupEntry](b, d, d.AudioGroups); err != nil {
		return nil, wrapf(err, "serializing AGRP")
	}
	b.EndChunk()

	b.BeginChunk(ChunkDAFL)
	if err := WritePointerList[DataFile](b, d, d.DataFiles); err != nil {
		return nil, wrapf(err, "serializing DAFL")
	}
	b.EndChunk()

	b.BeginChunk(ChunkTPAG)
	if err := WritePointerList[TexturePage](b, d, d.TexturePages); err != nil {
		return nil, wrapf(err, "serializing TPAG")
	}
	b.EndChunk()

	b.BeginChunk(ChunkTXTR)
	if err := WritePointerList[Texture](b, d, d.Textures); err != nil {
		return nil, wrapf(err, "serializing TXTR")
	}
	b.EndChunk()

	b.BeginChunk(ChunkCODE)
	if err := WritePointerList[Code](b, d, d.Code); err != nil {
		return nil, wrapf(err, "serializing CODE")
	}
	b.EndChunk()

	// Occurrence chains can only be computed once every root entry's
	// bytecode has actually been written (bytecodeStart/chainSites are
	// filled in by Code.Serialize above), and must be finished before
	// VARI/FUNC below emit OccurrenceCount/FirstOccurrenceOffset.
	if err := d.finalizeOccurrenceChains(b); err != nil {
		return nil, wrapf(err, "finalizing occurrence chains")
	}

	if err := serializeVariablesChunk(b, d, d.VariablesHeader, d.Variables); err != nil {
		return nil, wrapf(err, "serializing VARI")
	}

	if err := serializeFunctionsChunk(b, d, d.Functions, d.CodeLocals); err != nil {
		return nil, wrapf(err, "serializing FUNC")
	}

	b.BeginChunk(ChunkSCPT)
	if err := WritePointerList[Script](b, d, d.Scripts); err != nil {
		return nil, wrapf(err, "serializing SCPT")
	}
	b.EndChunk()

	b.BeginChunk(ChunkGLOB)
	WriteResourceIDList[CodeKind](b, d.GlobalInit)
	b.EndChunk()

	b.BeginChunk(ChunkFEAT)
	WriteStringRefList(b, d.Features)
	b.EndChunk()

	if d.Languages.Exists {
		b.BeginChunk(ChunkLANG)
		if err := d.Languages.serialize(b, d); err != nil {
			return nil, wrapf(err, "serializing LANG")
		}
		b.EndChunk()
	}

	b.BeginChunk(ChunkTGIN)
	if err := WritePointerList[TextGroup](b, d, d.TextGroups); err != nil {
		return nil, wrapf(err, "serializing TGIN")
	}
	b.EndChunk()

	b.BeginChunk(ChunkACRV)
	if err := WritePointerList[AnimCurve](b, d, d.AnimCurves); err != nil {
		return nil, wrapf(err, "serializing ACRV")
	}
	b.EndChunk()

	b.BeginChunk(ChunkFILT)
	if err := WritePointerList[FilterEffect](b, d, d.FilterFX); err != nil {
		return nil, wrapf(err, "serializing FILT")
	}
	b.EndChunk()

	if d.Tags.Exists {
		b.BeginChunk(ChunkTAGS)
		if err := d.Tags.serialize(b, d); err != nil {
			return nil, wrapf(err, "serializing TAGS")
		}
		b.EndChunk()
	}

	b.BeginChunk(ChunkPATH)
	if err := WritePointerList[Path](b, d, d.Paths); err != nil {
		return nil, wrapf(err, "serializing PATH")
	}
	b.EndChunk()

	b.BeginChunk(ChunkOBJT)
	if err := WritePointerList[GameObject](b, d, d.Objects); err != nil {
		return nil, wrapf(err, "serializing OBJT")
	}
	b.EndChunk()

	b.BeginChunk(ChunkROOM)
	if err := WritePointerList[Room](b, d, d.Rooms); err != nil {
		return nil, wrapf(err, "serializing ROOM")
	}
	b.EndChunk()

	if err := pool.serialize(b); err != nil {
		return nil, wrapf(err, "serializing STRG")
	}

	out, err := b.Finish()
	if err != nil {
		return nil, err
	}
	d.Endianness.byteOrder().PutUint32(out[formLenPos:formLenPos+4], uint32(len(out)-int(formLenPos)-4))
	return out, nil
}
