// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// peekGEN8Version reads just far enough into GEN8 to recover the
// engine's own declared (Major, Minor) version, without touching
// anything gated on d.Version itself. GeneralInfo.Deserialize cannot
// do this job directly: its DebuggerPort field is gated on
// d.Version.AtLeast(2.0), but d.Version is only known once DetectVersion
// has run, and DetectVersion needs GEN8's declared version as its
// baseline claim - a peek pass breaks the cycle by stopping right
// before the first version-gated field.
func peekGEN8Version(r *Reader, d *Data) (VersionReq, error) {
	if _, err := r.ReadU8(); err != nil { // IsDebuggerDisabled
		return NoVersion, err
	}
	if _, err := r.ReadU8(); err != nil { // BytecodeVersion
		return NoVersion, err
	}
	if _, err := r.ReadU16(); err != nil { // Unknown1
		return NoVersion, err
	}
	if _, err := r.ReadPooledString(d.Strings); err != nil { // Filename
		return NoVersion, err
	}
	if _, err := r.ReadPooledString(d.Strings); err != nil { // Config
		return NoVersion, err
	}
	if _, err := r.ReadU32(); err != nil { // LastObj
		return NoVersion, err
	}
	if _, err := r.ReadU32(); err != nil { // LastTile
		return NoVersion, err
	}
	if _, err := r.ReadU32(); err != nil { // GameID
		return NoVersion, err
	}
	if _, err := r.ReadBytes(16); err != nil { // DirectPlayGUID
		return NoVersion, err
	}
	if _, err := r.ReadPooledString(d.Strings); err != nil { // Name
		return NoVersion, err
	}
	major, err := r.ReadU32()
	if err != nil {
		return NoVersion, err
	}
	minor, err := r.ReadU32()
	if err != nil {
		return NoVersion, err
	}
	return VersionReq{Year: int(major), Month: int(minor)}, nil
}

// newChunkReader returns a fresh Reader confined to chunk's window,
// positioned at its start - every chunk-level parse step gets its own
// cursor rather than sharing one, since chunks are read in catalog
// order rather than file order once STRG and GEN8 are pulled forward.
func (d *Data) newChunkReader(data []byte, chunk Chunk) *Reader {
	r := newReader(data, d.Endianness, d.opts, d.logger)
	r.chunk = chunk
	r.pos = chunk.Start
	return r
}

// parseChunks resolves every implemented chunk out of the FORM
// directory into d's fields. STRG is read first regardless of its file
// position so every other chunk's pooled strings resolve correctly;
// GEN8 is peeked, version-detected, then read in full before anything
// version-gated; the remaining chunks follow chunkOrder. Occurrence
// chains are wired last, once every CODE/VARI/FUNC entry exists.
func (d *Data) parseChunks(data []byte, chunks map[ChunkName]Chunk, formLen uint32) error {
	gen8Chunk, ok := chunks[ChunkGEN8]
	if !ok {
		return wrapf(ErrInvalidConstant, "missing mandatory GEN8 chunk")
	}
	strgChunk, ok := chunks[ChunkSTRG]
	if !ok {
		return wrapf(ErrInvalidConstant, "missing mandatory STRG chunk")
	}

	pool, err := deserializeStringPool(d.newChunkReader(data, strgChunk))
	if err != nil {
		return wrapf(err, "parsing STRG")
	}
	d.Strings = pool

	declared, err := peekGEN8Version(d.newChunkReader(data, gen8Chunk), d)
	if err != nil {
		return wrapf(err, "peeking GEN8 version")
	}

	d.Version, err = DetectVersion(chunks, data, d.Endianness, d.opts, declared)
	if err != nil {
		return err
	}

	if err := d.GeneralInfo.Deserialize(d.newChunkReader(data, gen8Chunk), d); err != nil {
		return wrapf(err, "parsing GEN8")
	}

	for _, name := range chunkOrder {
		chunk, present := chunks[name]
		if !present {
			continue
		}
		switch name {
		case ChunkGEN8, ChunkSTRG:
			// already handled above.
		case ChunkOPTN:
			if err := d.Options_.Deserialize(d.newChunkReader(data, chunk), d); err != nil {
				return wrapf(err, "parsing OPTN")
			}
		case ChunkEXTN:
			d.Extensions, err = ReadPointerList[Extension](d.newChunkReader(data, chunk), d, "extensions")
		case ChunkSOND:
			d.Sounds, err = ReadPointerList[Sound](d.newChunkReader(data, chunk), d, "sounds")
		case ChunkAGRP:
			d.AudioGroups, err = ReadPointerList[AudioGroupEntry](d.newChunkReader(data, chunk), d, "audio groups")
		case ChunkDAFL:
			d.DataFiles, err = ReadPointerList[DataFile](d.newChunkReader(data, chunk), d, "data files")
		case ChunkTPAG:
			d.TexturePages, err = ReadPointerList[TexturePage](d.newChunkReader(data, chunk), d, "texture pages")
		case ChunkTXTR:
			d.Textures, err = ReadPointerList[Texture](d.newChunkReader(data, chunk), d, "textures")
		case ChunkCODE:
			d.Code, err = ReadPointerList[Code](d.newChunkReader(data, chunk), d, "code entries")
		case ChunkVARI:
			d.VariablesHeader, d.Variables, err = deserializeVariablesChunk(d.newChunkReader(data, chunk), d)
		case ChunkFUNC:
			d.Functions, d.CodeLocals, err = deserializeFunctionsChunk(d.newChunkReader(data, chunk), d)
		case ChunkSCPT:
			d.Scripts, err = ReadPointerList[Script](d.newChunkReader(data, chunk), d, "scripts")
		case ChunkGLOB:
			d.GlobalInit, err = ReadResourceIDList[CodeKind](d.newChunkReader(data, chunk), "global init scripts")
		case ChunkFEAT:
			d.Features, err = ReadStringRefList(d.newChunkReader(data, chunk), d.Strings, "features")
		case ChunkLANG:
			d.Languages, err = deserializeLanguageInfo(d.newChunkReader(data, chunk), d)
		case ChunkTGIN:
			d.TextGroups, err = ReadPointerList[TextGroup](d.newChunkReader(data, chunk), d, "text groups")
		case ChunkACRV:
			d.AnimCurves, err = ReadPointerList[AnimCurve](d.newChunkReader(data, chunk), d, "animation curves")
		case ChunkFILT:
			d.FilterFX, err = ReadPointerList[FilterEffect](d.newChunkReader(data, chunk), d, "filter effects")
		case ChunkTAGS:
			d.Tags, err = deserializeTagInfo(d.newChunkReader(data, chunk), d)
		case ChunkPATH:
			d.Paths, err = ReadPointerList[Path](d.newChunkReader(data, chunk), d, "paths")
		case ChunkOBJT:
			d.Objects, err = ReadPointerList[GameObject](d.newChunkReader(data, chunk), d, "objects")
		case ChunkROOM:
			d.Rooms, err = ReadPointerList[Room](d.newChunkReader(data, chunk), d, "rooms")
		}
		if err != nil {
			return wrapf(err, "parsing chunk %s", name)
		}
	}

	if err := d.wireOccurrenceChains(); err != nil {
		return err
	}

	return nil
}
