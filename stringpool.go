// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// StringPool is the dedicated, pointer-keyed interning table backing
// every StringRef in a Data value. Strings are stored once, in the
// STRG chunk, each as a 32-bit length prefix, its UTF-8 bytes, and a
// trailing NUL.
type StringPool struct {
	strings []string

	// offsetIndex maps an on-disk "offset of first content byte" (the
	// GameMaker convention: the string's data offset, which is its
	// length-prefix offset + 4) to its pool index. Populated on parse.
	offsetIndex map[uint32]int

	// builderSites collects, per pool index, the placeholder offsets
	// written by Builder.WritePooledString, so Build can backpatch them
	// once the STRG chunk's final layout is known.
	builderSites map[int32][]uint32
}

// NewStringPool returns an empty pool, ready for building from scratch.
func NewStringPool() *StringPool {
	return &StringPool{
		offsetIndex:  make(map[uint32]int),
		builderSites: make(map[int32][]uint32),
	}
}

// Len returns the number of pooled strings.
func (p *StringPool) Len() int { return len(p.strings) }

// String returns the pooled string at index i.
func (p *StringPool) String(ref StringRef) (string, error) {
	if ref.IsAbsent() {
		return "", nil
	}
	if ref.Index < 0 || int(ref.Index) >= len(p.strings) {
		return "", wrapf(ErrInvalidReference, "string index %d out of range (have %d)", ref.Index, len(p.strings))
	}
	return p.strings[ref.Index], nil
}

// Intern appends s to the pool (no de-duplication: GameMaker's own
// compiler does not de-duplicate either, and callers that want
// injectivity should check beforehand) and returns its reference.
func (p *StringPool) Intern(s string) StringRef {
	idx := len(p.strings)
	p.strings = append(p.strings, s)
	return StringRef{Index: int32(idx)}
}

func (p *StringPool) indexForOffset(offset uint32) (int, bool) {
	idx, ok := p.offsetIndex[offset]
	return idx, ok
}

func (p *StringPool) noteBuilderSite(index int32, placeholderOffset uint32) {
	p.builderSites[index] = append(p.builderSites[index], placeholderOffset)
}

// deserializeStringPool performs the two-pass linear scan described by
// the format: read the element count, then each string's absolute
// offset; for each string, seek, read length, read that many UTF-8
// bytes, and assert the trailing NUL. Records offset+4 -> index for
// ReadPooledString to resolve against.
func deserializeStringPool(r *Reader) (*StringPool, error) {
	pool := NewStringPool()
	count, err := r.ReadCount("string pool")
	if err != nil {
		return nil, wrapf(err, "reading STRG element count")
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i], err = r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "reading STRG offset table entry %d", i)
		}
	}
	pool.strings = make([]string, count)
	for i, off := range offsets {
		r.SeekTo(off)
		s, err := r.ReadRawString()
		if err != nil {
			return nil, wrapf(err, "reading pooled string %d at offset %d", i, off)
		}
		pool.strings[i] = s
		pool.offsetIndex[off+4] = i
	}
	return pool, nil
}

// serialize writes every pooled string as length+bytes+NUL in pool
// order, padding and then backpatching every WritePooledString
// placeholder collected during the rest of the build with the string's
// on-disk offset + 4 (GameMaker's convention of pointing past the
// length prefix).
func (p *StringPool) serialize(b *Builder) error {
	b.BeginChunk(ChunkSTRG)
	b.WriteCount(uint32(len(p.strings)))

	// A second offset table at the chunk head lets GEN8-era tools find
	// each string by index without walking the whole chunk; this
	// mirrors the on-disk STRG layout (count, then offset[count]).
	offsetTablePos := b.Pos()
	for range p.strings {
		b.WriteU32(deadPlaceholder)
	}

	contentOffsets := make([]uint32, len(p.strings))
	for i, s := range p.strings {
		contentOffsets[i] = b.Pos() + 4 // offset of first content byte, past the length prefix
		b.WriteU32(uint32(len(s)))
		b.WriteBytes([]byte(s))
		b.WriteU8(0)
	}

	for i, off := range contentOffsets {
		site := offsetTablePos + uint32(i)*4
		b.endianPutU32(site, off-4)
		for _, placeholder := range p.builderSites[int32(i)] {
			b.endianPutU32(placeholder, off)
		}
	}

	b.EndChunk()
	return nil
}

// endianPutU32 overwrites an already-written 4-byte slot at offset,
// honoring the builder's configured endianness - the backpatch
// primitive forward pointers rely on.
func (b *Builder) endianPutU32(offset uint32, v uint32) {
	b.endian.byteOrder().PutUint32(b.buf[offset:offset+4], v)
}
