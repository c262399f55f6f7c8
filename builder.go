// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import (
	"encoding/binary"
	"math"

	"github.com/gm-tools/gmdata/log"
)

// deadPlaceholder is written in place of every not-yet-known pointer;
// if one survives to Finish unresolved, something in the pending table
// bookkeeping is broken, and the output is rejected rather than shipped
// with a garbage offset.
const deadPlaceholder = 0xDEADC0DE

// elementID identifies an in-flight element for pointer resolution
// purposes. It has no relation to the element's eventual Ref index;
// it only needs to be unique within one build.
type elementID uint64

type pendingPointer struct {
	offset uint32
	target elementID
}

type chunkFrame struct {
	name       ChunkName
	start      uint32 // offset of the length field
	payloadPos uint32 // offset right after the length field
	padStart   uint32 // offset where trailing padding began, or 0
}

// Builder emits a data file incrementally into a growing byte buffer,
// tracking three side tables exactly as specified: string placeholders,
// inter-element pointer placeholders keyed by element identity, and the
// bookkeeping needed to strip the final chunk's padding after the fact.
type Builder struct {
	buf        []byte
	endian     Endianness
	opts       Options
	log        *log.Helper
	pool       *StringPool
	stringSite []uint32 // offsets of 4-byte string placeholders, paired 1:1 with pool write order
	elementAt  map[elementID]uint32
	pending    map[elementID][]uint32 // target -> placeholder offsets
	nextID     elementID
	frames     []chunkFrame
	lastPad    uint32 // offset where the most recently sealed chunk's padding began
	err        error
}

// NewBuilder creates an empty Builder. pool is shared with the Data
// being serialized so string writes can be deferred exactly like
// pointer writes.
func NewBuilder(endian Endianness, opts Options, pool *StringPool, logger *log.Helper) *Builder {
	return &Builder{
		endian:    endian,
		opts:      opts,
		log:       logger,
		pool:      pool,
		elementAt: make(map[elementID]uint32),
		pending:   make(map[elementID][]uint32),
	}
}

// NewElementID returns a fresh identity an element can use to register
// itself (MarkElement) and have other elements point at it (before it
// is even serialized).
func (b *Builder) NewElementID() elementID {
	b.nextID++
	return b.nextID
}

// Pos returns the current absolute write offset.
func (b *Builder) Pos() uint32 { return uint32(len(b.buf)) }

func (b *Builder) WriteBytes(p []byte) { b.buf = append(b.buf, p...) }

func (b *Builder) WriteU8(v uint8) { b.buf = append(b.buf, v) }

func (b *Builder) WriteU16(v uint16) {
	var tmp [2]byte
	b.endian.byteOrder().PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Builder) WriteU32(v uint32) {
	var tmp [4]byte
	b.endian.byteOrder().PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Builder) WriteU64(v uint64) {
	var tmp [8]byte
	b.endian.byteOrder().PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Builder) WriteI8(v int8)   { b.WriteU8(uint8(v)) }
func (b *Builder) WriteI16(v int16) { b.WriteU16(uint16(v)) }
func (b *Builder) WriteI32(v int32) { b.WriteU32(uint32(v)) }
func (b *Builder) WriteI64(v int64) { b.WriteU64(uint64(v)) }

func (b *Builder) WriteF32(v float32) { b.WriteU32(math.Float32bits(v)) }
func (b *Builder) WriteF64(v float64) { b.WriteU64(math.Float64bits(v)) }

func (b *Builder) WriteBool32(v bool) {
	if v {
		b.WriteU32(1)
	} else {
		b.WriteU32(0)
	}
}

// WriteCount writes an element count using the same -1/0 sentinel the
// reader's ReadCount understands (0 is written as 0, never as -1).
// A count too large to fit a signed 32-bit field is recorded as a
// deferred error surfaced by Finish, rather than silently truncated.
func (b *Builder) WriteCount(n uint32) {
	if uint64(n) > math.MaxInt32 && b.err == nil {
		b.err = wrapf(ErrCapacityExceeded, "count %d does not fit a signed 32-bit field", n)
	}
	b.WriteI32(int32(n))
}

// WritePooledString enqueues a string for the pool (if not already
// pending) and writes a four-byte placeholder to be backpatched with
// the string's final on-disk offset + 4 once the STRG chunk is laid out.
func (b *Builder) WritePooledString(s StringRef) {
	if s.IsAbsent() {
		b.WriteU32(0)
		return
	}
	b.pool.noteBuilderSite(s.Index, b.Pos())
	b.WriteU32(deadPlaceholder)
}

// WritePointer writes a four-byte placeholder for a reference to the
// element identified by target, to be resolved once that element calls
// MarkElement.
func (b *Builder) WritePointer(target elementID) {
	b.pending[target] = append(b.pending[target], b.Pos())
	b.WriteU32(deadPlaceholder)
}

// MarkElement records that the element identified by id begins at the
// builder's current position, and resolves every pointer placeholder
// that was waiting on it.
func (b *Builder) MarkElement(id elementID) {
	start := b.Pos()
	b.elementAt[id] = start
	for _, offset := range b.pending[id] {
		b.endian.byteOrder().PutUint32(b.buf[offset:offset+4], start)
	}
	delete(b.pending, id)
}

// BeginChunk writes the chunk name (reversed on big-endian files) and a
// dead-code length placeholder, and pushes chunk bookkeeping.
func (b *Builder) BeginChunk(name ChunkName) {
	diskName := name
	if b.endian == BigEndian {
		diskName = name.reversed()
	}
	start := b.Pos()
	b.WriteBytes(diskName[:])
	b.WriteU32(deadPlaceholder)
	b.frames = append(b.frames, chunkFrame{name: name, start: start, payloadPos: b.Pos()})
}

// EndChunk backpatches the chunk's length header and always pads the
// chunk to the container's alignment unit; the pad is not counted in
// the length. Only the file's last chunk ends up unpadded, because
// Finish's truncation pass strips its pad.
func (b *Builder) EndChunk() {
	n := len(b.frames)
	if n == 0 {
		panic("EndChunk with no matching BeginChunk")
	}
	frame := b.frames[n-1]
	b.frames = b.frames[:n-1]

	length := b.Pos() - frame.payloadPos
	b.endian.byteOrder().PutUint32(b.buf[frame.start+4:frame.start+8], length)

	unit := b.alignmentUnit()
	b.lastPad = b.Pos()
	for b.Pos()%unit != 0 {
		b.WriteU8(0)
	}
}

// Align pads with zero bytes until Pos() is a multiple of unit,
// mirroring Reader.Align's skip-forward discipline on the write side.
func (b *Builder) Align(unit uint32) {
	for b.Pos()%unit != 0 {
		b.WriteU8(0)
	}
}

func (b *Builder) alignmentUnit() uint32 {
	if b.opts.Alignment == 0 {
		return AlignmentModern
	}
	return b.opts.Alignment
}

// Finish strips the trailing padding that was appended after whichever
// chunk actually ended up last (EndChunk pads unconditionally since it
// cannot know in advance it is sealing the final chunk) and checks that
// every pointer placeholder was resolved.
func (b *Builder) Finish() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.pending) > 0 {
		for target := range b.pending {
			return nil, wrapf(ErrUnresolvedPointer, "element %d never marked", target)
		}
	}
	out := b.buf
	// The final chunk in the file carries no trailing padding: undo
	// the padding EndChunk appended after whichever chunk was sealed
	// last, since that one turned out to be the file's last chunk.
	if b.lastPad > 0 && b.lastPad <= uint32(len(out)) {
		allZero := true
		for _, by := range out[b.lastPad:] {
			if by != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			out = out[:b.lastPad]
		}
	}
	return out, nil
}

// RawBytes exposes the buffer built so far (used by tests asserting
// on intermediate state).
func (b *Builder) RawBytes() []byte { return b.buf }

// patchBytecodeWord overwrites an already-written 4-byte slot at an
// absolute file offset, always little-endian regardless of the
// container's configured endianness. GameMaker bytecode words (and the
// occurrence-chain deltas embedded in them) are never byte-swapped even
// in big-endian container files, unlike every other backpatched pointer
// in the format - mirrors gml package's own wordAt/putWordAt convention.
func (b *Builder) patchBytecodeWord(offset uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[offset:offset+4], v)
}
