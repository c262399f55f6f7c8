// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import (
	"math"
	"unicode/utf8"

	"github.com/gm-tools/gmdata/log"
)

// Reader is a bounds-checked cursor over a memory-mapped or in-memory
// data file. It tracks the current byte position and the chunk window
// enclosing it, honoring the configured endianness on every primitive
// read - the generalization of the teacher's bounds-checked
// pe.ReadUint32/pe.structUnpack helpers into a stateful cursor.
type Reader struct {
	data    []byte
	pos     uint32
	chunk   Chunk
	endian  Endianness
	opts    Options
	log     *log.Helper
	chunks  map[ChunkName]Chunk
	version VersionReq
}

// newReader constructs a Reader over the whole file; Pos/chunk window
// default to covering the entire buffer until FindChunk narrows it.
func newReader(data []byte, endian Endianness, opts Options, logger *log.Helper) *Reader {
	return &Reader{
		data:   data,
		endian: endian,
		opts:   opts,
		log:    logger,
		chunk:  Chunk{End: uint32(len(data))},
	}
}

// Pos returns the reader's current absolute byte offset.
func (r *Reader) Pos() uint32 { return r.pos }

// SeekTo moves the cursor to an absolute offset without bounds
// validation (validation happens on the next read). Used to follow
// forward pointers; callers that must restore position save Pos() first.
func (r *Reader) SeekTo(pos uint32) { r.pos = pos }

// Chunk returns the window the reader is currently confined to.
func (r *Reader) Chunk() Chunk { return r.chunk }

// WithChunk returns a copy of the reader confined to chunk's window,
// positioned at chunk.Start. Used when recursing into a chunk or
// following a pointer into a sub-element.
func (r *Reader) WithChunk(chunk Chunk) *Reader {
	sub := *r
	sub.chunk = chunk
	sub.pos = chunk.Start
	return &sub
}

// remaining returns the number of bytes left in the current chunk.
func (r *Reader) remaining() uint32 {
	if r.pos >= r.chunk.End {
		return 0
	}
	return r.chunk.End - r.pos
}

func (r *Reader) requireBytes(n uint32) error {
	if uint64(r.pos)+uint64(n) > uint64(r.chunk.End) || uint64(r.pos)+uint64(n) > uint64(len(r.data)) {
		return wrapf(ErrTruncated, "need %d bytes at offset %d, chunk ends at %d", n, r.pos, r.chunk.End)
	}
	return nil
}

func (r *Reader) ReadBytes(n uint32) ([]byte, error) {
	if err := r.requireBytes(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.endian.byteOrder().Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.endian.byteOrder().Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.endian.byteOrder().Uint64(b), nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool32 reads a 4-byte boolean (nonzero is true), the on-disk
// convention for GameMaker bool fields.
func (r *Reader) ReadBool32() (bool, error) {
	v, err := r.ReadU32()
	return v != 0, err
}

// ReadCount reads a signed 32-bit integer used as an element count: -1
// and 0 both mean zero elements, any other negative value is an error.
func (r *Reader) ReadCount(purpose string) (uint32, error) {
	n, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	switch {
	case n == -1:
		return 0, nil
	case n >= 0:
		if uint32(n) > uint32(r.maxElementCount()) {
			return 0, wrapf(ErrCapacityExceeded, "%s count %d exceeds limit %d", purpose, n, r.maxElementCount())
		}
		return uint32(n), nil
	default:
		return 0, wrapf(ErrTruncated, "negative %s count %d", purpose, n)
	}
}

func (r *Reader) maxElementCount() uint32 {
	if r.opts.MaxElementCount == 0 {
		return DefaultMaxElementCount
	}
	return r.opts.MaxElementCount
}

// ReadPooledString reads a string reference: on GEN8-derived offset
// fields this is an absolute byte offset into STRG that must resolve to
// a pool index via the Data's offset table (see stringpool.go).
func (r *Reader) ReadPooledString(pool *StringPool) (StringRef, error) {
	offset, err := r.ReadU32()
	if err != nil {
		return NoRef[StringKind](), err
	}
	if offset == 0 {
		return NoRef[StringKind](), nil
	}
	idx, ok := pool.indexForOffset(offset)
	if !ok {
		return NoRef[StringKind](), wrapf(ErrInvalidReference, "string offset %d is not pooled", offset)
	}
	return StringRef{Index: int32(idx)}, nil
}

// ReadRawString reads a length-prefixed, NUL-terminated UTF-8 string at
// the cursor (used inside the string pool itself, see stringpool.go).
func (r *Reader) ReadRawString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wrapf(ErrInvalidUTF8, "string at offset %d", r.pos-n)
	}
	s := string(b)
	term, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	if term != 0 {
		return "", wrapf(ErrInvalidConstant, "string at offset %d missing NUL terminator", r.pos-n-1)
	}
	return s, nil
}

// Align advances the cursor to the next multiple of unit. In strict
// mode (VerifyAlignment) any nonzero skipped byte is an error; in
// lenient mode it is logged and ignored.
func (r *Reader) Align(unit uint32) error {
	target := align(r.pos, unit)
	for r.pos < target {
		b, err := r.ReadU8()
		if err != nil {
			return err
		}
		if b != 0 {
			msg := wrapf(ErrMisaligned, "nonzero padding byte 0x%02x at offset %d", b, r.pos-1)
			if r.opts.VerifyAlignment {
				return msg
			}
			if r.log != nil {
				r.log.Warnf("%v", msg)
			}
		}
	}
	return nil
}

// AssertPos errors (or logs, in lenient mode) if the reader is not at
// position exactly as expected - used after following a pointer whose
// target should land the cursor back where an outer structure implies.
func (r *Reader) AssertPos(position uint32, what string) error {
	if r.pos == position {
		return nil
	}
	msg := wrapf(ErrMisaligned, "%s pointer misaligned: expected %d, reader at %d (diff %d)",
		what, position, r.pos, int64(position)-int64(r.pos))
	if r.opts.VerifyAlignment {
		return msg
	}
	if r.log != nil {
		r.log.Warnf("%v", msg)
	}
	return nil
}

// AssertUint32 errors (or logs) if actual != expected, gated by
// VerifyConstants.
func (r *Reader) AssertUint32(actual, expected uint32, what string) error {
	if actual == expected {
		return nil
	}
	msg := wrapf(ErrInvalidConstant, "expected %s to be %d but got %d (0x%08X)", what, expected, actual, actual)
	if r.opts.VerifyConstants {
		return msg
	}
	if r.log != nil {
		r.log.Warnf("%v", msg)
	}
	return nil
}

// ReadChunkVersion reads and asserts the standard GMS2-era 4-byte
// "chunk version" header most chunks carry (almost always 1).
func (r *Reader) ReadChunkVersion(desc string) error {
	v, err := r.ReadU32()
	if err != nil {
		return err
	}
	return r.AssertUint32(v, 1, desc)
}

