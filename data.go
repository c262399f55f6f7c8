// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/gm-tools/gmdata/log"
)

// Options configures a parse or build, mirroring the teacher's own
// *pe.Options: a pointer of knobs with zero-value defaults backfilled
// when Open or Parse starts parsing, plus an optional custom Logger.
type Options struct {
	// VerifyAlignment makes pointer misalignment a hard parse error
	// instead of a logged warning.
	VerifyAlignment bool

	// VerifyConstants makes an unexpected version marker or reserved
	// field value a hard parse error instead of a logged warning.
	VerifyConstants bool

	// MaxElementCount bounds any single list/pointer-list read, by
	// default DefaultMaxElementCount.
	MaxElementCount uint32

	// Alignment is the container's padding unit between non-final
	// chunks, by default AlignmentModern (16).
	Alignment uint32

	// Logger overrides the default stderr logger.
	Logger log.Logger
}

func (o *Options) fillDefaults() {
	if o.MaxElementCount == 0 {
		o.MaxElementCount = DefaultMaxElementCount
	}
	if o.Alignment == 0 {
		o.Alignment = AlignmentModern
	}
}

// Data is the root of the in-memory model: every resource list owns its
// elements directly (arena-like, per spec.md §5), and every
// inter-element link is a Ref index into one of these slices.
type Data struct {
	Endianness Endianness
	Version    VersionReq

	GeneralInfo GeneralInfo
	Options_    OptionsChunk
	Strings     *StringPool

	Extensions   []Extension
	Sounds       []Sound
	AudioGroups  []AudioGroupEntry
	DataFiles    []DataFile
	TexturePages []TexturePage
	Textures     []Texture
	Code            []Code
	Variables       []Variable
	VariablesHeader VariablesHeader
	Functions       []Function
	CodeLocals      []CodeLocal
	Scripts      []Script
	GlobalInit   []Ref[CodeKind]
	// Features holds FEAT entries as pool references rather than
	// resolved strings, so a rebuild re-uses the existing STRG slot
	// instead of interning a fresh duplicate each time (see
	// FeatureStrings for the resolved view).
	Features     []StringRef
	Languages    LanguageInfo
	TextGroups   []TextGroup
	AnimCurves   []AnimCurve
	FilterFX     []FilterEffect
	Tags         TagInfo
	Paths        []Path
	Objects      []GameObject
	Rooms        []Room

	data   []byte
	mapped mmap.MMap
	file   *os.File
	opts   Options
	logger *log.Helper
}

// Open memory-maps path and parses it into a Data value, the way
// pe.New memory-maps a PE image before parsing. Call Close when done.
func Open(path string, opts *Options) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	d, err := parseBytes(mapped, opts)
	if err != nil {
		mapped.Unmap()
		f.Close()
		return nil, err
	}
	d.mapped = mapped
	d.file = f
	return d, nil
}

// Parse parses an in-memory buffer into a Data value. The returned
// value retains no reference to buf once parsing returns successfully
// (list contents are copied out during deserialization), so buf may be
// reused or discarded immediately - unlike Open, there is nothing to
// Close.
func Parse(buf []byte) (*Data, error) {
	return parseBytes(buf, nil)
}

// Close releases the memory mapping backing a Data opened with Open.
// It is a no-op for values returned by Parse.
func (d *Data) Close() error {
	if d.mapped != nil {
		_ = d.mapped.Unmap()
		d.mapped = nil
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

func parseBytes(data []byte, opts *Options) (*Data, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	o.fillDefaults()

	var logger *log.Helper
	if o.Logger != nil {
		logger = log.NewHelper(o.Logger)
	} else {
		logger = log.Default()
	}

	d := &Data{opts: o, logger: logger}

	endian, chunks, formLen, err := readForm(data)
	if err != nil {
		return nil, wrapf(err, "parsing FORM header")
	}
	d.Endianness = endian

	if err := d.parseChunks(data, chunks, formLen); err != nil {
		return nil, err
	}
	return d, nil
}

// readForm reads the outermost FORM container's header, returning the
// detected endianness, the chunk directory, and FORM's declared payload
// length. Endianness is decided by the FORM name alone: big-endian when
// the name is stored reversed, little-endian otherwise; the length
// field is not consulted for it.
func readForm(data []byte) (Endianness, map[ChunkName]Chunk, uint32, error) {
	if len(data) < 16 {
		return 0, nil, 0, wrapf(ErrTruncated, "file too small to contain a FORM header")
	}
	var name ChunkName
	copy(name[:], data[0:4])
	if name != ChunkFORM && name.reversed() != ChunkFORM {
		return 0, nil, 0, wrapf(ErrInvalidConstant, "missing FORM container header")
	}

	endian := LittleEndian
	if name == ChunkFORM.reversed() {
		endian = BigEndian
	}

	r := newReader(data, endian, Options{MaxElementCount: DefaultMaxElementCount}, nil)
	r.SeekTo(4)
	formLen, err := r.ReadU32()
	if err != nil {
		return 0, nil, 0, err
	}
	r.chunk = Chunk{Start: 8, End: 8 + formLen}
	if uint64(r.chunk.End) > uint64(len(data)) {
		return 0, nil, 0, wrapf(ErrTruncated, "FORM length %d exceeds file size %d", formLen, len(data))
	}

	chunks := make(map[ChunkName]Chunk)
	for r.pos < r.chunk.End {
		var raw ChunkName
		b, err := r.ReadBytes(4)
		if err != nil {
			return 0, nil, 0, err
		}
		copy(raw[:], b)
		if endian == BigEndian {
			raw = raw.reversed()
		}
		length, err := r.ReadU32()
		if err != nil {
			return 0, nil, 0, err
		}
		start := r.pos
		end := start + length
		if uint64(end) > uint64(r.chunk.End) {
			return 0, nil, 0, wrapf(ErrTruncated, "chunk %s length %d overruns FORM", raw, length)
		}
		chunks[raw] = Chunk{Name: raw, Start: start, End: end}
		r.SeekTo(align(end, AlignmentModern))
		if r.pos > r.chunk.End {
			r.SeekTo(end)
		}
	}
	return endian, chunks, formLen, nil
}
