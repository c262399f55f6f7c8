// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "fmt"

// ChunkName is a validated four-byte chunk identifier. Names are exactly
// four uppercase-ASCII/digit bytes; in big-endian files they are
// reversed on disk, never in memory.
type ChunkName [4]byte

// NewChunkName validates s and returns it as a ChunkName. Panics on an
// invalid name; only meant for the package-level chunk-name constants
// below, where a bad literal is a programmer error.
func NewChunkName(s string) ChunkName {
	n, err := ChunkNameFromString(s)
	if err != nil {
		panic(err)
	}
	return n
}

// ChunkNameFromString validates and converts a 4-character string.
func ChunkNameFromString(s string) (ChunkName, error) {
	var n ChunkName
	if len(s) != 4 {
		return n, wrapf(ErrInvalidConstant, "chunk name %q must be exactly 4 characters", s)
	}
	for i := 0; i < 4; i++ {
		if !validChunkNameByte(s[i]) {
			return n, wrapf(ErrInvalidConstant,
				"chunk name %q must consist only of uppercase ASCII letters and digits", s)
		}
		n[i] = s[i]
	}
	return n, nil
}

func validChunkNameByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (n ChunkName) String() string {
	return string(n[:])
}

// reversed returns n with its bytes reversed, the on-disk convention for
// chunk names in big-endian files.
func (n ChunkName) reversed() ChunkName {
	return ChunkName{n[3], n[2], n[1], n[0]}
}

// Well-known chunk names, in the catalog's canonical file order: GEN8
// first (endianness, version, global flags), STRG last.
var (
	ChunkGEN8 = NewChunkName("GEN8")
	ChunkOPTN = NewChunkName("OPTN")
	ChunkEXTN = NewChunkName("EXTN")
	ChunkSOND = NewChunkName("SOND")
	ChunkAGRP = NewChunkName("AGRP")
	ChunkDAFL = NewChunkName("DAFL")
	ChunkTPAG = NewChunkName("TPAG")
	ChunkTXTR = NewChunkName("TXTR")
	ChunkCODE = NewChunkName("CODE")
	ChunkVARI = NewChunkName("VARI")
	ChunkFUNC = NewChunkName("FUNC")
	ChunkSCPT = NewChunkName("SCPT")
	ChunkGLOB = NewChunkName("GLOB")
	ChunkFEAT = NewChunkName("FEAT")
	ChunkLANG = NewChunkName("LANG")
	ChunkTGIN = NewChunkName("TGIN")
	ChunkACRV = NewChunkName("ACRV")
	ChunkFILT = NewChunkName("FILT")
	ChunkTAGS = NewChunkName("TAGS")
	ChunkPATH = NewChunkName("PATH")
	ChunkOBJT = NewChunkName("OBJT")
	ChunkROOM = NewChunkName("ROOM")
	ChunkSTRG = NewChunkName("STRG")
	ChunkFORM = NewChunkName("FORM")
)

// chunkOrder lists every implemented chunk in canonical on-disk order.
var chunkOrder = []ChunkName{
	ChunkGEN8, ChunkOPTN, ChunkEXTN, ChunkSOND, ChunkAGRP, ChunkDAFL,
	ChunkTPAG, ChunkTXTR, ChunkCODE, ChunkVARI, ChunkFUNC, ChunkSCPT,
	ChunkGLOB, ChunkFEAT, ChunkLANG, ChunkTGIN, ChunkACRV, ChunkFILT,
	ChunkTAGS, ChunkPATH, ChunkOBJT, ChunkROOM, ChunkSTRG,
}

// Chunk is a located, self-delimiting window within the file: a name
// plus the [Start, End) byte range of its payload (excluding the 8-byte
// name+length header).
type Chunk struct {
	Name  ChunkName
	Start uint32
	End   uint32
}

// Len returns the payload length in bytes.
func (c Chunk) Len() uint32 {
	return c.End - c.Start
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s[%d:%d]", c.Name, c.Start, c.End)
}
