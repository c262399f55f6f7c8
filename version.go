// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "fmt"

// LTSBranch distinguishes the long-term-support release line from the
// mainline "post-LTS" one at a given (year, month) point, since some
// structural cues only flipped on one branch.
type LTSBranch uint8

const (
	AnyBranch LTSBranch = iota
	LTS
	PostLTS
)

// VersionReq is a minimal (year, month[, branch]) engine version claim,
// ordered lexicographically by (Year, Month), with Branch used only to
// disambiguate claims that share a (Year, Month) pair.
type VersionReq struct {
	Year, Month int
	Branch      LTSBranch
}

// NoVersion is the zero claim: "no evidence either way".
var NoVersion = VersionReq{}

func (v VersionReq) String() string {
	switch v.Branch {
	case LTS:
		return fmt.Sprintf("%d.%d (LTS)", v.Year, v.Month)
	case PostLTS:
		return fmt.Sprintf("%d.%d (post-LTS)", v.Year, v.Month)
	default:
		return fmt.Sprintf("%d.%d", v.Year, v.Month)
	}
}

// AtLeast reports whether v is the same version or later than other,
// comparing (Year, Month) lexicographically. Branch only matters when
// Year and Month tie, in which case PostLTS is considered "later" than
// LTS of the identical (Year, Month) pair (GameMaker's LTS tracks often
// sit a patch level behind the mainline at the same notional version).
func (v VersionReq) AtLeast(other VersionReq) bool {
	if v.Year != other.Year {
		return v.Year > other.Year
	}
	if v.Month != other.Month {
		return v.Month > other.Month
	}
	if other.Branch == AnyBranch || v.Branch == other.Branch {
		return true
	}
	return v.Branch == PostLTS && other.Branch == LTS
}

// Max returns whichever of v, other is later.
func (v VersionReq) Max(other VersionReq) VersionReq {
	if other.AtLeast(v) {
		return other
	}
	return v
}

// Detector inspects one chunk's window (via a throwaway reader copy
// positioned at the chunk's start, so it can seek freely without
// disturbing the caller's cursor) and returns an optional "this implies
// at least version X" claim. ok is false for "indeterminate".
type Detector struct {
	Name  string
	Chunk ChunkName
	Check func(r *Reader) (VersionReq, bool, error)
}

// detectors lists every registered cue, grounded directly on
// original_source's gamemaker/version_detection/{sond,agrp,tgin,extn}.rs.
var detectors = []Detector{
	{Name: "sound-2024.6", Chunk: ChunkSOND, Check: checkSound20246},
	{Name: "audio-group-2024.14", Chunk: ChunkAGRP, Check: checkAudioGroup202414},
	{Name: "text-group-2022.9", Chunk: ChunkTGIN, Check: checkTextGroup20229},
	{Name: "text-group-2023.1", Chunk: ChunkTGIN, Check: checkTextGroup20231},
	{Name: "extension-2022.6", Chunk: ChunkEXTN, Check: checkExtension20226},
	{Name: "extension-2023.4", Chunk: ChunkEXTN, Check: checkExtension20234},
}

// DetectVersion runs every detector whose chunk is present, takes the
// maximum claim, and asserts it does not contradict GEN8's own declared
// version. Each detector runs against a private cursor copy so it can
// never perturb a sibling detector's or the main parse's position -
// "returns without side-effects on the main cursor" (spec.md §4.5).
func DetectVersion(chunks map[ChunkName]Chunk, data []byte, endian Endianness, opts Options, declared VersionReq) (VersionReq, error) {
	best := declared
	for _, det := range detectors {
		chunk, ok := chunks[det.Chunk]
		if !ok {
			continue
		}
		cursor := newReader(data, endian, opts, nil)
		cursor.chunk = chunk
		cursor.pos = chunk.Start
		claim, fired, err := det.Check(cursor)
		if err != nil {
			if opts.VerifyConstants {
				return best, wrapf(err, "version detector %s", det.Name)
			}
			continue
		}
		if !fired {
			continue
		}
		if claim.AtLeast(best) {
			best = claim
		} else if best.AtLeast(claim) {
			// Consistent: the file is already known to be at least
			// this new claim's version.
		} else if opts.VerifyConstants {
			return best, wrapf(ErrVersionConflict, "detector %s claims %s, conflicts with %s", det.Name, claim, best)
		}
	}
	if declared.AtLeast(VersionReq{}) && best.Year != 0 && declared.Year != 0 && !best.AtLeast(declared) {
		return best, wrapf(ErrVersionConflict, "detected version %s undercuts GEN8-declared version %s", best, declared)
	}
	return best, nil
}
