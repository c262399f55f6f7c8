// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// This file's detectors are ported line-for-line in spirit from
// original_source's gamemaker/version_detection/{sond,agrp,tgin,extn}.rs
// - see SPEC_FULL.md §5.6 for the grounding citation. Each function
// receives a cursor already positioned at its chunk's start.

// checkSound20246 distinguishes 2024.6 by the size of the per-sound
// "sound" element: if the first sound's theoretical old end offset sits
// exactly 4 bytes below the second sound's start, the new (longer)
// layout is in use.
func checkSound20246(r *Reader) (VersionReq, bool, error) {
	target := VersionReq{Year: 2024, Month: 6}
	count, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	var pointers []uint32
	for i := uint32(0); i < count && len(pointers) < 2; i++ {
		p, err := r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
		if p == 0 {
			continue
		}
		pointers = append(pointers, p)
	}
	if len(pointers) >= 2 {
		if pointers[0]+4*9 == pointers[1]-4 {
			return target, true, nil
		}
	} else if len(pointers) == 1 {
		absPos := pointers[0] + 4*9
		if absPos%16 != 4 {
			return NoVersion, false, wrapf(ErrInvalidConstant, "SOND 2024.6 probe: unexpected alignment at %d", absPos)
		}
		r.SeekTo(absPos)
		v, err := r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
		if v != 0 {
			return target, true, nil
		}
	}
	return NoVersion, false, nil
}

// checkAudioGroup202414 distinguishes 2024.14 by the presence of a new
// path-pointer field appended after each audio group's name.
func checkAudioGroup202414(r *Reader) (VersionReq, bool, error) {
	count, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if count == 0 {
		return NoVersion, false, nil
	}

	var i, pos1, pos2 uint32
	for pos1 == 0 && i < count {
		pos1, err = r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
		i++
	}
	for pos2 == 0 && i < count {
		pos2, err = r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
		i++
	}
	if pos1 == 0 && pos2 == 0 {
		return NoVersion, false, nil
	}

	if pos2 == 0 {
		r.SeekTo(pos1 + 4)
		if r.pos+4 > r.chunk.End {
			return NoVersion, false, nil
		}
		pathPtr, err := r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
		if pathPtr == 0 {
			return NoVersion, false, nil
		}
	} else if pos2-pos1 == 4 {
		return NoVersion, false, nil
	}

	return VersionReq{Year: 2024, Month: 14}, true, nil
}

// checkTextGroup20229 and checkTextGroup20231 distinguish the TGIN
// (text group) entry layout by the relative offset between two shape
// entries, each only meaningful when the file isn't already known to
// be at least 2023.1 post-LTS.
func checkTextGroup20229(r *Reader) (VersionReq, bool, error) {
	if err := r.ReadChunkVersion("TGIN version"); err != nil {
		return NoVersion, false, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if count < 1 {
		return NoVersion, false, nil
	}
	ptr1, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	ptr2 := r.chunk.End
	if count >= 2 {
		ptr2, err = r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
	}
	r.SeekTo(ptr1 + 4)
	probe, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if probe < ptr1 || probe >= ptr2 {
		return VersionReq{Year: 2022, Month: 9}, true, nil
	}
	return NoVersion, false, nil
}

func checkTextGroup20231(r *Reader) (VersionReq, bool, error) {
	if err := r.ReadChunkVersion("TGIN version"); err != nil {
		return NoVersion, false, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if count < 1 {
		return NoVersion, false, nil
	}
	ptr1, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	r.SeekTo(ptr1 + 16 + 4*3)
	ptr4, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	maybeCount, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if maybeCount <= ptr4 {
		return VersionReq{Year: 2023, Month: 1, Branch: PostLTS}, true, nil
	}
	return NoVersion, false, nil
}

// checkExtension20226 and checkExtension20234 distinguish extension
// entry layout changes by probing pointer/count byte patterns.
func checkExtension20226(r *Reader) (VersionReq, bool, error) {
	count, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if count < 1 {
		return NoVersion, false, nil
	}
	firstPtr, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	firstEnd := r.chunk.End
	if count >= 2 {
		firstEnd, err = r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
	}
	r.SeekTo(firstPtr + 12)
	newPtr1, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	newPtr2, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if newPtr1 != r.pos {
		return NoVersion, false, nil
	}
	if newPtr2 <= r.pos || newPtr2 >= r.chunk.End {
		return NoVersion, false, nil
	}
	r.SeekTo(newPtr2)
	optionCount, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if optionCount > 0 {
		check := r.pos + 4*(optionCount-1)
		if check >= r.chunk.End {
			return NoVersion, false, nil
		}
		r.SeekTo(check)
		v, err := r.ReadU32()
		if err != nil {
			return NoVersion, false, err
		}
		afterLastOption := v + 12
		if afterLastOption >= r.chunk.End {
			return NoVersion, false, nil
		}
		r.SeekTo(afterLastOption)
		if count == 1 {
			r.SeekTo(r.pos + 16)
			if r.pos%16 != 0 {
				r.SeekTo(r.pos + (16 - r.pos%16))
			}
		}
		if r.pos != firstEnd {
			return NoVersion, false, nil
		}
	}
	return VersionReq{Year: 2022, Month: 6}, true, nil
}

func checkExtension20234(r *Reader) (VersionReq, bool, error) {
	count, err := r.ReadI32()
	if err != nil {
		return NoVersion, false, err
	}
	if count < 1 {
		return NoVersion, false, nil
	}
	firstPtr, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	r.SeekTo(firstPtr + 4*3)
	filesPtr, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	optionsPtr, err := r.ReadU32()
	if err != nil {
		return NoVersion, false, err
	}
	if filesPtr > optionsPtr {
		return VersionReq{Year: 2023, Month: 4}, true, nil
	}
	return NoVersion, false, nil
}
