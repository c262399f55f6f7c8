// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// SoundFlags mirrors the bit layout built by original_source's
// src/serialize/sounds.rs build_sound_flags.
type SoundFlags uint32

const (
	SoundEmbedded        SoundFlags = 0x1
	SoundCompressed      SoundFlags = 0x2
	SoundDecompressOnLoad SoundFlags = 0x3
	SoundRegular         SoundFlags = 0x64
)

// Sound is SOND. AudioLength is only present from version 2024.6
// onward, per the DetectVersion sound-2024.6 cue in version.go.
type Sound struct {
	Name        StringRef
	Flags       SoundFlags
	AudioType   StringRef
	File        StringRef
	Effects     uint32
	Volume      float32
	Pitch       float32
	AudioGroup  Ref[AudioGroup]
	AudioFile   Ref[AudioGroup]
	AudioLength float32
}

func (s *Sound) Deserialize(r *Reader, d *Data) error {
	var err error
	if s.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return err
	}
	s.Flags = SoundFlags(flags)
	if s.AudioType, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if s.File, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if s.Effects, err = r.ReadU32(); err != nil {
		return err
	}
	if s.Volume, err = r.ReadF32(); err != nil {
		return err
	}
	if s.Pitch, err = r.ReadF32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		s.AudioGroup = Ref[AudioGroup]{Index: v}
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		s.AudioFile = Ref[AudioGroup]{Index: v}
	}
	if d.Version.AtLeast(VersionReq{Year: 2024, Month: 6}) {
		if s.AudioLength, err = r.ReadF32(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sound) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(s.Name)
	b.WriteU32(uint32(s.Flags))
	b.WritePooledString(s.AudioType)
	b.WritePooledString(s.File)
	b.WriteU32(s.Effects)
	b.WriteF32(s.Volume)
	b.WriteF32(s.Pitch)
	b.WriteI32(s.AudioGroup.Index)
	b.WriteI32(s.AudioFile.Index)
	if d.Version.AtLeast(VersionReq{Year: 2024, Month: 6}) {
		b.WriteF32(s.AudioLength)
	}
	return nil
}

// AudioGroupEntry is an AGRP entry, grounded on
// original_source's gamemaker/elements/audio_group.rs: Path only
// exists from 2024.14 onward (see DetectVersion's audio-group-2024.14
// cue).
type AudioGroupEntry struct {
	Name StringRef
	Path StringRef
	HasPath bool
}

func (a *AudioGroupEntry) Deserialize(r *Reader, d *Data) error {
	var err error
	if a.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if d.Version.AtLeast(VersionReq{Year: 2024, Month: 14}) {
		if a.Path, err = r.ReadPooledString(d.Strings); err != nil {
			return err
		}
		a.HasPath = true
	}
	return nil
}

func (a *AudioGroupEntry) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(a.Name)
	if d.Version.AtLeast(VersionReq{Year: 2024, Month: 14}) {
		if !a.HasPath {
			return wrapf(ErrInvalidConstant, "AGRP entry %q missing required 2024.14+ path", a.Name)
		}
		b.WritePooledString(a.Path)
	}
	return nil
}

// DataFile is DAFL: present in the catalog for format completeness but
// the teacher's own upstream (and this reimplementation) never
// populates or re-emits it - original_source's data_files.rs marks
// GMDataFiles::exists() permanently false.
type DataFile struct{}

func (*DataFile) Deserialize(r *Reader, d *Data) error { return nil }
func (*DataFile) Serialize(b *Builder, d *Data) error   { return nil }
