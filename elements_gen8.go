// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// GeneralInfoFlags mirrors the teacher's own bit-flag accessors (see
// pe's characteristics helpers) as a plain uint32 with named bit
// constants, grounded on original_source's
// gamemaker/elements/general_info/flags.rs bitfield_struct! macro.
type GeneralInfoFlags uint32

const (
	FlagFullscreen GeneralInfoFlags = 1 << iota
	FlagSyncVertex1
	FlagSyncVertex2
	FlagInterpolate
	FlagScale
	FlagShowCursor
	FlagSizeable
	FlagScreenKey
	FlagSyncVertex3
	FlagStudioVersionB1
	FlagStudioVersionB2
	FlagStudioVersionB3
	FlagSteamEnabled
	FlagLocalDataEnabled
	FlagBorderlessWindow
	FlagJavaScriptMode
	FlagLicenseExclusions
)

func (f GeneralInfoFlags) Has(bit GeneralInfoFlags) bool { return f&bit != 0 }

// GeneralInfo is GEN8: the file's one mandatory, always-first chunk. It
// carries the nominal engine version, the global flags above, and the
// default window geometry.
type GeneralInfo struct {
	IsDebuggerDisabled bool
	BytecodeVersion    uint8
	Unknown1           uint16
	Filename           StringRef
	Config             StringRef
	LastObj            uint32
	LastTile           uint32
	GameID             uint32
	DirectPlayGUID     [16]byte
	Name               StringRef
	Major, Minor       uint32
	Release, Build     uint32
	DefaultWindowW     uint32
	DefaultWindowH     uint32
	Flags              GeneralInfoFlags
	LicenseMD5         [16]byte
	LicenseCRC32       uint32
	Timestamp          uint64
	DisplayName        StringRef
	ActiveTargets      uint64
	FunctionClassify   uint64
	SteamAppID         uint32
	DebuggerPort       uint32
	RoomOrder          []Ref[RoomKind]

	// Trailing GMS2-era block. Deserialize sets NeedsInfoTail and reads
	// GMS2Unknown when at least 32 bytes remain after the room order,
	// whatever the version; otherwise GMS2Unknown stays zero.
	NeedsInfoTail bool
	GMS2Unknown   [4]uint64
}

func (g *GeneralInfo) Deserialize(r *Reader, d *Data) error {
	isDebuggerDisabled, err := r.ReadU8()
	if err != nil {
		return err
	}
	g.IsDebuggerDisabled = isDebuggerDisabled != 0
	if g.BytecodeVersion, err = r.ReadU8(); err != nil {
		return err
	}
	if g.Unknown1, err = r.ReadU16(); err != nil {
		return err
	}
	if g.Filename, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if g.Config, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if g.LastObj, err = r.ReadU32(); err != nil {
		return err
	}
	if g.LastTile, err = r.ReadU32(); err != nil {
		return err
	}
	if g.GameID, err = r.ReadU32(); err != nil {
		return err
	}
	guid, err := r.ReadBytes(16)
	if err != nil {
		return err
	}
	copy(g.DirectPlayGUID[:], guid)
	if g.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if g.Major, err = r.ReadU32(); err != nil {
		return err
	}
	if g.Minor, err = r.ReadU32(); err != nil {
		return err
	}
	if g.Release, err = r.ReadU32(); err != nil {
		return err
	}
	if g.Build, err = r.ReadU32(); err != nil {
		return err
	}
	if g.DefaultWindowW, err = r.ReadU32(); err != nil {
		return err
	}
	if g.DefaultWindowH, err = r.ReadU32(); err != nil {
		return err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return err
	}
	g.Flags = GeneralInfoFlags(flags)
	md5, err := r.ReadBytes(16)
	if err != nil {
		return err
	}
	copy(g.LicenseMD5[:], md5)
	if g.LicenseCRC32, err = r.ReadU32(); err != nil {
		return err
	}
	if g.Timestamp, err = r.ReadU64(); err != nil {
		return err
	}
	if g.DisplayName, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if g.ActiveTargets, err = r.ReadU64(); err != nil {
		return err
	}
	if g.FunctionClassify, err = r.ReadU64(); err != nil {
		return err
	}
	if g.SteamAppID, err = r.ReadU32(); err != nil {
		return err
	}
	if d.Version.AtLeast(VersionReq{Year: 2, Month: 0}) {
		if g.DebuggerPort, err = r.ReadU32(); err != nil {
			return err
		}
	}
	g.RoomOrder, err = ReadResourceIDList[RoomKind](r, "GEN8 room order")
	if err != nil {
		return err
	}
	g.NeedsInfoTail = r.remaining() >= 32
	if g.NeedsInfoTail {
		for i := range g.GMS2Unknown {
			if g.GMS2Unknown[i], err = r.ReadU64(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *GeneralInfo) Serialize(b *Builder, d *Data) error {
	if g.IsDebuggerDisabled {
		b.WriteU8(1)
	} else {
		b.WriteU8(0)
	}
	b.WriteU8(g.BytecodeVersion)
	b.WriteU16(g.Unknown1)
	b.WritePooledString(g.Filename)
	b.WritePooledString(g.Config)
	b.WriteU32(g.LastObj)
	b.WriteU32(g.LastTile)
	b.WriteU32(g.GameID)
	b.WriteBytes(g.DirectPlayGUID[:])
	b.WritePooledString(g.Name)
	b.WriteU32(g.Major)
	b.WriteU32(g.Minor)
	b.WriteU32(g.Release)
	b.WriteU32(g.Build)
	b.WriteU32(g.DefaultWindowW)
	b.WriteU32(g.DefaultWindowH)
	b.WriteU32(uint32(g.Flags))
	b.WriteBytes(g.LicenseMD5[:])
	b.WriteU32(g.LicenseCRC32)
	b.WriteU64(g.Timestamp)
	b.WritePooledString(g.DisplayName)
	b.WriteU64(g.ActiveTargets)
	b.WriteU64(g.FunctionClassify)
	b.WriteU32(g.SteamAppID)
	if d.Version.AtLeast(VersionReq{Year: 2, Month: 0}) {
		b.WriteU32(g.DebuggerPort)
	}
	WriteResourceIDList[RoomKind](b, g.RoomOrder)
	if g.NeedsInfoTail {
		for _, v := range g.GMS2Unknown {
			b.WriteU64(v)
		}
	}
	return nil
}
