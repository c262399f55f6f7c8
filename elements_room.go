// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// Room is one ROOM entry. RoomInstance's field layout is ported
// directly from original_source's
// gamemaker/elements/room/game_object.rs (there named GameObject, the
// room's placed instance of an OBJT definition - renamed here to avoid
// colliding with the catalog's own GameObject).
type Room struct {
	Name           StringRef
	Caption        StringRef
	Width, Height  uint32
	Speed          uint32
	Persistent     bool
	ColorBG        uint32
	ShowColor      bool
	CodeCreation   Ref[CodeKind]
	Flags          uint32
	BackgroundColor uint32
	DrawBackgroundColor bool
	Instances      []RoomInstance
	Tiles          []RoomTile
}

type RoomInstance struct {
	X, Y             int32
	ObjectDefinition Ref[ObjectKind]
	InstanceID       uint32
	CreationCode     Ref[CodeKind]
	ScaleX, ScaleY   float32
	ImageSpeed       float32
	ImageIndex       uint32
	HasImageFields   bool
	Color            uint32
	Rotation         float32
	PreCreateCode    Ref[CodeKind]
	HasPreCreateCode bool
}

type RoomTile struct {
	X, Y            int32
	Background      Ref[BackgroundK]
	SourceX, SourceY int32
	Width, Height   uint32
	TileDepth       int32
	InstanceID      uint32
	ScaleX, ScaleY  float32
	Color           uint32
}

func (t *RoomTile) Deserialize(r *Reader, d *Data) error {
	var err error
	if t.X, err = r.ReadI32(); err != nil {
		return err
	}
	if t.Y, err = r.ReadI32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		t.Background = Ref[BackgroundK]{Index: v}
	}
	if t.SourceX, err = r.ReadI32(); err != nil {
		return err
	}
	if t.SourceY, err = r.ReadI32(); err != nil {
		return err
	}
	if t.Width, err = r.ReadU32(); err != nil {
		return err
	}
	if t.Height, err = r.ReadU32(); err != nil {
		return err
	}
	if t.TileDepth, err = r.ReadI32(); err != nil {
		return err
	}
	if t.InstanceID, err = r.ReadU32(); err != nil {
		return err
	}
	if t.ScaleX, err = r.ReadF32(); err != nil {
		return err
	}
	if t.ScaleY, err = r.ReadF32(); err != nil {
		return err
	}
	t.Color, err = r.ReadU32()
	return err
}

func (t *RoomTile) Serialize(b *Builder, d *Data) error {
	b.WriteI32(t.X)
	b.WriteI32(t.Y)
	b.WriteI32(t.Background.Index)
	b.WriteI32(t.SourceX)
	b.WriteI32(t.SourceY)
	b.WriteU32(t.Width)
	b.WriteU32(t.Height)
	b.WriteI32(t.TileDepth)
	b.WriteU32(t.InstanceID)
	b.WriteF32(t.ScaleX)
	b.WriteF32(t.ScaleY)
	b.WriteU32(t.Color)
	return nil
}

func (g *RoomInstance) Deserialize(r *Reader, d *Data) error {
	var err error
	if g.X, err = r.ReadI32(); err != nil {
		return err
	}
	if g.Y, err = r.ReadI32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		g.ObjectDefinition = Ref[ObjectKind]{Index: v}
	}
	if g.InstanceID, err = r.ReadU32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		g.CreationCode = Ref[CodeKind]{Index: v}
	}
	if g.ScaleX, err = r.ReadF32(); err != nil {
		return err
	}
	if g.ScaleY, err = r.ReadF32(); err != nil {
		return err
	}
	if d.Version.AtLeast(VersionReq{Year: 2, Month: 0}) {
		if g.ImageSpeed, err = r.ReadF32(); err != nil {
			return err
		}
		if g.ImageIndex, err = r.ReadU32(); err != nil {
			return err
		}
		g.HasImageFields = true
	}
	if g.Color, err = r.ReadU32(); err != nil {
		return err
	}
	if g.Rotation, err = r.ReadF32(); err != nil {
		return err
	}
	if d.GeneralInfo.BytecodeVersion >= 16 {
		if v, err := r.ReadI32(); err != nil {
			return err
		} else {
			g.PreCreateCode = Ref[CodeKind]{Index: v}
		}
		g.HasPreCreateCode = true
	}
	return nil
}

func (g *RoomInstance) Serialize(b *Builder, d *Data) error {
	b.WriteI32(g.X)
	b.WriteI32(g.Y)
	b.WriteI32(g.ObjectDefinition.Index)
	b.WriteU32(g.InstanceID)
	b.WriteI32(g.CreationCode.Index)
	b.WriteF32(g.ScaleX)
	b.WriteF32(g.ScaleY)
	if d.Version.AtLeast(VersionReq{Year: 2, Month: 0}) {
		b.WriteF32(g.ImageSpeed)
		b.WriteU32(g.ImageIndex)
	}
	b.WriteU32(g.Color)
	b.WriteF32(g.Rotation)
	if d.GeneralInfo.BytecodeVersion >= 16 {
		b.WriteI32(g.PreCreateCode.Index)
	}
	return nil
}

func (rm *Room) Deserialize(r *Reader, d *Data) error {
	var err error
	if rm.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if rm.Caption, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if rm.Width, err = r.ReadU32(); err != nil {
		return err
	}
	if rm.Height, err = r.ReadU32(); err != nil {
		return err
	}
	if rm.Speed, err = r.ReadU32(); err != nil {
		return err
	}
	if rm.Persistent, err = r.ReadBool32(); err != nil {
		return err
	}
	if rm.ColorBG, err = r.ReadU32(); err != nil {
		return err
	}
	if rm.ShowColor, err = r.ReadBool32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		rm.CodeCreation = Ref[CodeKind]{Index: v}
	}
	if rm.Flags, err = r.ReadU32(); err != nil {
		return err
	}
	if rm.BackgroundColor, err = r.ReadU32(); err != nil {
		return err
	}
	if rm.DrawBackgroundColor, err = r.ReadBool32(); err != nil {
		return err
	}
	rm.Instances, err = ReadPointerList[RoomInstance](r, d, "room instances")
	if err != nil {
		return err
	}
	rm.Tiles, err = ReadPointerList[RoomTile](r, d, "room tiles")
	return err
}

func (rm *Room) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(rm.Name)
	b.WritePooledString(rm.Caption)
	b.WriteU32(rm.Width)
	b.WriteU32(rm.Height)
	b.WriteU32(rm.Speed)
	b.WriteBool32(rm.Persistent)
	b.WriteU32(rm.ColorBG)
	b.WriteBool32(rm.ShowColor)
	b.WriteI32(rm.CodeCreation.Index)
	b.WriteU32(rm.Flags)
	b.WriteU32(rm.BackgroundColor)
	b.WriteBool32(rm.DrawBackgroundColor)
	if err := WritePointerList[RoomInstance](b, d, rm.Instances); err != nil {
		return err
	}
	return WritePointerList[RoomTile](b, d, rm.Tiles)
}
