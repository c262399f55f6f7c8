// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// OptionsChunk is OPTN, ported field-for-field from original_source's
// gamemaker/elements/options/new.rs (the only layout implemented by
// the pack; a legacy pre-"new format" OPTN existed in older engines
// but is out of scope here per SPEC_FULL.md §5.7).
type OptionsChunk struct {
	Unknown1     uint32
	Unknown2     uint32
	Flags        uint32
	WindowScale  int32
	WindowColor  uint32
	ColorDepth   uint32
	Resolution   uint32
	Frequency    uint32
	VertexSync   int32
	Priority     int32
	BackImage    Ref[TexturePageK]
	FrontImage   Ref[TexturePageK]
	LoadImage    Ref[TexturePageK]
	LoadAlpha    uint32
	Constants    []OptionConstant
}

type OptionConstant struct {
	Name, Value StringRef
}

func (c *OptionConstant) Deserialize(r *Reader, d *Data) error {
	var err error
	if c.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	c.Value, err = r.ReadPooledString(d.Strings)
	return err
}

func (c *OptionConstant) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(c.Name)
	b.WritePooledString(c.Value)
	return nil
}

func (o *OptionsChunk) Deserialize(r *Reader, d *Data) error {
	var err error
	if o.Unknown1, err = r.ReadU32(); err != nil {
		return err
	}
	if o.Unknown2, err = r.ReadU32(); err != nil {
		return err
	}
	if o.Flags, err = r.ReadU32(); err != nil {
		return err
	}
	if o.WindowScale, err = r.ReadI32(); err != nil {
		return err
	}
	if o.WindowColor, err = r.ReadU32(); err != nil {
		return err
	}
	if o.ColorDepth, err = r.ReadU32(); err != nil {
		return err
	}
	if o.Resolution, err = r.ReadU32(); err != nil {
		return err
	}
	if o.Frequency, err = r.ReadU32(); err != nil {
		return err
	}
	if o.VertexSync, err = r.ReadI32(); err != nil {
		return err
	}
	if o.Priority, err = r.ReadI32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		o.BackImage = Ref[TexturePageK]{Index: v}
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		o.FrontImage = Ref[TexturePageK]{Index: v}
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		o.LoadImage = Ref[TexturePageK]{Index: v}
	}
	if o.LoadAlpha, err = r.ReadU32(); err != nil {
		return err
	}
	o.Constants, err = ReadSimpleList[OptionConstant](r, d, "OPTN constants")
	return err
}

func (o *OptionsChunk) Serialize(b *Builder, d *Data) error {
	b.WriteU32(o.Unknown1)
	b.WriteU32(o.Unknown2)
	b.WriteU32(o.Flags)
	b.WriteI32(o.WindowScale)
	b.WriteU32(o.WindowColor)
	b.WriteU32(o.ColorDepth)
	b.WriteU32(o.Resolution)
	b.WriteU32(o.Frequency)
	b.WriteI32(o.VertexSync)
	b.WriteI32(o.Priority)
	b.WriteI32(o.BackImage.Index)
	b.WriteI32(o.FrontImage.Index)
	b.WriteI32(o.LoadImage.Index)
	b.WriteU32(o.LoadAlpha)
	return WriteSimpleList[OptionConstant](b, d, o.Constants)
}
