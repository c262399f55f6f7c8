// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// TexturePage is one TPAG entry: a sub-rectangle of an embedded
// texture sheet, plus the render-time bounding box used to reinflate
// cropped transparent borders. Decoding the referenced Texture's
// pixels (PNG/QOI) is an external collaborator per SPEC_FULL.md §1/§3 -
// this type only carries the geometry and the reference.
type TexturePage struct {
	SourceX, SourceY          uint16
	SourceW, SourceH          uint16
	TargetX, TargetY          uint16
	TargetW, TargetH          uint16
	BoundingW, BoundingH      uint16
	TexturePageIndex          Ref[TextureK]
}

func (t *TexturePage) Deserialize(r *Reader, d *Data) error {
	var err error
	for _, p := range []*uint16{
		&t.SourceX, &t.SourceY, &t.SourceW, &t.SourceH,
		&t.TargetX, &t.TargetY, &t.TargetW, &t.TargetH,
		&t.BoundingW, &t.BoundingH,
	} {
		if *p, err = r.ReadU16(); err != nil {
			return err
		}
	}
	idx, err := r.ReadU16()
	if err != nil {
		return err
	}
	t.TexturePageIndex = Ref[TextureK]{Index: int32(idx)}
	return nil
}

func (t *TexturePage) Serialize(b *Builder, d *Data) error {
	for _, v := range []uint16{
		t.SourceX, t.SourceY, t.SourceW, t.SourceH,
		t.TargetX, t.TargetY, t.TargetW, t.TargetH,
		t.BoundingW, t.BoundingH,
	} {
		b.WriteU16(v)
	}
	b.WriteU16(uint16(t.TexturePageIndex.Index))
	return nil
}

// Texture is one TXTR entry: an embedded texture sheet. ScaledFactor
// and GeneratedMips are version-gated the same way the teacher's own
// resource directory entries gate optional trailing fields; Data holds
// the raw (still-encoded) image bytes found at the entry's stored image
// offset, which Deserialize follows itself (there is no Offset field).
type Texture struct {
	ScaledFactor  uint32
	GeneratedMips int32
	HasMips       bool
	Data          []byte
}

func (t *Texture) Deserialize(r *Reader, d *Data) error {
	var err error
	if t.ScaledFactor, err = r.ReadU32(); err != nil {
		return err
	}
	if d.Version.AtLeast(VersionReq{Year: 2, Month: 0}) {
		if t.GeneratedMips, err = r.ReadI32(); err != nil {
			return err
		}
		t.HasMips = true
	}
	offset, err := r.ReadU32()
	if err != nil {
		return err
	}
	if offset == 0 {
		return nil
	}
	savedPos := r.Pos()
	r.SeekTo(offset)
	length := r.chunk.End - offset
	raw, err := r.ReadBytes(length)
	if err != nil {
		return err
	}
	t.Data = append([]byte(nil), raw...)
	r.SeekTo(savedPos)
	return nil
}

func (t *Texture) Serialize(b *Builder, d *Data) error {
	b.WriteU32(t.ScaledFactor)
	if d.Version.AtLeast(VersionReq{Year: 2, Month: 0}) {
		b.WriteI32(t.GeneratedMips)
	}
	if len(t.Data) == 0 {
		b.WriteU32(0)
		return nil
	}
	// The offset field points at the image bytes written immediately
	// after it in this same element's stream, so it is simply this
	// write's end position - no backpatch needed, unlike a reference to
	// another element emitted out of order.
	b.WriteU32(b.Pos() + 4)
	b.WriteBytes(t.Data)
	return nil
}
