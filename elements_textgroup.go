// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// TextGroup is one TGIN entry. Field layout is inferred from the
// relative-offset probes the text-group-2022.9/2023.1 version
// detectors perform (version.go / versiondetect.go): each entry owns a
// name and a handful of pooled-string tables describing font-glyph
// shaping groups.
type TextGroup struct {
	Name           StringRef
	TextBG         Ref[BackgroundK]
	FontKerning    int32
	Glyphs         []StringRef
	LineHeight     int32
}

func (t *TextGroup) Deserialize(r *Reader, d *Data) error {
	var err error
	if t.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		t.TextBG = Ref[BackgroundK]{Index: v}
	}
	if t.FontKerning, err = r.ReadI32(); err != nil {
		return err
	}
	t.Glyphs, err = ReadStringRefList(r, d.Strings, "TGIN glyphs")
	if err != nil {
		return err
	}
	if t.LineHeight, err = r.ReadI32(); err != nil {
		return err
	}
	return nil
}

func (t *TextGroup) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(t.Name)
	b.WriteI32(t.TextBG.Index)
	b.WriteI32(t.FontKerning)
	WriteStringRefList(b, t.Glyphs)
	b.WriteI32(t.LineHeight)
	return nil
}

// Channel is one animation-curve channel, grounded on
// original_source's gamemaker/elements/animation_curve/channel.rs
// (points carry a time/value pair plus two tangent fields used by the
// smooth-interpolation curve kinds).
type Channel struct {
	Name        StringRef
	CurveType   uint32
	Iterations  uint32
	Points      []AnimCurvePoint
}

type AnimCurvePoint struct {
	X, Value float32
	Tangent0 float32
	Tangent1 float32
}

func (p *AnimCurvePoint) Deserialize(r *Reader, d *Data) error {
	var err error
	if p.X, err = r.ReadF32(); err != nil {
		return err
	}
	if p.Value, err = r.ReadF32(); err != nil {
		return err
	}
	if p.Tangent0, err = r.ReadF32(); err != nil {
		return err
	}
	if p.Tangent1, err = r.ReadF32(); err != nil {
		return err
	}
	return nil
}

func (p *AnimCurvePoint) Serialize(b *Builder, d *Data) error {
	b.WriteF32(p.X)
	b.WriteF32(p.Value)
	b.WriteF32(p.Tangent0)
	b.WriteF32(p.Tangent1)
	return nil
}

func (c *Channel) Deserialize(r *Reader, d *Data) error {
	var err error
	if c.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if c.CurveType, err = r.ReadU32(); err != nil {
		return err
	}
	if c.Iterations, err = r.ReadU32(); err != nil {
		return err
	}
	c.Points, err = ReadSimpleList[AnimCurvePoint](r, d, "animation curve points")
	return err
}

func (c *Channel) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(c.Name)
	b.WriteU32(c.CurveType)
	b.WriteU32(c.Iterations)
	return WriteSimpleList[AnimCurvePoint](b, d, c.Points)
}

// AnimCurve is ACRV, GMS 2.3+, grounded on original_source's
// gamemaker/elements/animation_curve.rs.
type AnimCurve struct {
	Name      StringRef
	GraphType uint32
	Channels  []Channel
}

func (a *AnimCurve) Deserialize(r *Reader, d *Data) error {
	var err error
	if a.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if a.GraphType, err = r.ReadU32(); err != nil {
		return err
	}
	a.Channels, err = ReadSimpleList[Channel](r, d, "animation curve channels")
	return err
}

func (a *AnimCurve) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(a.Name)
	b.WriteU32(a.GraphType)
	return WriteSimpleList[Channel](b, d, a.Channels)
}

// FilterEffect is one FILT/FEDS entry, grounded on original_source's
// gamemaker/elements/filter_effect.rs: a bare name/value pair.
type FilterEffect struct {
	Name, Value StringRef
}

func (f *FilterEffect) Deserialize(r *Reader, d *Data) error {
	var err error
	if f.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	f.Value, err = r.ReadPooledString(d.Strings)
	return err
}

func (f *FilterEffect) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(f.Name)
	b.WritePooledString(f.Value)
	return nil
}
