// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// AnimCurveGraphType mirrors original_source's
// gamemaker/elements/anim_curve.rs GraphType.
type AnimCurveGraphType int32

const (
	GraphSmooth AnimCurveGraphType = 0
	GraphLinear AnimCurveGraphType = 1
)

// AnimCurve is one ACRV entry: a named set of animation-curve channels,
// grounded on original_source's gamemaker/elements/anim_curve.rs.
type AnimCurve struct {
	Name      StringRef
	GraphType AnimCurveGraphType
	Channels  []AnimCurveChannel
}

// AnimCurveChannel is one named curve within an AnimCurve, carrying its
// own interpolation flag and control points.
type AnimCurveChannel struct {
	Name        StringRef
	CurveType   int32
	Iterations  uint32
	Points      []AnimCurvePoint
}

// AnimCurvePoint is one (x, value) control point; BezierX0/Y0/X1/Y1 are
// only meaningful when the owning channel's CurveType selects Bezier
// interpolation, but are always present on disk as four trailing floats.
type AnimCurvePoint struct {
	X, Value               float32
	BezierX0, BezierY0     float32
	BezierX1, BezierY1     float32
}

func (p *AnimCurvePoint) Deserialize(r *Reader, d *Data) error {
	var err error
	if p.X, err = r.ReadF32(); err != nil {
		return err
	}
	if p.Value, err = r.ReadF32(); err != nil {
		return err
	}
	if p.BezierX0, err = r.ReadF32(); err != nil {
		return err
	}
	if p.BezierY0, err = r.ReadF32(); err != nil {
		return err
	}
	if p.BezierX1, err = r.ReadF32(); err != nil {
		return err
	}
	p.BezierY1, err = r.ReadF32()
	return err
}

func (p *AnimCurvePoint) Serialize(b *Builder, d *Data) error {
	b.WriteF32(p.X)
	b.WriteF32(p.Value)
	b.WriteF32(p.BezierX0)
	b.WriteF32(p.BezierY0)
	b.WriteF32(p.BezierX1)
	b.WriteF32(p.BezierY1)
	return nil
}

func (c *AnimCurveChannel) Deserialize(r *Reader, d *Data) error {
	var err error
	if c.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	curveType, err := r.ReadI32()
	if err != nil {
		return err
	}
	c.CurveType = curveType
	if c.Iterations, err = r.ReadU32(); err != nil {
		return err
	}
	c.Points, err = ReadSimpleList[AnimCurvePoint](r, d, "anim curve channel points")
	return err
}

func (c *AnimCurveChannel) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(c.Name)
	b.WriteI32(c.CurveType)
	b.WriteU32(c.Iterations)
	return WriteSimpleList[AnimCurvePoint](b, d, c.Points)
}

func (a *AnimCurve) Deserialize(r *Reader, d *Data) error {
	var err error
	if a.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	graphType, err := r.ReadI32()
	if err != nil {
		return err
	}
	a.GraphType = AnimCurveGraphType(graphType)
	a.Channels, err = ReadSimpleList[AnimCurveChannel](r, d, "anim curve channels")
	return err
}

func (a *AnimCurve) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(a.Name)
	b.WriteI32(int32(a.GraphType))
	return WriteSimpleList[AnimCurveChannel](b, d, a.Channels)
}
