// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// Path is one PATH entry, grounded on original_source's
// gamemaker/elements/paths.rs.
type Path struct {
	Name      StringRef
	IsSmooth  bool
	IsClosed  bool
	Precision uint32
	Points    []PathPoint
}

type PathPoint struct {
	X, Y, Speed float32
}

func (p *PathPoint) Deserialize(r *Reader, d *Data) error {
	var err error
	if p.X, err = r.ReadF32(); err != nil {
		return err
	}
	if p.Y, err = r.ReadF32(); err != nil {
		return err
	}
	p.Speed, err = r.ReadF32()
	return err
}

func (p *PathPoint) Serialize(b *Builder, d *Data) error {
	b.WriteF32(p.X)
	b.WriteF32(p.Y)
	b.WriteF32(p.Speed)
	return nil
}

func (p *Path) Deserialize(r *Reader, d *Data) error {
	var err error
	if p.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if p.IsSmooth, err = r.ReadBool32(); err != nil {
		return err
	}
	if p.IsClosed, err = r.ReadBool32(); err != nil {
		return err
	}
	if p.Precision, err = r.ReadU32(); err != nil {
		return err
	}
	p.Points, err = ReadSimpleList[PathPoint](r, d, "path points")
	return err
}

func (p *Path) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(p.Name)
	b.WriteBool32(p.IsSmooth)
	b.WriteBool32(p.IsClosed)
	b.WriteU32(p.Precision)
	return WriteSimpleList[PathPoint](b, d, p.Points)
}
