// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// GameObject is one OBJT entry: a game-object definition (as opposed
// to a room's placed instance of one, see RoomInstance below). Per
// spec.md §1, individual catalog field layouts are data rather than
// design; this carries the collision/physics/visibility flags and the
// per-event code lists that every downstream consumer (the action APIs
// and the decompiler) actually reaches into.
type GameObject struct {
	Name             StringRef
	Sprite           Ref[SpriteKind]
	Visible          bool
	Solid            bool
	Depth            int32
	Persistent       bool
	ParentObject     Ref[ObjectKind]
	TextureMask      Ref[SpriteKind]
	UsesPhysics      bool
	IsSensor         bool
	CollisionShape   int32
	Density          float32
	Restitution      float32
	Group            uint32
	LinearDamping    float32
	AngularDamping   float32
	Friction         float32
	Awake            bool
	Kinematic        bool
	ShapePoints      []PathPoint
	Events           [][]ObjectEvent
}

// ObjectEvent is one event handler entry within an event list
// (collision events additionally carry the colliding object id in
// Subtype).
type ObjectEvent struct {
	Subtype int32
	Actions []ObjectAction
}

// ObjectAction is a single DnD/code action attached to an event; real
// files almost always carry exactly one, wrapping a compiled Code
// reference.
type ObjectAction struct {
	LibID, ID, Kind int32
	UseRelative     bool
	IsQuestion      bool
	UseApplyTo      bool
	ExeType         int32
	ActionName      StringRef
	CodeEntry       Ref[CodeKind]
	ArgumentCount   uint32
	Who             int32
	Relative        bool
	IsNot           bool
}

func (a *ObjectAction) Deserialize(r *Reader, d *Data) error {
	var err error
	if a.LibID, err = r.ReadI32(); err != nil {
		return err
	}
	if a.ID, err = r.ReadI32(); err != nil {
		return err
	}
	if a.Kind, err = r.ReadI32(); err != nil {
		return err
	}
	if a.UseRelative, err = r.ReadBool32(); err != nil {
		return err
	}
	if a.IsQuestion, err = r.ReadBool32(); err != nil {
		return err
	}
	if a.UseApplyTo, err = r.ReadBool32(); err != nil {
		return err
	}
	if a.ExeType, err = r.ReadI32(); err != nil {
		return err
	}
	if a.ActionName, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		a.CodeEntry = Ref[CodeKind]{Index: v}
	}
	if a.ArgumentCount, err = r.ReadU32(); err != nil {
		return err
	}
	if a.Who, err = r.ReadI32(); err != nil {
		return err
	}
	if a.Relative, err = r.ReadBool32(); err != nil {
		return err
	}
	a.IsNot, err = r.ReadBool32()
	return err
}

func (a *ObjectAction) Serialize(b *Builder, d *Data) error {
	b.WriteI32(a.LibID)
	b.WriteI32(a.ID)
	b.WriteI32(a.Kind)
	b.WriteBool32(a.UseRelative)
	b.WriteBool32(a.IsQuestion)
	b.WriteBool32(a.UseApplyTo)
	b.WriteI32(a.ExeType)
	b.WritePooledString(a.ActionName)
	b.WriteI32(a.CodeEntry.Index)
	b.WriteU32(a.ArgumentCount)
	b.WriteI32(a.Who)
	b.WriteBool32(a.Relative)
	b.WriteBool32(a.IsNot)
	return nil
}

func (e *ObjectEvent) Deserialize(r *Reader, d *Data) error {
	var err error
	if e.Subtype, err = r.ReadI32(); err != nil {
		return err
	}
	e.Actions, err = ReadSimpleList[ObjectAction](r, d, "object event actions")
	return err
}

func (e *ObjectEvent) Serialize(b *Builder, d *Data) error {
	b.WriteI32(e.Subtype)
	return WriteSimpleList[ObjectAction](b, d, e.Actions)
}

func (o *GameObject) Deserialize(r *Reader, d *Data) error {
	var err error
	if o.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		o.Sprite = Ref[SpriteKind]{Index: v}
	}
	if o.Visible, err = r.ReadBool32(); err != nil {
		return err
	}
	if o.Solid, err = r.ReadBool32(); err != nil {
		return err
	}
	if o.Depth, err = r.ReadI32(); err != nil {
		return err
	}
	if o.Persistent, err = r.ReadBool32(); err != nil {
		return err
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		o.ParentObject = Ref[ObjectKind]{Index: v}
	}
	if v, err := r.ReadI32(); err != nil {
		return err
	} else {
		o.TextureMask = Ref[SpriteKind]{Index: v}
	}
	if o.UsesPhysics, err = r.ReadBool32(); err != nil {
		return err
	}
	if o.IsSensor, err = r.ReadBool32(); err != nil {
		return err
	}
	if o.CollisionShape, err = r.ReadI32(); err != nil {
		return err
	}
	if o.Density, err = r.ReadF32(); err != nil {
		return err
	}
	if o.Restitution, err = r.ReadF32(); err != nil {
		return err
	}
	if o.Group, err = r.ReadU32(); err != nil {
		return err
	}
	if o.LinearDamping, err = r.ReadF32(); err != nil {
		return err
	}
	if o.AngularDamping, err = r.ReadF32(); err != nil {
		return err
	}
	pointCount, err := r.ReadCount("object physics shape points")
	if err != nil {
		return err
	}
	if o.Friction, err = r.ReadF32(); err != nil {
		return err
	}
	if o.Awake, err = r.ReadBool32(); err != nil {
		return err
	}
	if o.Kinematic, err = r.ReadBool32(); err != nil {
		return err
	}
	o.ShapePoints = make([]PathPoint, pointCount)
	for i := range o.ShapePoints {
		p := &o.ShapePoints[i]
		if p.X, err = r.ReadF32(); err != nil {
			return err
		}
		if p.Y, err = r.ReadF32(); err != nil {
			return err
		}
	}
	o.Events = make([][]ObjectEvent, 12)
	for i := range o.Events {
		o.Events[i], err = ReadSimpleList[ObjectEvent](r, d, "object events")
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *GameObject) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(o.Name)
	b.WriteI32(o.Sprite.Index)
	b.WriteBool32(o.Visible)
	b.WriteBool32(o.Solid)
	b.WriteI32(o.Depth)
	b.WriteBool32(o.Persistent)
	b.WriteI32(o.ParentObject.Index)
	b.WriteI32(o.TextureMask.Index)
	b.WriteBool32(o.UsesPhysics)
	b.WriteBool32(o.IsSensor)
	b.WriteI32(o.CollisionShape)
	b.WriteF32(o.Density)
	b.WriteF32(o.Restitution)
	b.WriteU32(o.Group)
	b.WriteF32(o.LinearDamping)
	b.WriteF32(o.AngularDamping)
	b.WriteCount(uint32(len(o.ShapePoints)))
	b.WriteF32(o.Friction)
	b.WriteBool32(o.Awake)
	b.WriteBool32(o.Kinematic)
	for _, p := range o.ShapePoints {
		b.WriteF32(p.X)
		b.WriteF32(p.Y)
	}
	for _, events := range o.Events {
		if err := WriteSimpleList[ObjectEvent](b, d, events); err != nil {
			return err
		}
	}
	return nil
}
