// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// Function is one FUNC entry: a named callable plus its
// occurrence-chain head, ground: original_source's
// src/serialize/functions.rs build_chunk_func.
type Function struct {
	Name                  StringRef
	OccurrenceCount       uint32
	FirstOccurrenceOffset uint32
}

func (f *Function) Deserialize(r *Reader, d *Data) error {
	var err error
	if f.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if f.OccurrenceCount, err = r.ReadU32(); err != nil {
		return err
	}
	if f.FirstOccurrenceOffset, err = r.ReadU32(); err != nil {
		return err
	}
	return nil
}

func (f *Function) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(f.Name)
	b.WriteU32(f.OccurrenceCount)
	b.WriteU32(f.FirstOccurrenceOffset)
	return nil
}

// LocalVariable is one entry in a CodeLocal's variable list, ground:
// original_source's libgm/src/gamemaker/elements/function/code_local.rs
// LocalVariable.
type LocalVariable struct {
	WeirdIndex uint32
	Name       StringRef
}

func (v *LocalVariable) Deserialize(r *Reader, d *Data) error {
	var err error
	if v.WeirdIndex, err = r.ReadU32(); err != nil {
		return err
	}
	if v.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	return nil
}

func (v *LocalVariable) Serialize(b *Builder, d *Data) error {
	b.WriteU32(v.WeirdIndex)
	b.WritePooledString(v.Name)
	return nil
}

// CodeLocal names one code entry's local-variable slots, ground:
// code_local.rs's GMCodeLocal. FUNC's chunk layout stores a single
// simple list of these after the function entries themselves.
type CodeLocal struct {
	Name      StringRef
	Variables []LocalVariable
}

func (c *CodeLocal) Deserialize(r *Reader, d *Data) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	if c.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	c.Variables = make([]LocalVariable, count)
	for i := range c.Variables {
		if err := c.Variables[i].Deserialize(r, d); err != nil {
			return wrapf(err, "local variable %d", i)
		}
	}
	return nil
}

func (c *CodeLocal) Serialize(b *Builder, d *Data) error {
	b.WriteU32(uint32(len(c.Variables)))
	b.WritePooledString(c.Name)
	for i := range c.Variables {
		if err := c.Variables[i].Serialize(b, d); err != nil {
			return wrapf(err, "local variable %d", i)
		}
	}
	return nil
}

func deserializeFunctionsChunk(r *Reader, d *Data) ([]Function, []CodeLocal, error) {
	count, err := r.ReadCount("function")
	if err != nil {
		return nil, nil, err
	}
	funcs := make([]Function, count)
	for i := range funcs {
		if err := funcs[i].Deserialize(r, d); err != nil {
			return nil, nil, wrapf(err, "function entry %d", i)
		}
	}
	locals, err := ReadSimpleList[CodeLocal](r, d, "code locals")
	if err != nil {
		return nil, nil, err
	}
	return funcs, locals, nil
}

func serializeFunctionsChunk(b *Builder, d *Data, funcs []Function, locals []CodeLocal) error {
	b.BeginChunk(ChunkFUNC)
	b.WriteCount(uint32(len(funcs)))
	for i := range funcs {
		if err := funcs[i].Serialize(b, d); err != nil {
			return wrapf(err, "function entry %d", i)
		}
	}
	if err := WriteSimpleList(b, d, locals); err != nil {
		return err
	}
	b.EndChunk()
	return nil
}
