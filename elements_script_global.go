// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// Script is one SCPT entry, grounded on original_source's
// gamemaker/elements/scripts.rs. A constructor script packs its
// "is constructor" flag into the high bit of the on-disk code index
// rather than spending a whole extra field on it.
type Script struct {
	Name          StringRef
	IsConstructor bool
	Code          Ref[CodeKind]
}

func (s *Script) Deserialize(r *Reader, d *Data) error {
	var err error
	if s.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	codeID, err := r.ReadI32()
	if err != nil {
		return err
	}
	if codeID < -1 {
		codeID &= 0x7FFFFFFF
		s.IsConstructor = true
	}
	s.Code = Ref[CodeKind]{Index: codeID}
	return nil
}

func (s *Script) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(s.Name)
	if s.IsConstructor && !s.Code.IsAbsent() {
		b.WriteU32(uint32(s.Code.Index) | 0x80000000)
	} else {
		b.WriteI32(s.Code.Index)
	}
	return nil
}
