// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// FilterEffect is one FILT entry: a named post-processing shader effect
// plus its declared uniform names, grounded on original_source's
// gamemaker/elements/filter_effect.rs.
type FilterEffect struct {
	Name       StringRef
	Properties []StringRef
}

func (f *FilterEffect) Deserialize(r *Reader, d *Data) error {
	var err error
	if f.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	f.Properties, err = ReadStringRefList(r, d.Strings, "filter effect properties")
	return err
}

func (f *FilterEffect) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(f.Name)
	WriteStringRefList(b, f.Properties)
	return nil
}
