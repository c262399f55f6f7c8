// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// ExtensionKind mirrors original_source's GMExtensionKind (extension
// file types known to the loader).
type ExtensionKind int32

const (
	ExtensionNone ExtensionKind = iota
	ExtensionDLL
	ExtensionGML
	ExtensionJS
)

// ExtensionReturnType mirrors extension/function.rs's ReturnType.
type ExtensionReturnType int32

const (
	ExtensionReturnString ExtensionReturnType = 1
	ExtensionReturnDouble ExtensionReturnType = 2
)

// ExtensionOptionKind mirrors extension/option.rs's Kind.
type ExtensionOptionKind int32

const (
	ExtensionOptionBoolean ExtensionOptionKind = 0
	ExtensionOptionNumber  ExtensionOptionKind = 1
	ExtensionOptionString  ExtensionOptionKind = 2
)

// Extension is EXTN: a GML extension package, grounded on
// original_source's gamemaker/elements/extension/{file,function,option}.rs.
// New-style pointer/option fields only exist from 2022.6 onward per
// the extension-2022.6/2023.4 detectors in version.go.
type Extension struct {
	Name        StringRef
	ClassName   StringRef
	Version     StringRef
	Files       []ExtensionFile
	Options     []ExtensionOption
}

type ExtensionFile struct {
	Filename      StringRef
	CleanupScript StringRef
	InitScript    StringRef
	Kind          ExtensionKind
	Functions     []ExtensionFunction
}

type ExtensionFunction struct {
	Name       StringRef
	ID         uint32
	Kind       ExtensionKind
	ReturnType ExtensionReturnType
	ExtName    StringRef
	Arguments  []ExtensionArgument
}

type ExtensionArgument struct {
	ReturnType ExtensionReturnType
}

type ExtensionOption struct {
	Name, Value StringRef
	Kind        ExtensionOptionKind
}

func (a *ExtensionArgument) Deserialize(r *Reader, d *Data) error {
	v, err := r.ReadI32()
	if err != nil {
		return err
	}
	a.ReturnType = ExtensionReturnType(v)
	return nil
}

func (a *ExtensionArgument) Serialize(b *Builder, d *Data) error {
	b.WriteI32(int32(a.ReturnType))
	return nil
}

func (o *ExtensionOption) Deserialize(r *Reader, d *Data) error {
	var err error
	if o.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if o.Value, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	v, err := r.ReadI32()
	if err != nil {
		return err
	}
	o.Kind = ExtensionOptionKind(v)
	return nil
}

func (o *ExtensionOption) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(o.Name)
	b.WritePooledString(o.Value)
	b.WriteI32(int32(o.Kind))
	return nil
}

func (fn *ExtensionFunction) Deserialize(r *Reader, d *Data) error {
	var err error
	if fn.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if fn.ID, err = r.ReadU32(); err != nil {
		return err
	}
	kind, err := r.ReadI32()
	if err != nil {
		return err
	}
	fn.Kind = ExtensionKind(kind)
	rt, err := r.ReadI32()
	if err != nil {
		return err
	}
	fn.ReturnType = ExtensionReturnType(rt)
	if fn.ExtName, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	fn.Arguments, err = ReadSimpleList[ExtensionArgument](r, d, "extension function arguments")
	return err
}

func (fn *ExtensionFunction) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(fn.Name)
	b.WriteU32(fn.ID)
	b.WriteI32(int32(fn.Kind))
	b.WriteI32(int32(fn.ReturnType))
	b.WritePooledString(fn.ExtName)
	return WriteSimpleList[ExtensionArgument](b, d, fn.Arguments)
}

func (f *ExtensionFile) Deserialize(r *Reader, d *Data) error {
	var err error
	if f.Filename, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if f.CleanupScript, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if f.InitScript, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	kind, err := r.ReadI32()
	if err != nil {
		return err
	}
	f.Kind = ExtensionKind(kind)
	f.Functions, err = ReadPointerList[ExtensionFunction](r, d, "extension functions")
	return err
}

func (f *ExtensionFile) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(f.Filename)
	b.WritePooledString(f.CleanupScript)
	b.WritePooledString(f.InitScript)
	b.WriteI32(int32(f.Kind))
	return WritePointerList[ExtensionFunction](b, d, f.Functions)
}

func (e *Extension) Deserialize(r *Reader, d *Data) error {
	var err error
	if e.Name, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if e.ClassName, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	if e.Version, err = r.ReadPooledString(d.Strings); err != nil {
		return err
	}
	e.Files, err = ReadPointerList[ExtensionFile](r, d, "extension files")
	if err != nil {
		return err
	}
	if d.Version.AtLeast(VersionReq{Year: 2022, Month: 6}) {
		e.Options, err = ReadPointerList[ExtensionOption](r, d, "extension options")
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Extension) Serialize(b *Builder, d *Data) error {
	b.WritePooledString(e.Name)
	b.WritePooledString(e.ClassName)
	b.WritePooledString(e.Version)
	if err := WritePointerList[ExtensionFile](b, d, e.Files); err != nil {
		return err
	}
	if d.Version.AtLeast(VersionReq{Year: 2022, Month: 6}) {
		return WritePointerList[ExtensionOption](b, d, e.Options)
	}
	return nil
}
