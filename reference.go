// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "fmt"

// Kind tags a resource list a Ref can point into. Each catalog entry
// (Sprite, Room, Code, ...) defines its own empty Kind type, giving
// every reference family a distinct, compile-time-checked Go type -
// the Go-generics stand-in for the source's zero-sized phantom type
// parameter on references (see SPEC_FULL.md Design Notes).
type Kind interface {
	kindName() string
}

// Ref is a typed index into the resource list identified by K. The
// zero value is NOT a valid absent reference; use NoRef[K]() for that,
// since 0 is a legitimate index into the first element of a list.
type Ref[K Kind] struct {
	Index int32
}

// NoRef returns the "absent" sentinel reference for K (encoded on-disk
// as -1).
func NoRef[K Kind]() Ref[K] {
	return Ref[K]{Index: -1}
}

// IsAbsent reports whether r is the absent sentinel.
func (r Ref[K]) IsAbsent() bool {
	return r.Index < 0
}

// Valid reports whether r is in range for a resource list of length n.
// An absent reference is considered valid only when allowUnset is true.
func (r Ref[K]) Valid(n int, allowUnset bool) bool {
	if r.IsAbsent() {
		return allowUnset
	}
	return r.Index >= 0 && int(r.Index) < n
}

func (r Ref[K]) String() string {
	var k K
	if r.IsAbsent() {
		return fmt.Sprintf("%s<none>", k.kindName())
	}
	return fmt.Sprintf("%s<%d>", k.kindName(), r.Index)
}

// Resolve fetches the element r points to out of list, returning
// ErrInvalidReference if r is out of range. An absent ref returns the
// zero value and a nil error.
func Resolve[K Kind, T any](r Ref[K], list []T) (T, error) {
	var zero T
	if r.IsAbsent() {
		return zero, nil
	}
	if r.Index < 0 || int(r.Index) >= len(list) {
		var k K
		return zero, wrapf(ErrInvalidReference, "%s reference %d out of range (have %d)",
			k.kindName(), r.Index, len(list))
	}
	return list[r.Index], nil
}

// The catalog's kind markers. Each is an empty struct implementing Kind,
// one per resource list a Ref can target.
type (
	StringKind   struct{}
	SpriteKind   struct{}
	SoundKind    struct{}
	AudioGroup   struct{}
	BackgroundK  struct{}
	PathKind     struct{}
	ScriptKind   struct{}
	FontKind     struct{}
	ObjectKind   struct{}
	RoomKind     struct{}
	ExtensionK   struct{}
	CodeKind     struct{}
	VariableKind struct{}
	FunctionKind struct{}
	TextGroupK   struct{}
	AnimCurveK   struct{}
	FilterFxK    struct{}
	TagKind      struct{}
	TexturePageK struct{}
	TextureK     struct{}
)

func (StringKind) kindName() string   { return "String" }
func (SpriteKind) kindName() string   { return "Sprite" }
func (SoundKind) kindName() string    { return "Sound" }
func (AudioGroup) kindName() string   { return "AudioGroup" }
func (BackgroundK) kindName() string  { return "Background" }
func (PathKind) kindName() string     { return "Path" }
func (ScriptKind) kindName() string   { return "Script" }
func (FontKind) kindName() string     { return "Font" }
func (ObjectKind) kindName() string   { return "Object" }
func (RoomKind) kindName() string     { return "Room" }
func (ExtensionK) kindName() string   { return "Extension" }
func (CodeKind) kindName() string     { return "Code" }
func (VariableKind) kindName() string { return "Variable" }
func (FunctionKind) kindName() string { return "Function" }
func (TextGroupK) kindName() string   { return "TextGroup" }
func (AnimCurveK) kindName() string   { return "AnimCurve" }
func (FilterFxK) kindName() string    { return "FilterEffect" }
func (TagKind) kindName() string      { return "Tag" }
func (TexturePageK) kindName() string { return "TexturePage" }
func (TextureK) kindName() string     { return "Texture" }

// StringRef is shorthand for the extremely common string-table reference.
type StringRef = Ref[StringKind]
