// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "github.com/gm-tools/gmdata/gml"

// Name-based catalog lookups, ground: original_source's
// libgm/src/gamemaker/... by_name/ref_by_name helper family used
// throughout the actions and CLI code (e.g. enable_debug.rs's
// data.scripts.by_name("SCR_GAMESTART")). Linear scans are acceptable
// here: these are one-shot CLI/action lookups, never called per
// instruction.

// ScriptByName returns the first Script entry named name.
func (d *Data) ScriptByName(name string) (*Script, error) {
	for i := range d.Scripts {
		if mustString(d, d.Scripts[i].Name) == name {
			return &d.Scripts[i], nil
		}
	}
	return nil, wrapf(ErrInvalidReference, "no script named %q", name)
}

// CodeByName returns the first Code entry named name.
func (d *Data) CodeByName(name string) (*Code, error) {
	for i := range d.Code {
		if mustString(d, d.Code[i].Name) == name {
			return &d.Code[i], nil
		}
	}
	return nil, wrapf(ErrInvalidReference, "no code entry named %q", name)
}

// CodeRefByName returns a Ref to the first Code entry named name.
func (d *Data) CodeRefByName(name string) (Ref[CodeKind], error) {
	for i := range d.Code {
		if mustString(d, d.Code[i].Name) == name {
			return Ref[CodeKind]{Index: int32(i)}, nil
		}
	}
	return NoRef[CodeKind](), wrapf(ErrInvalidReference, "no code entry named %q", name)
}

// CodeByRef resolves ref against d.Code.
func (d *Data) CodeByRef(ref Ref[CodeKind]) (*Code, error) {
	if ref.IsAbsent() || int(ref.Index) >= len(d.Code) {
		return nil, wrapf(ErrInvalidReference, "code reference %d out of range (have %d)", ref.Index, len(d.Code))
	}
	return &d.Code[ref.Index], nil
}

// FunctionByName returns the catalog index of the first Function
// entry named name.
func (d *Data) FunctionByName(name string) (int32, error) {
	for i := range d.Functions {
		if mustString(d, d.Functions[i].Name) == name {
			return int32(i), nil
		}
	}
	return -1, wrapf(ErrInvalidReference, "no function named %q", name)
}

// VariableName resolves a bytecode-side variable reference back to its
// catalog name, the inverse of VariableByName.
func (d *Data) VariableName(ref gml.VarRef) (string, error) {
	if ref < 0 || int(ref) >= len(d.Variables) {
		return "", wrapf(ErrInvalidReference, "variable reference %d out of range (have %d)", ref, len(d.Variables))
	}
	return d.Strings.String(d.Variables[ref].Name)
}

// VariableByName returns the catalog index of the first Variable
// entry named name.
func (d *Data) VariableByName(name string) (int32, error) {
	for i := range d.Variables {
		if mustString(d, d.Variables[i].Name) == name {
			return int32(i), nil
		}
	}
	return -1, wrapf(ErrInvalidReference, "no variable named %q", name)
}

// FeatureStrings resolves every FEAT entry to its string, for callers
// that want the resolved view rather than d.Features' raw StringRefs.
func (d *Data) FeatureStrings() ([]string, error) {
	out := make([]string, len(d.Features))
	for i, ref := range d.Features {
		s, err := d.Strings.String(ref)
		if err != nil {
			return nil, wrapf(err, "resolving feature %d", i)
		}
		out[i] = s
	}
	return out, nil
}
