// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "github.com/gm-tools/gmdata/gml"

// Names adapts a Data value's catalogs to gml.NameResolver and
// gml.NameInterner, the glue cmd/gmdump's asm/disasm subcommands need
// since gml deliberately knows nothing about gmdata's catalog types
// (SPEC_FULL.md §4's instruction model is parsed/encoded independently
// of the rest of the container).
type Names struct {
	d *Data
}

// NewNames returns a Names bound to d.
func NewNames(d *Data) *Names { return &Names{d: d} }

func (n *Names) VariableName(ref gml.VarRef) string {
	s, err := n.d.VariableName(ref)
	if err != nil {
		return ""
	}
	return s
}

func (n *Names) FunctionName(ref gml.FuncRef) string {
	if ref < 0 || int(ref) >= len(n.d.Functions) {
		return ""
	}
	return mustString(n.d, n.d.Functions[ref].Name)
}

func (n *Names) StringLiteral(id int32) string {
	s, _ := n.d.Strings.String(StringRef{Index: id})
	return s
}

func (n *Names) InternVariable(name string) gml.VarRef {
	if idx, err := n.d.VariableByName(name); err == nil {
		return gml.VarRef(idx)
	}
	idx := int32(len(n.d.Variables))
	n.d.Variables = append(n.d.Variables, Variable{Name: n.d.Strings.Intern(name)})
	return gml.VarRef(idx)
}

func (n *Names) InternFunction(name string) gml.FuncRef {
	if idx, err := n.d.FunctionByName(name); err == nil {
		return gml.FuncRef(idx)
	}
	idx := int32(len(n.d.Functions))
	n.d.Functions = append(n.d.Functions, Function{Name: n.d.Strings.Intern(name)})
	return gml.FuncRef(idx)
}

func (n *Names) InternString(lit string) int32 {
	return n.d.Strings.Intern(lit).Index
}
