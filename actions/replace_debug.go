// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// replaceDebug is the pattern every variant's toggle.go delegates to,
// ground: original_source's libgm-cli/src/actions/enable_debug.rs,
// generalized to both directions (enable and disable) the way
// deltarune.rs's super::replace_debug call implies a shared two-way
// helper exists. It scans codeRef's instructions for a push of an
// integer literal immediately followed by a Pop into
// instanceType.debug, asserts the current value is 0 or 1, and
// overwrites the push with the desired value - a no-op if the value
// already matches, making repeated calls idempotent.
func replaceDebug(d *gmdata.Data, codeRef gmdata.Ref[gmdata.CodeKind], enable bool, instanceType gml.InstanceType) error {
	code, err := d.CodeByRef(codeRef)
	if err != nil {
		return err
	}

	for i := 0; i+1 < len(code.Instructions); i++ {
		pop, ok := code.Instructions[i+1].(*gml.Pop)
		if !ok {
			continue
		}
		if pop.Variable.Instance.Kind != instanceType {
			continue
		}
		name, err := d.VariableName(pop.Variable.Variable)
		if err != nil {
			return err
		}
		if name != "debug" {
			continue
		}

		current, ok, err := currentIntLiteral(code.Instructions[i])
		if err != nil {
			return err
		}
		if !ok {
			return gmdata.ErrChainCorrupt
		}
		if current != 0 && current != 1 {
			return gmdata.ErrInvalidConstant
		}

		want := int32(0)
		if enable {
			want = 1
		}
		if current == want {
			// Already in the desired state - idempotent no-op.
			return nil
		}
		code.Instructions[i] = &gml.PushImmediate{Value: int16(want)}
		return nil
	}
	return gmdata.ErrInvalidReference
}

// currentIntLiteral extracts the integer value out of the handful of
// push shapes that can precede a Pop into a boolean-flag variable.
func currentIntLiteral(instr gml.Instruction) (int32, bool, error) {
	switch v := instr.(type) {
	case *gml.PushImmediate:
		return int32(v.Value), true, nil
	case *gml.Push:
		switch v.Value.Type {
		case gml.Int16:
			return int32(v.Value.Int16), true, nil
		case gml.Int32:
			return v.Value.Int32, true, nil
		case gml.Boolean:
			if v.Value.Bool {
				return 1, true, nil
			}
			return 0, true, nil
		}
	}
	return 0, false, nil
}
