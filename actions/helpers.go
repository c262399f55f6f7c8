// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package actions

import (
	"github.com/gm-tools/gmdata"
	"github.com/gm-tools/gmdata/gml"
)

// debugVariable resolves the catalog's "debug" variable under the
// given instance scope into the CodeVariable shape a Push/Pop operand
// needs. It never interns a new VARI entry: every variant this
// package supports patches an existing debug flag rather than
// introducing one, so the lookup failing means the file genuinely has
// no such variable.
func debugVariable(d *gmdata.Data, instanceType gml.InstanceType) (gml.CodeVariable, error) {
	idx, err := d.VariableByName("debug")
	if err != nil {
		return gml.CodeVariable{}, err
	}
	return gml.CodeVariable{
		Variable:     gml.VarRef(idx),
		VariableType: gml.VarNormal,
		Instance:     gml.InstanceTypeRef{Kind: instanceType},
	}, nil
}

// pushInt builds the immediate-literal push every toggle script opens
// with, widened to Int32 the way PushImmediate's int16 payload always
// is once it reaches the stack.
func pushInt(enable bool) gml.Instruction {
	v := int16(0)
	if enable {
		v = 1
	}
	return &gml.PushImmediate{Value: v}
}

// popVariable builds a "pop.i.v <scope>.<name>" instruction: an Int32
// stack value assigned into a Variable-kind destination, the ordinary
// shape for a scalar flag assignment (as opposed to the "pop.v.v"
// shape used for chained/array destinations).
func popVariable(v gml.CodeVariable) gml.Instruction {
	return &gml.Pop{Type1: gml.Int32, Type2: gml.Variable, Variable: v}
}

// pushVariable builds a "push.v <scope>.<name>" instruction reading
// the variable back onto the stack.
func pushVariable(v gml.CodeVariable) gml.Instruction {
	return &gml.Push{PushOp: gml.OpPush, Value: gml.PushValue{Type: gml.Variable, Var: v}}
}

// returnValue builds the "ret.v" instruction terminating a script that
// returns whatever is on the stack.
func returnValue() gml.Instruction {
	return &gml.Misc{Op: gml.OpRet, Type: gml.Variable}
}
