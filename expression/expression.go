// Copyright 2024 RisingWave Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package expression

import (
	"fmt"
	"strings"
)

// Function names of the scalar functions the batch planner understands.
// The SQL front end is responsible for producing expressions restricted
// to this set; anything else is carried opaquely.
const (
	LogicAnd = "and"
	LogicOr  = "or"
	UnaryNot = "not"

	EQ = "eq"
	NE = "ne"
	LT = "lt"
	LE = "le"
	GT = "gt"
	GE = "ge"

	Plus  = "plus"
	Minus = "minus"
	Mul   = "mul"
	Div   = "div"
)

// Expression is a scalar expression evaluated against a single row.
// The planner never evaluates expressions; it only classifies their shape
// and hands them to the wire converter.
type Expression interface {
	fmt.Stringer

	// Equal checks whether two expressions are structurally equal.
	Equal(e Expression) bool

	// Clone copies an expression totally.
	Clone() Expression
}

// Column represents a column reference. UniqueID identifies the column
// within one planned query and is allocated by the planning context;
// operators that introduce columns (scans, projections) hand out fresh
// IDs, so two columns are the same column iff their UniqueIDs match, no
// matter how operators renumber their output offsets. Index is the offset
// of the column in the producing operator's output row; inside a join
// condition the row is the concatenation of the left and right child
// rows. The owning side of a reference is recovered through the
// children's schemas by UniqueID.
type Column struct {
	UniqueID int64
	Index    int
	Name     string
}

// String implements fmt.Stringer interface.
func (col *Column) String() string {
	if col.Name != "" {
		return fmt.Sprintf("%s#%d", col.Name, col.Index)
	}
	return fmt.Sprintf("col#%d", col.Index)
}

// Equal implements Expression interface.
func (col *Column) Equal(e Expression) bool {
	other, ok := e.(*Column)
	return ok && other.UniqueID == col.UniqueID
}

// Clone implements Expression interface.
func (col *Column) Clone() Expression {
	newCol := *col
	return &newCol
}

// Constant represents a literal value.
type Constant struct {
	Value any
}

// String implements fmt.Stringer interface.
func (c *Constant) String() string {
	return fmt.Sprint(c.Value)
}

// Equal implements Expression interface.
func (c *Constant) Equal(e Expression) bool {
	other, ok := e.(*Constant)
	return ok && other.Value == c.Value
}

// Clone implements Expression interface.
func (c *Constant) Clone() Expression {
	newCon := *c
	return &newCon
}

// ScalarFunction is the function that returns a value.
type ScalarFunction struct {
	FuncName string
	args     []Expression
}

// NewFunction builds a scalar function from a name and its arguments.
func NewFunction(funcName string, args ...Expression) *ScalarFunction {
	return &ScalarFunction{FuncName: funcName, args: args}
}

// GetArgs gets the arguments of the scalar function.
func (sf *ScalarFunction) GetArgs() []Expression {
	return sf.args
}

// String implements fmt.Stringer interface.
func (sf *ScalarFunction) String() string {
	args := make([]string, 0, len(sf.args))
	for _, arg := range sf.args {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s(%s)", sf.FuncName, strings.Join(args, ", "))
}

// Equal implements Expression interface.
func (sf *ScalarFunction) Equal(e Expression) bool {
	other, ok := e.(*ScalarFunction)
	if !ok || other.FuncName != sf.FuncName || len(other.args) != len(sf.args) {
		return false
	}
	for i, arg := range sf.args {
		if !arg.Equal(other.args[i]) {
			return false
		}
	}
	return true
}

// Clone implements Expression interface.
func (sf *ScalarFunction) Clone() Expression {
	args := make([]Expression, 0, len(sf.args))
	for _, arg := range sf.args {
		args = append(args, arg.Clone())
	}
	return &ScalarFunction{FuncName: sf.FuncName, args: args}
}
