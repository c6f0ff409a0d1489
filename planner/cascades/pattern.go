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

package cascades

import (
	"github.com/ZHANGWENTAI/risingwave/planner/core"
)

// Operand is the node of a pattern tree, the logical operator kind a rule
// is interested in.
type Operand int

const (
	// OperandAny is a wildcard matching every logical operator.
	OperandAny Operand = iota
	// OperandJoin is the operand for LogicalJoin.
	OperandJoin
	// OperandDataSource is the operand for DataSource.
	OperandDataSource
	// OperandSelection is the operand for LogicalSelection.
	OperandSelection
	// OperandProjection is the operand for LogicalProjection.
	OperandProjection
	// OperandSort is the operand for LogicalSort.
	OperandSort
	// OperandLimit is the operand for LogicalLimit.
	OperandLimit
	// OperandUnsupported is the operand for operators without a rule.
	OperandUnsupported
)

// GetOperand maps a logical plan to its operand.
func GetOperand(p core.LogicalPlan) Operand {
	switch p.(type) {
	case *core.LogicalJoin:
		return OperandJoin
	case *core.DataSource:
		return OperandDataSource
	case *core.LogicalSelection:
		return OperandSelection
	case *core.LogicalProjection:
		return OperandProjection
	case *core.LogicalSort:
		return OperandSort
	case *core.LogicalLimit:
		return OperandLimit
	}
	return OperandUnsupported
}

// Match checks if current Operand matches specified one.
func (o Operand) Match(t Operand) bool {
	if o == OperandAny || t == OperandAny {
		return true
	}
	return o == t
}

// Pattern defines the match pattern used in a rule. A nil Children list
// means the rule does not constrain the subtree below.
type Pattern struct {
	Operand
	Children []*Pattern
}

// NewPattern creates a pattern node without children.
func NewPattern(operand Operand) *Pattern {
	return &Pattern{Operand: operand}
}

// SetChildren sets the Children information for a pattern node.
func (p *Pattern) SetChildren(children ...*Pattern) {
	p.Children = children
}

// BuildPattern builds a Pattern from Operand and child Patterns.
func BuildPattern(operand Operand, children ...*Pattern) *Pattern {
	p := &Pattern{Operand: operand}
	p.Children = children
	return p
}

// matchPattern checks whether a logical plan tree matches a pattern tree.
func matchPattern(p core.LogicalPlan, pattern *Pattern) bool {
	if !GetOperand(p).Match(pattern.Operand) {
		return false
	}
	if pattern.Children == nil {
		return true
	}
	children := p.Children()
	if len(children) != len(pattern.Children) {
		return false
	}
	for i, child := range children {
		if !matchPattern(child, pattern.Children[i]) {
			return false
		}
	}
	return true
}
