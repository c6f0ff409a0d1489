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

// SplitCNFItems splits CNF items from an expression, flattening nested
// AND functions. A non-AND expression is an item of itself.
func SplitCNFItems(onExpr Expression) []Expression {
	return splitNormalFormItems(onExpr, LogicAnd)
}

func splitNormalFormItems(onExpr Expression, funcName string) []Expression {
	switch v := onExpr.(type) {
	case *ScalarFunction:
		if v.FuncName == funcName {
			var ret []Expression
			for _, arg := range v.GetArgs() {
				ret = append(ret, splitNormalFormItems(arg, funcName)...)
			}
			return ret
		}
	}
	return []Expression{onExpr}
}

// ComposeCNFCondition composes CNF items into a balanced deep CNF expression.
func ComposeCNFCondition(conditions ...Expression) Expression {
	return composeConditionWithBinaryOp(conditions, LogicAnd)
}

func composeConditionWithBinaryOp(conditions []Expression, funcName string) Expression {
	length := len(conditions)
	if length == 0 {
		return nil
	}
	if length == 1 {
		return conditions[0]
	}
	expr := composeConditionWithBinaryOp(conditions[:length/2], funcName)
	return NewFunction(funcName, expr, composeConditionWithBinaryOp(conditions[length/2:], funcName))
}

// ExtractColumns extracts all columns from an expression.
func ExtractColumns(expr Expression) []*Column {
	switch v := expr.(type) {
	case *Column:
		return []*Column{v}
	case *ScalarFunction:
		var cols []*Column
		for _, arg := range v.GetArgs() {
			cols = append(cols, ExtractColumns(arg)...)
		}
		return cols
	}
	return nil
}

// IsEqCondition checks whether the expression is an equality between two
// column references, and returns both sides if so.
func IsEqCondition(expr Expression) (lhs, rhs *Column, ok bool) {
	binop, isFunc := expr.(*ScalarFunction)
	if !isFunc || binop.FuncName != EQ || len(binop.GetArgs()) != 2 {
		return nil, nil, false
	}
	lhs, lOK := binop.GetArgs()[0].(*Column)
	rhs, rOK := binop.GetArgs()[1].(*Column)
	if !lOK || !rOK {
		return nil, nil, false
	}
	return lhs, rhs, true
}
