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

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/ZHANGWENTAI/risingwave/planpb"
)

// ExpressionsToPB merges expressions into a CNF and converts it to a wire
// expression. It returns nil for an empty slice.
func ExpressionsToPB(exprs []Expression) *planpb.Expr {
	pc := PbConverter{}
	var pbExpr *planpb.Expr
	for _, expr := range exprs {
		v := pc.ExprToPB(expr)
		if v == nil {
			return nil
		}
		if pbExpr == nil {
			pbExpr = v
		} else {
			pbExpr = &planpb.Expr{
				Tp:       planpb.ExprTypeAnd,
				Children: []*planpb.Expr{pbExpr, v},
			}
		}
	}
	return pbExpr
}

// ExpressionsToPBList converts expressions to a wire expression list.
func ExpressionsToPBList(exprs []Expression) []*planpb.Expr {
	pc := PbConverter{}
	pbExprs := make([]*planpb.Expr, 0, len(exprs))
	for _, expr := range exprs {
		pbExprs = append(pbExprs, pc.ExprToPB(expr))
	}
	return pbExprs
}

// PbConverter supplies methods to convert expressions to the wire form.
type PbConverter struct{}

// NewPBConverter creates a PbConverter.
func NewPBConverter() PbConverter {
	return PbConverter{}
}

// ExprToPB converts an Expression to its wire form. It returns nil when
// the expression kind has no wire mapping.
func (pc PbConverter) ExprToPB(expr Expression) *planpb.Expr {
	switch x := expr.(type) {
	case *Constant:
		return pc.constantToPBExpr(x)
	case *Column:
		return pc.columnToPBExpr(x)
	case *ScalarFunction:
		return pc.scalarFuncToPBExpr(x)
	}
	return nil
}

func (pc PbConverter) constantToPBExpr(con *Constant) *planpb.Expr {
	return &planpb.Expr{
		Tp:  planpb.ExprTypeConst,
		Val: fmt.Sprint(con.Value),
	}
}

func (pc PbConverter) columnToPBExpr(column *Column) *planpb.Expr {
	return &planpb.Expr{
		Tp:  planpb.ExprTypeColumnRef,
		Idx: int32(column.Index),
	}
}

var funcNameToPB = map[string]planpb.ExprType{
	LogicAnd: planpb.ExprTypeAnd,
	LogicOr:  planpb.ExprTypeOr,
	UnaryNot: planpb.ExprTypeNot,
	EQ:       planpb.ExprTypeEQ,
	NE:       planpb.ExprTypeNE,
	LT:       planpb.ExprTypeLT,
	LE:       planpb.ExprTypeLE,
	GT:       planpb.ExprTypeGT,
	GE:       planpb.ExprTypeGE,
	Plus:     planpb.ExprTypePlus,
	Minus:    planpb.ExprTypeMinus,
	Mul:      planpb.ExprTypeMul,
	Div:      planpb.ExprTypeDiv,
}

func (pc PbConverter) scalarFuncToPBExpr(expr *ScalarFunction) *planpb.Expr {
	tp, ok := funcNameToPB[expr.FuncName]
	if !ok {
		log.L().Debug("expression cannot be converted to wire form",
			zap.String("function", expr.FuncName))
		return nil
	}
	children := make([]*planpb.Expr, 0, len(expr.GetArgs()))
	for _, arg := range expr.GetArgs() {
		pbArg := pc.ExprToPB(arg)
		if pbArg == nil {
			return nil
		}
		children = append(children, pbArg)
	}
	return &planpb.Expr{Tp: tp, Children: children}
}

// SortByItemToPB converts an order-by item to the wire form.
func SortByItemToPB(expr Expression, desc bool) *planpb.ByItem {
	pc := PbConverter{}
	e := pc.ExprToPB(expr)
	if e == nil {
		return nil
	}
	return &planpb.ByItem{Expr: e, Desc: desc}
}
