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

package planpb

// ExprType identifies the kind of a wire expression node.
type ExprType string

// Wire expression node kinds.
const (
	ExprTypeColumnRef ExprType = "COLUMN_REF"
	ExprTypeConst     ExprType = "CONST"

	ExprTypeAnd ExprType = "AND"
	ExprTypeOr  ExprType = "OR"
	ExprTypeNot ExprType = "NOT"

	ExprTypeEQ ExprType = "EQ"
	ExprTypeNE ExprType = "NE"
	ExprTypeLT ExprType = "LT"
	ExprTypeLE ExprType = "LE"
	ExprTypeGT ExprType = "GT"
	ExprTypeGE ExprType = "GE"

	ExprTypePlus  ExprType = "PLUS"
	ExprTypeMinus ExprType = "MINUS"
	ExprTypeMul   ExprType = "MUL"
	ExprTypeDiv   ExprType = "DIV"
)

// Expr is the serialized form of a scalar expression. A column reference
// carries the column offset in Idx, a constant carries its rendered value
// in Val, and a function carries its arguments in Children.
type Expr struct {
	Tp       ExprType `json:"tp"`
	Idx      int32    `json:"idx,omitempty"`
	Val      string   `json:"val,omitempty"`
	Children []*Expr  `json:"children,omitempty"`
}

// ByItem is a sort specification: an expression plus its direction.
type ByItem struct {
	Expr *Expr `json:"expr"`
	Desc bool  `json:"desc,omitempty"`
}
