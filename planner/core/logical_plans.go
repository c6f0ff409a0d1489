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

package core

import (
	"github.com/ZHANGWENTAI/risingwave/expression"
	"github.com/ZHANGWENTAI/risingwave/planner/planctx"
)

// JoinType contains CrossJoin, InnerJoin, LeftOuterJoin, RightOuterJoin,
// FullOuterJoin, SemiJoin, AntiSemiJoin.
type JoinType int

const (
	// InnerJoin means inner join.
	InnerJoin JoinType = iota
	// LeftOuterJoin means left join.
	LeftOuterJoin
	// RightOuterJoin means right join.
	RightOuterJoin
	// FullOuterJoin means full outer join.
	FullOuterJoin
	// SemiJoin means if row a in table A matches some rows in B, just output a.
	SemiJoin
	// AntiSemiJoin means if row a in table A does not match any row in B, output a.
	AntiSemiJoin
)

// String implements fmt.Stringer interface.
func (tp JoinType) String() string {
	switch tp {
	case InnerJoin:
		return "inner join"
	case LeftOuterJoin:
		return "left outer join"
	case RightOuterJoin:
		return "right outer join"
	case FullOuterJoin:
		return "full outer join"
	case SemiJoin:
		return "semi join"
	case AntiSemiJoin:
		return "anti semi join"
	}
	return "unsupported join type"
}

// LogicalJoin is the logical join plan.
type LogicalJoin struct {
	baseLogicalPlan

	JoinType JoinType

	// Conditions are the CNF items of the on condition, over the
	// concatenated left+right row. They are opaque handles owned by the
	// expression subsystem; the planner only classifies their shape.
	Conditions []expression.Expression

	// Hints is the ordered hint list, passed through to the physical join
	// unchanged.
	Hints []*JoinHint
}

// NewLogicalJoin creates a logical join between two children. The schema
// is derived from the join type: semi and anti joins keep the left row
// only, every other type outputs the concatenated row.
func NewLogicalJoin(ctx *planctx.Context, tp JoinType, conditions []expression.Expression,
	hints []*JoinHint, left, right LogicalPlan) *LogicalJoin {
	join := &LogicalJoin{
		baseLogicalPlan: newBaseLogicalPlan(ctx, "Join"),
		JoinType:        tp,
		Conditions:      conditions,
		Hints:           hints,
	}
	join.SetChildren(left, right)
	join.SetSchema(buildJoinSchema(tp, left.Schema(), right.Schema()))
	return join
}

func buildJoinSchema(tp JoinType, lSchema, rSchema *expression.Schema) *expression.Schema {
	switch tp {
	case SemiJoin, AntiSemiJoin:
		return lSchema.Clone()
	}
	return expression.MergeSchema(lSchema, rSchema)
}

// preferredJoinType derives the strategy preference from the recognized
// hints. Pure function of the hint list, computed per call.
func (p *LogicalJoin) preferredJoinType() uint {
	return parseJoinHints(p.Hints)
}

// DataSource represents a table scan without condition push down.
type DataSource struct {
	baseLogicalPlan

	TableID   int64
	TableName string
}

// NewDataSource creates a data source over a catalog table. Columns carry
// the output offsets; the catalog layer supplies nothing but counts and
// identities here. Each column gets a query-unique ID, so the same table
// scanned twice yields two distinguishable column sets.
func NewDataSource(ctx *planctx.Context, tableID int64, tableName string, cols []*expression.Column) *DataSource {
	ds := &DataSource{
		baseLogicalPlan: newBaseLogicalPlan(ctx, "DataSource"),
		TableID:         tableID,
		TableName:       tableName,
	}
	for _, col := range cols {
		if col.UniqueID == 0 {
			col.UniqueID = ctx.AllocColumnID()
		}
	}
	ds.SetSchema(expression.NewSchema(cols...))
	return ds
}

// LogicalSelection represents a where or having predicate.
type LogicalSelection struct {
	baseLogicalPlan

	// Conditions is in CNF format.
	Conditions []expression.Expression
}

// NewLogicalSelection creates a selection above a child.
func NewLogicalSelection(ctx *planctx.Context, conditions []expression.Expression, child LogicalPlan) *LogicalSelection {
	sel := &LogicalSelection{
		baseLogicalPlan: newBaseLogicalPlan(ctx, "Selection"),
		Conditions:      conditions,
	}
	sel.SetChildren(child)
	sel.SetSchema(child.Schema())
	return sel
}

// LogicalProjection represents a select fields plan.
type LogicalProjection struct {
	baseLogicalPlan

	Exprs []expression.Expression
}

// NewLogicalProjection creates a projection above a child. The output
// schema renumbers offsets positionally but every output column gets a
// fresh unique ID: a parent join over two projections must never see the
// two sides collide just because both count offsets from zero.
func NewLogicalProjection(ctx *planctx.Context, exprs []expression.Expression, child LogicalPlan) *LogicalProjection {
	proj := &LogicalProjection{
		baseLogicalPlan: newBaseLogicalPlan(ctx, "Projection"),
		Exprs:           exprs,
	}
	proj.SetChildren(child)
	cols := make([]*expression.Column, 0, len(exprs))
	for i, expr := range exprs {
		outCol := &expression.Column{UniqueID: ctx.AllocColumnID(), Index: i}
		if src, ok := expr.(*expression.Column); ok {
			outCol.Name = src.Name
		}
		cols = append(cols, outCol)
	}
	proj.SetSchema(expression.NewSchema(cols...))
	return proj
}

// ByItems wraps a "by" item.
type ByItems struct {
	Expr expression.Expression
	Desc bool
}

// Clone makes a copy of ByItems.
func (by *ByItems) Clone() *ByItems {
	return &ByItems{Expr: by.Expr.Clone(), Desc: by.Desc}
}

// LogicalSort stands for the order by plan.
type LogicalSort struct {
	baseLogicalPlan

	ByItems []*ByItems
}

// NewLogicalSort creates a sort above a child.
func NewLogicalSort(ctx *planctx.Context, byItems []*ByItems, child LogicalPlan) *LogicalSort {
	sort := &LogicalSort{
		baseLogicalPlan: newBaseLogicalPlan(ctx, "Sort"),
		ByItems:         byItems,
	}
	sort.SetChildren(child)
	sort.SetSchema(child.Schema())
	return sort
}

// LogicalLimit represents offset and limit plan.
type LogicalLimit struct {
	baseLogicalPlan

	Offset uint64
	Count  uint64
}

// NewLogicalLimit creates a limit above a child.
func NewLogicalLimit(ctx *planctx.Context, count, offset uint64, child LogicalPlan) *LogicalLimit {
	limit := &LogicalLimit{
		baseLogicalPlan: newBaseLogicalPlan(ctx, "Limit"),
		Count:           count,
		Offset:          offset,
	}
	limit.SetChildren(child)
	limit.SetSchema(child.Schema())
	return limit
}
