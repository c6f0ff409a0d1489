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
	"fmt"
	"strings"

	"github.com/ZHANGWENTAI/risingwave/expression"
	"github.com/ZHANGWENTAI/risingwave/planner/planctx"
	"github.com/ZHANGWENTAI/risingwave/planner/property"
)

// PhysicalTableScan is the batch scan over one catalog table.
type PhysicalTableScan struct {
	basePhysicalPlan

	TableID   int64
	TableName string
}

// NewPhysicalTableScan creates the physical scan for a data source.
func NewPhysicalTableScan(ctx *planctx.Context, ds *DataSource) *PhysicalTableScan {
	ts := &PhysicalTableScan{
		basePhysicalPlan: newBasePhysicalPlan(ctx, "TableScan", property.NewPhysicalProperty(property.ConventionBatchPhysical)),
		TableID:          ds.TableID,
		TableName:        ds.TableName,
	}
	ts.SetSchema(ds.Schema())
	return ts
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalTableScan) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalTableScan) ExplainInfo() string {
	return fmt.Sprintf("table:%s", p.TableName)
}

// PhysicalSelection represents a filter.
type PhysicalSelection struct {
	basePhysicalPlan

	Conditions []expression.Expression
}

// NewPhysicalSelection creates a physical selection delivering its child's
// property.
func NewPhysicalSelection(ctx *planctx.Context, conditions []expression.Expression, child PhysicalPlan) *PhysicalSelection {
	sel := &PhysicalSelection{
		basePhysicalPlan: newBasePhysicalPlan(ctx, "Selection", child.DeliveredProperty()),
		Conditions:       conditions,
	}
	sel.SetChildren(child)
	sel.SetSchema(child.Schema())
	return sel
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalSelection) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalSelection) ExplainInfo() string {
	return exprListInfo(p.Conditions)
}

// PhysicalProjection represents a select fields plan.
type PhysicalProjection struct {
	basePhysicalPlan

	Exprs []expression.Expression
}

// NewPhysicalProjection creates a physical projection. Projection keeps the
// child's distribution but destroys any sort order the parent could rely
// on, so the delivered property drops the sort items.
func NewPhysicalProjection(ctx *planctx.Context, exprs []expression.Expression, schema *expression.Schema, child PhysicalPlan) *PhysicalProjection {
	proj := &PhysicalProjection{
		basePhysicalPlan: newBasePhysicalPlan(ctx, "Projection", child.DeliveredProperty().WithoutSort()),
		Exprs:            exprs,
	}
	proj.SetChildren(child)
	proj.SetSchema(schema)
	return proj
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalProjection) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalProjection) ExplainInfo() string {
	return exprListInfo(p.Exprs)
}

// PhysicalSort is the physical operator of sort, which implements a memory sort.
type PhysicalSort struct {
	basePhysicalPlan

	ByItems []*ByItems
}

// NewPhysicalSort creates a physical sort. The delivered property records
// the produced order over the child's distribution.
func NewPhysicalSort(ctx *planctx.Context, byItems []*ByItems, child PhysicalPlan) *PhysicalSort {
	sort := &PhysicalSort{
		basePhysicalPlan: newBasePhysicalPlan(ctx, "Sort", sortDeliveredProperty(byItems, child)),
		ByItems:          byItems,
	}
	sort.SetChildren(child)
	sort.SetSchema(child.Schema())
	return sort
}

func sortDeliveredProperty(byItems []*ByItems, child PhysicalPlan) *property.PhysicalProperty {
	prop := child.DeliveredProperty().WithoutSort()
	for _, by := range byItems {
		col, ok := by.Expr.(*expression.Column)
		if !ok {
			break
		}
		prop.SortItems = append(prop.SortItems, property.SortItem{Col: col, Desc: by.Desc})
	}
	return prop
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalSort) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalSort) ExplainInfo() string {
	items := make([]string, 0, len(p.ByItems))
	for _, by := range p.ByItems {
		if by.Desc {
			items = append(items, by.Expr.String()+" desc")
		} else {
			items = append(items, by.Expr.String())
		}
	}
	return strings.Join(items, ", ")
}

// PhysicalLimit is the physical operator of limit.
type PhysicalLimit struct {
	basePhysicalPlan

	Offset uint64
	Count  uint64
}

// NewPhysicalLimit creates a physical limit delivering its child's property.
func NewPhysicalLimit(ctx *planctx.Context, count, offset uint64, child PhysicalPlan) *PhysicalLimit {
	limit := &PhysicalLimit{
		basePhysicalPlan: newBasePhysicalPlan(ctx, "Limit", child.DeliveredProperty()),
		Count:            count,
		Offset:           offset,
	}
	limit.SetChildren(child)
	limit.SetSchema(child.Schema())
	return limit
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalLimit) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalLimit) ExplainInfo() string {
	return fmt.Sprintf("offset:%v, count:%v", p.Offset, p.Count)
}

// PhysicalHashJoin represents hash join for inner/outer/semi join. The
// build side is always the right child.
type PhysicalHashJoin struct {
	basePhysicalPlan

	JoinType JoinType

	// EqualConditions are the equi conjuncts, left column first.
	EqualConditions []*expression.ScalarFunction
	// LeftKeys and RightKeys are the paired key columns of each side.
	LeftKeys  []*expression.Column
	RightKeys []*expression.Column
	// OtherConditions are evaluated over the concatenated row after probing.
	OtherConditions []expression.Expression

	Concurrency int

	Hints []*JoinHint
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalHashJoin) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalHashJoin) ExplainInfo() string {
	var sb strings.Builder
	sb.WriteString(p.JoinType.String())
	for _, eq := range p.EqualConditions {
		sb.WriteString(", equal:")
		sb.WriteString(eq.String())
	}
	if len(p.OtherConditions) > 0 {
		sb.WriteString(", other:")
		sb.WriteString(exprListInfo(p.OtherConditions))
	}
	return sb.String()
}

// PhysicalNestedLoopJoin evaluates the whole condition per row pair. It is
// the universal strategy: every join type and every condition shape is
// accepted, which keeps conversion total when no other strategy matches.
type PhysicalNestedLoopJoin struct {
	basePhysicalPlan

	JoinType JoinType

	// Conditions is the full CNF condition over the concatenated row.
	Conditions []expression.Expression

	Hints []*JoinHint
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalNestedLoopJoin) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalNestedLoopJoin) ExplainInfo() string {
	if len(p.Conditions) == 0 {
		return p.JoinType.String()
	}
	return p.JoinType.String() + ", cond:" + exprListInfo(p.Conditions)
}

// PhysicalMergeJoin represents merge join for inner/outer join. Both
// children must arrive sorted on the join keys.
type PhysicalMergeJoin struct {
	basePhysicalPlan

	JoinType JoinType

	EqualConditions []*expression.ScalarFunction
	LeftKeys        []*expression.Column
	RightKeys       []*expression.Column
	OtherConditions []expression.Expression

	Hints []*JoinHint
}

// Clone implements PhysicalPlan Clone interface.
func (p *PhysicalMergeJoin) Clone(children ...PhysicalPlan) PhysicalPlan {
	np := *p
	np.basePhysicalPlan = p.cloneBaseWithChildren(children)
	return &np
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *PhysicalMergeJoin) ExplainInfo() string {
	var sb strings.Builder
	sb.WriteString(p.JoinType.String())
	for _, eq := range p.EqualConditions {
		sb.WriteString(", equal:")
		sb.WriteString(eq.String())
	}
	if len(p.OtherConditions) > 0 {
		sb.WriteString(", other:")
		sb.WriteString(exprListInfo(p.OtherConditions))
	}
	return sb.String()
}

func exprListInfo(exprs []expression.Expression) string {
	strs := make([]string, 0, len(exprs))
	for _, e := range exprs {
		strs = append(strs, e.String())
	}
	return strings.Join(strs, ", ")
}
