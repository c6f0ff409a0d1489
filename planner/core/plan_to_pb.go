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
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/ZHANGWENTAI/risingwave/expression"
	"github.com/ZHANGWENTAI/risingwave/planner/planctx"
	"github.com/ZHANGWENTAI/risingwave/planpb"
)

var joinTypeToPB = map[JoinType]planpb.JoinType{
	InnerJoin:      planpb.JoinTypeInner,
	LeftOuterJoin:  planpb.JoinTypeLeftOuter,
	RightOuterJoin: planpb.JoinTypeRightOuter,
	FullOuterJoin:  planpb.JoinTypeFullOuter,
	SemiJoin:       planpb.JoinTypeSemi,
	AntiSemiJoin:   planpb.JoinTypeAnti,
}

// ToPB implements PhysicalPlan ToPB interface. An operator that reaches
// this default has no wire representation yet.
func (p *basePhysicalPlan) ToPB(_ *planctx.Context) (*planpb.PlanNode, error) {
	return nil, errors.Errorf("plan %s has no wire representation", p.tp)
}

// ToPB implements PhysicalPlan ToPB interface.
func (p *PhysicalTableScan) ToPB(_ *planctx.Context) (*planpb.PlanNode, error) {
	columnIDs := make([]int32, 0, p.Schema().Len())
	for _, col := range p.Schema().Columns {
		columnIDs = append(columnIDs, int32(col.Index))
	}
	return planpb.NewPlanNode(&planpb.TableScanNode{
		TableID:   p.TableID,
		ColumnIDs: columnIDs,
	})
}

// ToPB implements PhysicalPlan ToPB interface.
func (p *PhysicalSelection) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	cond := expression.ExpressionsToPB(p.Conditions)
	if cond == nil && len(p.Conditions) > 0 {
		return nil, errors.Errorf("selection %s has a condition with no wire form", p.ExplainID())
	}
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.SelectionNode{Condition: cond}, children...)
}

// ToPB implements PhysicalPlan ToPB interface.
func (p *PhysicalProjection) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	exprs := expression.ExpressionsToPBList(p.Exprs)
	for i, e := range exprs {
		if e == nil {
			return nil, errors.Errorf("projection %s expression %d has no wire form", p.ExplainID(), i)
		}
	}
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.ProjectionNode{Exprs: exprs}, children...)
}

// ToPB implements PhysicalPlan ToPB interface.
func (p *PhysicalSort) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	orderBy := make([]*planpb.ByItem, 0, len(p.ByItems))
	for _, by := range p.ByItems {
		item := expression.SortByItemToPB(by.Expr, by.Desc)
		if item == nil {
			return nil, errors.Errorf("sort %s has an order item with no wire form", p.ExplainID())
		}
		orderBy = append(orderBy, item)
	}
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.SortNode{OrderBy: orderBy}, children...)
}

// ToPB implements PhysicalPlan ToPB interface.
func (p *PhysicalLimit) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.LimitNode{Limit: p.Count, Offset: p.Offset}, children...)
}

// ToPB implements PhysicalPlan ToPB interface. The first child message is
// the probe (left) side.
func (p *PhysicalHashJoin) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	otherCond := expression.ExpressionsToPB(p.OtherConditions)
	if otherCond == nil && len(p.OtherConditions) > 0 {
		return nil, errors.Errorf("hash join %s has a residual condition with no wire form", p.ExplainID())
	}
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.HashJoinNode{
		JoinType:  joinTypeToPB[p.JoinType],
		LeftKeys:  keyOffsets(p.Children()[0].Schema(), p.LeftKeys),
		RightKeys: keyOffsets(p.Children()[1].Schema(), p.RightKeys),
		OtherCond: otherCond,
	}, children...)
}

// ToPB implements PhysicalPlan ToPB interface. The join condition in the
// message references the concatenated left+right row.
func (p *PhysicalNestedLoopJoin) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	joinCond := expression.ExpressionsToPB(p.Conditions)
	if joinCond == nil && len(p.Conditions) > 0 {
		return nil, errors.Errorf("nested loop join %s has a condition with no wire form", p.ExplainID())
	}
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.NestedLoopJoinNode{
		JoinType: joinTypeToPB[p.JoinType],
		JoinCond: joinCond,
	}, children...)
}

// ToPB implements PhysicalPlan ToPB interface.
func (p *PhysicalMergeJoin) ToPB(ctx *planctx.Context) (*planpb.PlanNode, error) {
	otherCond := expression.ExpressionsToPB(p.OtherConditions)
	if otherCond == nil && len(p.OtherConditions) > 0 {
		return nil, errors.Errorf("merge join %s has a residual condition with no wire form", p.ExplainID())
	}
	children, err := childrenToPB(ctx, p.Children())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanNode(&planpb.SortMergeJoinNode{
		JoinType:  joinTypeToPB[p.JoinType],
		LeftKeys:  keyOffsets(p.Children()[0].Schema(), p.LeftKeys),
		RightKeys: keyOffsets(p.Children()[1].Schema(), p.RightKeys),
		OtherCond: otherCond,
	}, children...)
}

func childrenToPB(ctx *planctx.Context, children []PhysicalPlan) ([]*planpb.PlanNode, error) {
	nodes := make([]*planpb.PlanNode, 0, len(children))
	for _, child := range children {
		node, err := child.ToPB(ctx)
		if err != nil {
			return nil, errors.Trace(err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func keyOffsets(schema *expression.Schema, keys []*expression.Column) []int32 {
	offsets := make([]int32, 0, len(keys))
	for _, key := range keys {
		offsets = append(offsets, int32(schema.ColumnIndex(key)))
	}
	return offsets
}

// ToPlanFragment serializes a physical plan tree into the executor handoff
// envelope.
func ToPlanFragment(ctx *planctx.Context, p PhysicalPlan) (*planpb.PlanFragment, error) {
	root, err := p.ToPB(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return planpb.NewPlanFragment(root), nil
}

// Serialize encodes a physical plan for transport. A conversion gap at
// this point means the rule engine emitted an operator the wire schema
// cannot carry, which is a planner bug, so it is fatal.
func Serialize(ctx *planctx.Context, p PhysicalPlan) []byte {
	fragment, err := ToPlanFragment(ctx, p)
	if err != nil {
		log.Fatal("physical plan cannot be serialized", zap.Error(err))
	}
	data, err := fragment.Marshal()
	if err != nil {
		log.Fatal("plan fragment cannot be encoded", zap.Error(err))
	}
	return data
}
