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
	"github.com/ZHANGWENTAI/risingwave/planner/property"
)

// PreferHashJoin reports whether a hash join hint is attached.
func (p *LogicalJoin) PreferHashJoin() bool {
	return p.preferredJoinType()&preferHashJoin > 0
}

// PreferMergeJoin reports whether a sort-merge join hint is attached.
func (p *LogicalJoin) PreferMergeJoin() bool {
	return p.preferredJoinType()&preferMergeJoin > 0
}

// PreferNestLoopJoin reports whether a nested loop join hint is attached.
func (p *LogicalJoin) PreferNestLoopJoin() bool {
	return p.preferredJoinType()&preferNestLoopJoin > 0
}

// CanUseHashJoin reports whether the join qualifies for the hash strategy.
// A hash join needs at least one equi-key pair to build on; a hash join
// hint cannot conjure keys out of a non-equi predicate, it only settles
// ties between strategies that can run.
func (p *LogicalJoin) CanUseHashJoin() bool {
	if p.preferredJoinType()&preferNestLoopJoin > 0 {
		return false
	}
	return p.AnalyzeCondition().IsEquiJoin()
}

// CanUseMergeJoin reports whether the join qualifies for the sort-merge
// strategy. Merge join needs equi keys and is gated behind configuration
// unless hinted.
func (p *LogicalJoin) CanUseMergeJoin() bool {
	if p.preferredJoinType()&preferNestLoopJoin > 0 {
		return false
	}
	if !p.AnalyzeCondition().IsEquiJoin() {
		return false
	}
	switch p.JoinType {
	case SemiJoin, AntiSemiJoin:
		return false
	}
	if p.preferredJoinType()&preferMergeJoin > 0 {
		return true
	}
	return p.Context().GetConfig().Planner.EnableMergeJoin
}

// GetHashJoin builds the physical hash join over already converted
// children. The key columns come from the children's own schemas, so their
// offsets are side relative.
func (p *LogicalJoin) GetHashJoin(info *JoinInfo, left, right PhysicalPlan) *PhysicalHashJoin {
	delivered := left.DeliveredProperty().WithoutSort()
	join := &PhysicalHashJoin{
		basePhysicalPlan: newBasePhysicalPlan(p.Context(), "HashJoin", delivered),
		JoinType:         p.JoinType,
		EqualConditions:  info.EqualConditions,
		LeftKeys:         keysFromSchema(left.Schema(), leftIndexes(info.Keys)),
		RightKeys:        keysFromSchema(right.Schema(), rightIndexes(info.Keys)),
		OtherConditions:  info.OtherConditions,
		Concurrency:      p.Context().GetConfig().Planner.JoinConcurrency,
		Hints:            cloneHints(p.Hints),
	}
	join.SetChildren(left, right)
	join.SetSchema(buildJoinSchema(p.JoinType, left.Schema(), right.Schema()))
	return join
}

// GetNestedLoopJoin builds the universal fallback strategy. It accepts any
// join type and any condition shape.
func (p *LogicalJoin) GetNestedLoopJoin(left, right PhysicalPlan) *PhysicalNestedLoopJoin {
	delivered := left.DeliveredProperty().WithoutSort()
	join := &PhysicalNestedLoopJoin{
		basePhysicalPlan: newBasePhysicalPlan(p.Context(), "NestedLoopJoin", delivered),
		JoinType:         p.JoinType,
		Conditions:       p.Conditions,
		Hints:            cloneHints(p.Hints),
	}
	join.SetChildren(left, right)
	join.SetSchema(buildJoinSchema(p.JoinType, left.Schema(), right.Schema()))
	return join
}

// GetMergeJoin builds the sort-merge join over children already sorted on
// the join keys. The delivered property keeps the left key order, which is
// what lets a parent sort requirement collapse.
func (p *LogicalJoin) GetMergeJoin(info *JoinInfo, left, right PhysicalPlan) *PhysicalMergeJoin {
	leftKeys := keysFromSchema(left.Schema(), leftIndexes(info.Keys))
	delivered := left.DeliveredProperty().WithoutSort()
	delivered.SortItems = property.SortItemsFromCols(leftKeys)
	join := &PhysicalMergeJoin{
		basePhysicalPlan: newBasePhysicalPlan(p.Context(), "MergeJoin", delivered),
		JoinType:         p.JoinType,
		EqualConditions:  info.EqualConditions,
		LeftKeys:         leftKeys,
		RightKeys:        keysFromSchema(right.Schema(), rightIndexes(info.Keys)),
		OtherConditions:  info.OtherConditions,
		Hints:            cloneHints(p.Hints),
	}
	join.SetChildren(left, right)
	join.SetSchema(buildJoinSchema(p.JoinType, left.Schema(), right.Schema()))
	return join
}

// ChildSortProperties returns the per-child order requirements of a merge
// join so the rule can push them down during conversion.
func (p *LogicalJoin) ChildSortProperties(info *JoinInfo) (left, right *property.PhysicalProperty) {
	lSchema := p.Children()[0].Schema()
	rSchema := p.Children()[1].Schema()
	left = property.NewPhysicalProperty(property.ConventionBatchPhysical)
	left.SortItems = property.SortItemsFromCols(keysFromSchema(lSchema, leftIndexes(info.Keys)))
	right = property.NewPhysicalProperty(property.ConventionBatchPhysical)
	right.SortItems = property.SortItemsFromCols(keysFromSchema(rSchema, rightIndexes(info.Keys)))
	return left, right
}

func leftIndexes(keys []JoinKey) []int {
	idxs := make([]int, 0, len(keys))
	for _, k := range keys {
		idxs = append(idxs, k.LeftIdx)
	}
	return idxs
}

func rightIndexes(keys []JoinKey) []int {
	idxs := make([]int, 0, len(keys))
	for _, k := range keys {
		idxs = append(idxs, k.RightIdx)
	}
	return idxs
}

func keysFromSchema(schema *expression.Schema, idxs []int) []*expression.Column {
	cols := make([]*expression.Column, 0, len(idxs))
	for _, i := range idxs {
		cols = append(cols, schema.Columns[i])
	}
	return cols
}
