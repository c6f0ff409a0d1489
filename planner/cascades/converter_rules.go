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
	"github.com/pingcap/errors"

	"github.com/ZHANGWENTAI/risingwave/planner/core"
	"github.com/ZHANGWENTAI/risingwave/planner/property"
)

// Rule IDs, used by the rule set mask to disable individual rules.
const (
	RuleBatchTableScan uint = iota
	RuleBatchSelection
	RuleBatchProjection
	RuleBatchSort
	RuleBatchLimit
	RuleBatchHashJoin
	RuleBatchMergeJoin
	RuleBatchNestedLoopJoin

	numRules
)

// ConverterRule rewrites one logical operator into a physical one. Match
// and OnConvert must be pure: they may not mutate the logical plan, so one
// rule instance serves concurrent conversions.
type ConverterRule interface {
	// Name returns the rule name for logging.
	Name() string

	// ID returns the stable rule identifier used by the disable mask.
	ID() uint

	// Pattern returns the logical operator shape this rule fires on.
	Pattern() *Pattern

	// Match checks the operator beyond its shape: condition classification,
	// hints, configuration gates.
	Match(p core.LogicalPlan) bool

	// OnConvert produces the physical operator, recursively converting the
	// children through the optimizer. A (nil, nil) return means the rule
	// declines this operator.
	OnConvert(conv *Conversion, p core.LogicalPlan, prop *property.PhysicalProperty) (core.PhysicalPlan, error)
}

type baseRule struct {
	name    string
	id      uint
	pattern *Pattern
}

func (r *baseRule) Name() string { return r.name }

func (r *baseRule) ID() uint { return r.id }

func (r *baseRule) Pattern() *Pattern { return r.pattern }

func (r *baseRule) Match(_ core.LogicalPlan) bool { return true }

// BatchTableScanRule converts a DataSource to a batch table scan.
type BatchTableScanRule struct {
	baseRule
}

// NewBatchTableScanRule creates the rule.
func NewBatchTableScanRule() *BatchTableScanRule {
	return &BatchTableScanRule{baseRule{
		name:    "batch_table_scan",
		id:      RuleBatchTableScan,
		pattern: NewPattern(OperandDataSource),
	}}
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchTableScanRule) OnConvert(_ *Conversion, p core.LogicalPlan, _ *property.PhysicalProperty) (core.PhysicalPlan, error) {
	ds := p.(*core.DataSource)
	return core.NewPhysicalTableScan(ds.Context(), ds), nil
}

// BatchSelectionRule converts a LogicalSelection to a batch filter.
type BatchSelectionRule struct {
	baseRule
}

// NewBatchSelectionRule creates the rule.
func NewBatchSelectionRule() *BatchSelectionRule {
	return &BatchSelectionRule{baseRule{
		name:    "batch_selection",
		id:      RuleBatchSelection,
		pattern: NewPattern(OperandSelection),
	}}
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchSelectionRule) OnConvert(conv *Conversion, p core.LogicalPlan, prop *property.PhysicalProperty) (core.PhysicalPlan, error) {
	sel := p.(*core.LogicalSelection)
	// Selection preserves row order, so the requirement passes through.
	child, err := conv.Convert(sel.Children()[0], prop)
	if err != nil || child == nil {
		return nil, errors.Trace(err)
	}
	return core.NewPhysicalSelection(sel.Context(), sel.Conditions, child), nil
}

// BatchProjectionRule converts a LogicalProjection to a batch projection.
type BatchProjectionRule struct {
	baseRule
}

// NewBatchProjectionRule creates the rule.
func NewBatchProjectionRule() *BatchProjectionRule {
	return &BatchProjectionRule{baseRule{
		name:    "batch_projection",
		id:      RuleBatchProjection,
		pattern: NewPattern(OperandProjection),
	}}
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchProjectionRule) OnConvert(conv *Conversion, p core.LogicalPlan, prop *property.PhysicalProperty) (core.PhysicalPlan, error) {
	proj := p.(*core.LogicalProjection)
	// Projection renumbers columns, so a parent order requirement cannot be
	// pushed below it.
	child, err := conv.Convert(proj.Children()[0], prop.WithoutSort())
	if err != nil || child == nil {
		return nil, errors.Trace(err)
	}
	return core.NewPhysicalProjection(proj.Context(), proj.Exprs, proj.Schema(), child), nil
}

// BatchSortRule converts a LogicalSort to a batch in-memory sort.
type BatchSortRule struct {
	baseRule
}

// NewBatchSortRule creates the rule.
func NewBatchSortRule() *BatchSortRule {
	return &BatchSortRule{baseRule{
		name:    "batch_sort",
		id:      RuleBatchSort,
		pattern: NewPattern(OperandSort),
	}}
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchSortRule) OnConvert(conv *Conversion, p core.LogicalPlan, prop *property.PhysicalProperty) (core.PhysicalPlan, error) {
	sort := p.(*core.LogicalSort)
	child, err := conv.Convert(sort.Children()[0], prop.WithoutSort())
	if err != nil || child == nil {
		return nil, errors.Trace(err)
	}
	return core.NewPhysicalSort(sort.Context(), sort.ByItems, child), nil
}

// BatchLimitRule converts a LogicalLimit to a batch limit.
type BatchLimitRule struct {
	baseRule
}

// NewBatchLimitRule creates the rule.
func NewBatchLimitRule() *BatchLimitRule {
	return &BatchLimitRule{baseRule{
		name:    "batch_limit",
		id:      RuleBatchLimit,
		pattern: NewPattern(OperandLimit),
	}}
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchLimitRule) OnConvert(conv *Conversion, p core.LogicalPlan, prop *property.PhysicalProperty) (core.PhysicalPlan, error) {
	limit := p.(*core.LogicalLimit)
	child, err := conv.Convert(limit.Children()[0], prop)
	if err != nil || child == nil {
		return nil, errors.Trace(err)
	}
	return core.NewPhysicalLimit(limit.Context(), limit.Count, limit.Offset, child), nil
}

// BatchHashJoinRule converts an equi join to a batch hash join. A merge
// join hint without a hash join hint sends the join to the merge rule
// instead.
type BatchHashJoinRule struct {
	baseRule
}

// NewBatchHashJoinRule creates the rule.
func NewBatchHashJoinRule() *BatchHashJoinRule {
	return &BatchHashJoinRule{baseRule{
		name:    "batch_hash_join",
		id:      RuleBatchHashJoin,
		pattern: NewPattern(OperandJoin),
	}}
}

// Match implements ConverterRule Match interface.
func (r *BatchHashJoinRule) Match(p core.LogicalPlan) bool {
	join := p.(*core.LogicalJoin)
	// A merge join hint diverts the join to the merge rule, but only when
	// the merge rule can actually take it.
	if join.PreferMergeJoin() && !join.PreferHashJoin() && join.CanUseMergeJoin() {
		return false
	}
	return join.CanUseHashJoin()
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchHashJoinRule) OnConvert(conv *Conversion, p core.LogicalPlan, _ *property.PhysicalProperty) (core.PhysicalPlan, error) {
	join := p.(*core.LogicalJoin)
	childProp := property.NewPhysicalProperty(property.ConventionBatchPhysical)
	left, err := conv.Convert(join.Children()[0], childProp)
	if err != nil || left == nil {
		return nil, errors.Trace(err)
	}
	right, err := conv.Convert(join.Children()[1], childProp)
	if err != nil || right == nil {
		return nil, errors.Trace(err)
	}
	return join.GetHashJoin(join.AnalyzeCondition(), left, right), nil
}

// BatchMergeJoinRule converts an equi join to a batch sort-merge join,
// requiring each child sorted on its key columns.
type BatchMergeJoinRule struct {
	baseRule
}

// NewBatchMergeJoinRule creates the rule.
func NewBatchMergeJoinRule() *BatchMergeJoinRule {
	return &BatchMergeJoinRule{baseRule{
		name:    "batch_merge_join",
		id:      RuleBatchMergeJoin,
		pattern: NewPattern(OperandJoin),
	}}
}

// Match implements ConverterRule Match interface.
func (r *BatchMergeJoinRule) Match(p core.LogicalPlan) bool {
	return p.(*core.LogicalJoin).CanUseMergeJoin()
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchMergeJoinRule) OnConvert(conv *Conversion, p core.LogicalPlan, _ *property.PhysicalProperty) (core.PhysicalPlan, error) {
	join := p.(*core.LogicalJoin)
	info := join.AnalyzeCondition()
	leftProp, rightProp := join.ChildSortProperties(info)
	left, err := conv.Convert(join.Children()[0], leftProp)
	if err != nil || left == nil {
		return nil, errors.Trace(err)
	}
	right, err := conv.Convert(join.Children()[1], rightProp)
	if err != nil || right == nil {
		return nil, errors.Trace(err)
	}
	return join.GetMergeJoin(info, left, right), nil
}

// BatchNestedLoopJoinRule converts a join to the batch nested loop join.
// It fires on non-equi predicates and on the nested loop hint; equi joins
// belong to the hash and merge rules. Together the join rules cover every
// join type and condition shape, and hash and nested loop are mutually
// exclusive over the predicate shape.
type BatchNestedLoopJoinRule struct {
	baseRule
}

// NewBatchNestedLoopJoinRule creates the rule.
func NewBatchNestedLoopJoinRule() *BatchNestedLoopJoinRule {
	return &BatchNestedLoopJoinRule{baseRule{
		name:    "batch_nested_loop_join",
		id:      RuleBatchNestedLoopJoin,
		pattern: NewPattern(OperandJoin),
	}}
}

// Match implements ConverterRule Match interface.
func (r *BatchNestedLoopJoinRule) Match(p core.LogicalPlan) bool {
	join := p.(*core.LogicalJoin)
	if len(join.Conditions) == 0 && join.JoinType == core.InnerJoin &&
		!join.Context().GetConfig().Planner.CrossJoin {
		return false
	}
	if join.PreferNestLoopJoin() {
		return true
	}
	return !join.AnalyzeCondition().IsEquiJoin()
}

// OnConvert implements ConverterRule OnConvert interface.
func (r *BatchNestedLoopJoinRule) OnConvert(conv *Conversion, p core.LogicalPlan, _ *property.PhysicalProperty) (core.PhysicalPlan, error) {
	join := p.(*core.LogicalJoin)
	childProp := property.NewPhysicalProperty(property.ConventionBatchPhysical)
	left, err := conv.Convert(join.Children()[0], childProp)
	if err != nil || left == nil {
		return nil, errors.Trace(err)
	}
	right, err := conv.Convert(join.Children()[1], childProp)
	if err != nil || right == nil {
		return nil, errors.Trace(err)
	}
	return join.GetNestedLoopJoin(left, right), nil
}
