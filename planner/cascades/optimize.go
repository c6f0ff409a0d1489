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

// Package cascades holds the rule engine that rewrites a logical plan tree
// into a batch physical plan tree. The rules are pure: the logical tree is
// never mutated and an Optimizer carries no per-query state, so one
// Optimizer may serve concurrent queries.
package cascades

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"

	"github.com/ZHANGWENTAI/risingwave/planner/core"
	"github.com/ZHANGWENTAI/risingwave/planner/property"
)

// ErrPhysicalPlanNotFound is returned when no rule chain produces a batch
// physical plan for the query.
var ErrPhysicalPlanNotFound = errors.New("can't find a proper physical plan for this query")

// Optimizer is the struct for cascades optimizer.
type Optimizer struct {
	converterRules map[Operand][]ConverterRule
	disabledRules  *bitset.BitSet
}

// NewOptimizer returns an optimizer instance with default rules. The rule
// order within one operand is the tiebreaker: the first rule whose result
// satisfies the requirement wins.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		converterRules: map[Operand][]ConverterRule{
			OperandDataSource: {NewBatchTableScanRule()},
			OperandSelection:  {NewBatchSelectionRule()},
			OperandProjection: {NewBatchProjectionRule()},
			OperandSort:       {NewBatchSortRule()},
			OperandLimit:      {NewBatchLimitRule()},
			OperandJoin: {
				NewBatchHashJoinRule(),
				NewBatchMergeJoinRule(),
				NewBatchNestedLoopJoinRule(),
			},
		},
		disabledRules: bitset.New(numRules),
	}
}

// DisableRule excludes a rule from matching. Used by tests and by session
// variables that turn a strategy off. Not safe to call concurrently with
// Optimize.
func (opt *Optimizer) DisableRule(id uint) *Optimizer {
	opt.disabledRules.Set(id)
	return opt
}

// ResetRules re-enables every rule.
func (opt *Optimizer) ResetRules() *Optimizer {
	opt.disabledRules.ClearAll()
	return opt
}

// Optimize converts a logical plan into a batch physical plan delivering
// the required property. The logical tree is left untouched.
func (opt *Optimizer) Optimize(p core.LogicalPlan, required *property.PhysicalProperty) (core.PhysicalPlan, error) {
	if required == nil {
		required = property.NewPhysicalProperty(property.ConventionBatchPhysical)
	}
	conv := &Conversion{
		opt:  opt,
		memo: make(map[string]core.PhysicalPlan),
	}
	physical, err := conv.Convert(p, required)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if physical == nil {
		return nil, errors.Trace(ErrPhysicalPlanNotFound)
	}
	return physical, nil
}

// Conversion is the state of converting one query. It memoizes converted
// subtrees per (node, required property) the way an exhaustive search
// would revisit them, and is owned by a single goroutine.
type Conversion struct {
	opt  *Optimizer
	memo map[string]core.PhysicalPlan
}

// Convert rewrites one logical operator, recursing through the rules into
// the children. It returns (nil, nil) when no enabled rule accepts the
// operator, so callers can distinguish an absent plan from a failure.
func (conv *Conversion) Convert(p core.LogicalPlan, required *property.PhysicalProperty) (core.PhysicalPlan, error) {
	required = required.Simplify()
	memoKey := fmt.Sprintf("%d-%x", p.ID(), required.HashCode())
	if physical, ok := conv.memo[memoKey]; ok {
		return physical, nil
	}
	physical, err := conv.convert(p, required)
	if err != nil {
		return nil, errors.Trace(err)
	}
	conv.memo[memoKey] = physical
	return physical, nil
}

func (conv *Conversion) convert(p core.LogicalPlan, required *property.PhysicalProperty) (core.PhysicalPlan, error) {
	failpoint.Inject("convertPanic", func() {
		panic("convert failpoint triggered")
	})
	var candidate core.PhysicalPlan
	for _, rule := range conv.opt.converterRules[GetOperand(p)] {
		if conv.opt.disabledRules.Test(rule.ID()) {
			continue
		}
		if !matchPattern(p, rule.Pattern()) || !rule.Match(p) {
			continue
		}
		physical, err := rule.OnConvert(conv, p, required)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if physical == nil {
			continue
		}
		if physical.DeliveredProperty().Satisfies(required) {
			return physical, nil
		}
		if candidate == nil {
			candidate = physical
		}
	}
	if candidate == nil {
		return nil, nil
	}
	// No rule delivered the property directly; try to enforce it on the
	// first produced plan.
	for _, enforcer := range GetEnforcerRules(candidate.DeliveredProperty(), required) {
		enforced := enforcer.OnEnforce(required, candidate)
		if enforced.DeliveredProperty().Satisfies(required) {
			return enforced, nil
		}
	}
	return nil, nil
}
