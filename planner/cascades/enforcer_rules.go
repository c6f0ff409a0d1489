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
	"github.com/ZHANGWENTAI/risingwave/planner/property"
)

// Enforcer repairs one missing physical property by stacking an operator
// on top of an already converted plan.
type Enforcer interface {
	// CanEnforce reports whether this enforcer closes the gap between the
	// delivered property and the required one.
	CanEnforce(delivered, required *property.PhysicalProperty) bool

	// OnEnforce stacks the enforcing operator.
	OnEnforce(required *property.PhysicalProperty, child core.PhysicalPlan) core.PhysicalPlan
}

// OrderEnforcer enforces a sort requirement with an in-memory sort.
type OrderEnforcer struct {
}

// CanEnforce implements Enforcer CanEnforce interface. A sort fixes the
// row order only; convention and distribution gaps are out of its reach.
func (e *OrderEnforcer) CanEnforce(delivered, required *property.PhysicalProperty) bool {
	if required.IsSortItemEmpty() {
		return false
	}
	return delivered.Satisfies(required.WithoutSort())
}

// OnEnforce implements Enforcer OnEnforce interface.
func (e *OrderEnforcer) OnEnforce(required *property.PhysicalProperty, child core.PhysicalPlan) core.PhysicalPlan {
	byItems := make([]*core.ByItems, 0, len(required.SortItems))
	for _, item := range required.SortItems {
		byItems = append(byItems, &core.ByItems{Expr: item.Col, Desc: item.Desc})
	}
	return core.NewPhysicalSort(child.Context(), byItems, child)
}

// GetEnforcerRules gets the enforcers that can fix the property gap.
func GetEnforcerRules(delivered, required *property.PhysicalProperty) (enforcers []Enforcer) {
	if orderEnforcer.CanEnforce(delivered, required) {
		enforcers = append(enforcers, orderEnforcer)
	}
	return enforcers
}

var orderEnforcer = &OrderEnforcer{}
