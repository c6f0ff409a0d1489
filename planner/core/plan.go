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

	"github.com/ZHANGWENTAI/risingwave/expression"
	"github.com/ZHANGWENTAI/risingwave/planner/planctx"
	"github.com/ZHANGWENTAI/risingwave/planner/property"
	"github.com/ZHANGWENTAI/risingwave/planpb"
)

// Plan is the description of an execution flow.
// It is created by the SQL front end first, then converted by the rule
// engine into a physical plan the batch executor can consume.
type Plan interface {
	// Schema gets the output schema.
	Schema() *expression.Schema

	// ID gets the ID within one query.
	ID() int

	// TP gets the plan type.
	TP() string

	// ExplainID gets the ID in explain statement.
	ExplainID() string

	// Context gets the planning context.
	Context() *planctx.Context
}

// LogicalPlan is a tree of logical operators carrying relational semantics
// only; no node designates an execution strategy.
type LogicalPlan interface {
	Plan

	// Children gets all the children.
	Children() []LogicalPlan

	// SetChildren sets the children for the plan.
	SetChildren(...LogicalPlan)
}

// PhysicalPlan is a tree of physical operators. Every node designates a
// concrete batch execution algorithm and records the physical property it
// delivers.
type PhysicalPlan interface {
	Plan

	// Children gets all the children.
	Children() []PhysicalPlan

	// SetChildren sets the children for the plan.
	SetChildren(...PhysicalPlan)

	// DeliveredProperty returns the physical property this operator
	// provides to its parent.
	DeliveredProperty() *property.PhysicalProperty

	// Clone returns a copy of this operator with the given children
	// attached. Join type, conditions and hints are preserved identically.
	Clone(children ...PhysicalPlan) PhysicalPlan

	// ToPB converts the physical plan to its wire message.
	ToPB(ctx *planctx.Context) (*planpb.PlanNode, error)

	// ExplainInfo returns operator information to be explained.
	ExplainInfo() string
}

type basePlan struct {
	tp     string
	id     int
	ctx    *planctx.Context
	schema *expression.Schema
}

func newBasePlan(ctx *planctx.Context, tp string) basePlan {
	return basePlan{
		tp:  tp,
		id:  ctx.AllocPlanID(),
		ctx: ctx,
	}
}

// Schema implements Plan Schema interface.
func (p *basePlan) Schema() *expression.Schema {
	return p.schema
}

// SetSchema sets the schema.
func (p *basePlan) SetSchema(schema *expression.Schema) {
	p.schema = schema
}

// ID implements Plan ID interface.
func (p *basePlan) ID() int {
	return p.id
}

// TP implements Plan TP interface.
func (p *basePlan) TP() string {
	return p.tp
}

// ExplainID implements Plan ExplainID interface.
func (p *basePlan) ExplainID() string {
	return fmt.Sprintf("%s_%d", p.tp, p.id)
}

// Context implements Plan Context interface.
func (p *basePlan) Context() *planctx.Context {
	return p.ctx
}

type baseLogicalPlan struct {
	basePlan

	children []LogicalPlan
}

func newBaseLogicalPlan(ctx *planctx.Context, tp string) baseLogicalPlan {
	return baseLogicalPlan{basePlan: newBasePlan(ctx, tp)}
}

// Children implements LogicalPlan Children interface.
func (p *baseLogicalPlan) Children() []LogicalPlan {
	return p.children
}

// SetChildren implements LogicalPlan SetChildren interface.
func (p *baseLogicalPlan) SetChildren(children ...LogicalPlan) {
	p.children = children
}

type basePhysicalPlan struct {
	basePlan

	children  []PhysicalPlan
	delivered *property.PhysicalProperty
}

func newBasePhysicalPlan(ctx *planctx.Context, tp string, delivered *property.PhysicalProperty) basePhysicalPlan {
	return basePhysicalPlan{
		basePlan:  newBasePlan(ctx, tp),
		delivered: delivered,
	}
}

// Children implements PhysicalPlan Children interface.
func (p *basePhysicalPlan) Children() []PhysicalPlan {
	return p.children
}

// SetChildren implements PhysicalPlan SetChildren interface.
func (p *basePhysicalPlan) SetChildren(children ...PhysicalPlan) {
	p.children = children
}

// DeliveredProperty implements PhysicalPlan DeliveredProperty interface.
func (p *basePhysicalPlan) DeliveredProperty() *property.PhysicalProperty {
	if p.delivered == nil {
		return property.NewPhysicalProperty(property.ConventionBatchPhysical)
	}
	return p.delivered
}

// ExplainInfo implements PhysicalPlan ExplainInfo interface.
func (p *basePhysicalPlan) ExplainInfo() string {
	return ""
}

func (p *basePhysicalPlan) cloneBaseWithChildren(children []PhysicalPlan) basePhysicalPlan {
	np := *p
	np.children = make([]PhysicalPlan, len(children))
	copy(np.children, children)
	return np
}
