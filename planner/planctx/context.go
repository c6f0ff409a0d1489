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

// Package planctx carries the per-query state the planner needs: plan ID
// allocation and configuration. One Context serves one query; it is not
// shared between concurrently planned queries.
package planctx

import (
	"github.com/ZHANGWENTAI/risingwave/config"
)

// Context is the planning context of a single query.
type Context struct {
	cfg      *config.Config
	planID   int
	columnID int64
}

// NewContext creates a planning context. A nil config falls back to the
// defaults.
func NewContext(cfg *config.Config) *Context {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Context{cfg: cfg}
}

// GetConfig returns the planner configuration.
func (ctx *Context) GetConfig() *config.Config {
	return ctx.cfg
}

// AllocPlanID allocates the next plan node ID within this query.
func (ctx *Context) AllocPlanID() int {
	ctx.planID++
	return ctx.planID
}

// AllocColumnID allocates the next unique column ID within this query.
// Every operator that introduces columns draws from this counter, so no
// two columns of one query share an ID even when their row offsets
// collide.
func (ctx *Context) AllocColumnID() int64 {
	ctx.columnID++
	return ctx.columnID
}
