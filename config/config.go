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

package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// Config contains configuration options of the batch planner.
type Config struct {
	Planner Planner `toml:"planner" json:"planner"`
}

// Planner is the planner section of the config.
type Planner struct {
	// JoinConcurrency is the degree of parallelism handed to hash join
	// executors through the physical plan.
	JoinConcurrency int `toml:"join-concurrency" json:"join-concurrency"`
	// CrossJoin permits nested loop plans with no join condition at all.
	CrossJoin bool `toml:"cross-join" json:"cross-join"`
	// EnableMergeJoin allows sort-merge join plans for equi joins.
	EnableMergeJoin bool `toml:"enable-merge-join" json:"enable-merge-join"`
}

var defaultConf = Config{
	Planner: Planner{
		JoinConcurrency: 4,
		CrossJoin:       true,
		EnableMergeJoin: true,
	},
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	_, err := toml.DecodeFile(confFile, c)
	return errors.Trace(err)
}
