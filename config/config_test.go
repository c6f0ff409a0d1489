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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, 4, conf.Planner.JoinConcurrency)
	require.True(t, conf.Planner.CrossJoin)
	require.True(t, conf.Planner.EnableMergeJoin)
}

func TestConfigLoad(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "config.toml")
	content := `
[planner]
join-concurrency = 8
cross-join = false
enable-merge-join = false
`
	require.NoError(t, os.WriteFile(confFile, []byte(content), 0o644))

	conf := NewConfig()
	require.NoError(t, conf.Load(confFile))
	require.Equal(t, 8, conf.Planner.JoinConcurrency)
	require.False(t, conf.Planner.CrossJoin)
	require.False(t, conf.Planner.EnableMergeJoin)
}

func TestConfigLoadPartial(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "config.toml")
	content := `
[planner]
join-concurrency = 2
`
	require.NoError(t, os.WriteFile(confFile, []byte(content), 0o644))

	// Unset keys keep their defaults.
	conf := NewConfig()
	require.NoError(t, conf.Load(confFile))
	require.Equal(t, 2, conf.Planner.JoinConcurrency)
	require.True(t, conf.Planner.CrossJoin)
	require.True(t, conf.Planner.EnableMergeJoin)
}

func TestConfigLoadMissingFile(t *testing.T) {
	conf := NewConfig()
	require.Error(t, conf.Load(filepath.Join(t.TempDir(), "no-such-file.toml")))
}
