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

// Hint names the planner recognizes on a join. Anything else is carried
// through to the physical plan untouched.
const (
	// HintHashJoin forces a hash join even when the heuristic would not pick it.
	HintHashJoin = "hash_join"
	// HintSortMergeJoin forces a sort-merge join for an equi join.
	HintSortMergeJoin = "merge_join"
	// HintNestLoopJoin forces a nested loop join even for an equi predicate.
	HintNestLoopJoin = "nl_join"
)

const (
	preferHashJoin uint = 1 << iota
	preferMergeJoin
	preferNestLoopJoin
)

// JoinHint is one planner hint attached to a join. Hints are ordered and
// opaque: conversion never drops, reorders or rewrites them.
type JoinHint struct {
	Name string
	Args []string
}

// Clone copies the hint.
func (h *JoinHint) Clone() *JoinHint {
	nh := &JoinHint{Name: h.Name, Args: make([]string, len(h.Args))}
	copy(nh.Args, h.Args)
	return nh
}

// cloneHints copies a hint list keeping its order.
func cloneHints(hints []*JoinHint) []*JoinHint {
	if hints == nil {
		return nil
	}
	nhs := make([]*JoinHint, 0, len(hints))
	for _, h := range hints {
		nhs = append(nhs, h.Clone())
	}
	return nhs
}

// parseJoinHints derives the preferred join strategies from the recognized
// hint names. Unrecognized hints contribute nothing and are never rejected.
func parseJoinHints(hints []*JoinHint) (prefer uint) {
	for _, h := range hints {
		switch h.Name {
		case HintHashJoin:
			prefer |= preferHashJoin
		case HintSortMergeJoin:
			prefer |= preferMergeJoin
		case HintNestLoopJoin:
			prefer |= preferNestLoopJoin
		}
	}
	return
}
