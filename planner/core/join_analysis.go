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
)

// JoinKey is one equi-key pair. Offsets are relative to each side's own
// output row.
type JoinKey struct {
	LeftIdx  int
	RightIdx int
}

// JoinInfo is the classification of a join condition. It is derived on
// demand and never stored on the plan node.
type JoinInfo struct {
	// Keys are the normalized equi-key pairs, in condition order.
	Keys []JoinKey
	// EqualConditions are the conjuncts behind Keys, normalized so the
	// left column is the first argument.
	EqualConditions []*expression.ScalarFunction
	// OtherConditions are the residual conjuncts, ANDed back together by
	// consumers that need a single expression.
	OtherConditions []expression.Expression
}

// IsEquiJoin reports whether at least one equi-key pair exists. An empty
// key list means non-equi regardless of the residual conditions.
func (info *JoinInfo) IsEquiJoin() bool {
	return len(info.Keys) > 0
}

// AnalyzeCondition classifies the join condition against the children's
// schemas. It never mutates the join and is deterministic, so concurrent
// rules may call it on the same node.
func (p *LogicalJoin) AnalyzeCondition() *JoinInfo {
	return ExtractJoinInfo(p.Conditions, p.Children()[0].Schema(), p.Children()[1].Schema())
}

// ExtractJoinInfo divides the CNF conjuncts of a join condition into
// equi-key conditions and residual conditions. A conjunct becomes an
// equi-key only when it is an equality between a pure left-side column and
// a pure right-side column, in either order; the pair is normalized to
// left/right. Every other conjunct, including malformed ones referencing
// neither side, lands in the residual list so the plan degrades to a
// nested loop instead of failing.
func ExtractJoinInfo(conditions []expression.Expression, leftSchema, rightSchema *expression.Schema) *JoinInfo {
	info := &JoinInfo{}
	for _, cond := range conditions {
		for _, item := range expression.SplitCNFItems(cond) {
			arg0, arg1, ok := expression.IsEqCondition(item)
			if !ok {
				info.OtherConditions = append(info.OtherConditions, item)
				continue
			}
			leftCol := leftSchema.RetrieveColumn(arg0)
			rightCol := rightSchema.RetrieveColumn(arg1)
			if leftCol == nil || rightCol == nil {
				leftCol = leftSchema.RetrieveColumn(arg1)
				rightCol = rightSchema.RetrieveColumn(arg0)
				arg0, arg1 = arg1, arg0
			}
			if leftCol == nil || rightCol == nil {
				info.OtherConditions = append(info.OtherConditions, item)
				continue
			}
			info.Keys = append(info.Keys, JoinKey{
				LeftIdx:  leftSchema.ColumnIndex(leftCol),
				RightIdx: rightSchema.ColumnIndex(rightCol),
			})
			info.EqualConditions = append(info.EqualConditions, expression.NewFunction(expression.EQ, arg0, arg1))
		}
	}
	return info
}
