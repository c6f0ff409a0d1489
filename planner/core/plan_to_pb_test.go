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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ZHANGWENTAI/risingwave/expression"
	"github.com/ZHANGWENTAI/risingwave/planpb"
)

func TestTableScanToPB(t *testing.T) {
	ctx := newTestContext()
	left, _ := testJoinInput(ctx)
	scan := NewPhysicalTableScan(ctx, left)

	node, err := scan.ToPB(ctx)
	require.NoError(t, err)
	require.Equal(t, planpb.NodeTypeTableScan, node.NodeType)

	body, err := node.DecodeBody()
	require.NoError(t, err)
	require.Equal(t, int64(1), body.(*planpb.TableScanNode).TableID)
	require.Equal(t, []int32{0, 1}, body.(*planpb.TableScanNode).ColumnIDs)
}

func TestHashJoinToPB(t *testing.T) {
	ctx := newTestContext()
	left, right := testJoinInput(ctx)
	conds := []expression.Expression{
		expression.NewFunction(expression.EQ, col(1), col(3)),
		expression.NewFunction(expression.GT, col(0), col(2)),
	}
	join := NewLogicalJoin(ctx, RightOuterJoin, conds, nil, left, right)
	hashJoin := join.GetHashJoin(join.AnalyzeCondition(),
		NewPhysicalTableScan(ctx, left), NewPhysicalTableScan(ctx, right))

	node, err := hashJoin.ToPB(ctx)
	require.NoError(t, err)
	require.Equal(t, planpb.NodeTypeHashJoin, node.NodeType)
	require.Len(t, node.Children, 2)

	// Probe side first, build side second.
	leftBody, err := node.Children[0].DecodeBody()
	require.NoError(t, err)
	require.Equal(t, int64(1), leftBody.(*planpb.TableScanNode).TableID)
	rightBody, err := node.Children[1].DecodeBody()
	require.NoError(t, err)
	require.Equal(t, int64(2), rightBody.(*planpb.TableScanNode).TableID)

	body, err := node.DecodeBody()
	require.NoError(t, err)
	joinBody := body.(*planpb.HashJoinNode)
	require.Equal(t, planpb.JoinTypeRightOuter, joinBody.JoinType)
	require.Equal(t, []int32{1}, joinBody.LeftKeys)
	require.Equal(t, []int32{1}, joinBody.RightKeys)
	require.NotNil(t, joinBody.OtherCond)
	require.Equal(t, planpb.ExprTypeGT, joinBody.OtherCond.Tp)
}

func TestNestedLoopJoinToPB(t *testing.T) {
	ctx := newTestContext()
	left, right := testJoinInput(ctx)
	conds := []expression.Expression{
		expression.NewFunction(expression.LT, col(0), col(2)),
		expression.NewFunction(expression.NE, col(1), col(3)),
	}
	join := NewLogicalJoin(ctx, FullOuterJoin, conds, nil, left, right)
	nlJoin := join.GetNestedLoopJoin(
		NewPhysicalTableScan(ctx, left), NewPhysicalTableScan(ctx, right))

	node, err := nlJoin.ToPB(ctx)
	require.NoError(t, err)
	require.Equal(t, planpb.NodeTypeNestedLoopJoin, node.NodeType)
	require.Len(t, node.Children, 2)

	body, err := node.DecodeBody()
	require.NoError(t, err)
	joinBody := body.(*planpb.NestedLoopJoinNode)
	require.Equal(t, planpb.JoinTypeFullOuter, joinBody.JoinType)
	require.NotNil(t, joinBody.JoinCond)
	// Two conjuncts merged into one AND over the concatenated row.
	require.Equal(t, planpb.ExprTypeAnd, joinBody.JoinCond.Tp)
}

func TestCrossNestedLoopJoinToPB(t *testing.T) {
	ctx := newTestContext()
	left, right := testJoinInput(ctx)
	join := NewLogicalJoin(ctx, InnerJoin, nil, nil, left, right)
	nlJoin := join.GetNestedLoopJoin(
		NewPhysicalTableScan(ctx, left), NewPhysicalTableScan(ctx, right))

	node, err := nlJoin.ToPB(ctx)
	require.NoError(t, err)
	body, err := node.DecodeBody()
	require.NoError(t, err)
	require.Nil(t, body.(*planpb.NestedLoopJoinNode).JoinCond)
}

func TestMergeJoinToPB(t *testing.T) {
	ctx := newTestContext()
	left, right := testJoinInput(ctx)
	conds := []expression.Expression{
		expression.NewFunction(expression.EQ, col(0), col(2)),
	}
	join := NewLogicalJoin(ctx, InnerJoin, conds, nil, left, right)
	info := join.AnalyzeCondition()
	mergeJoin := join.GetMergeJoin(info,
		NewPhysicalTableScan(ctx, left), NewPhysicalTableScan(ctx, right))

	node, err := mergeJoin.ToPB(ctx)
	require.NoError(t, err)
	require.Equal(t, planpb.NodeTypeSortMergeJoin, node.NodeType)

	body, err := node.DecodeBody()
	require.NoError(t, err)
	joinBody := body.(*planpb.SortMergeJoinNode)
	require.Equal(t, planpb.JoinTypeInner, joinBody.JoinType)
	require.Equal(t, []int32{0}, joinBody.LeftKeys)
	require.Equal(t, []int32{0}, joinBody.RightKeys)
	require.Nil(t, joinBody.OtherCond)
}

func TestToPBUnmappedCondition(t *testing.T) {
	ctx := newTestContext()
	left, right := testJoinInput(ctx)
	conds := []expression.Expression{
		expression.NewFunction("bit_xor", col(0), col(2)),
	}
	join := NewLogicalJoin(ctx, InnerJoin, conds, nil, left, right)
	nlJoin := join.GetNestedLoopJoin(
		NewPhysicalTableScan(ctx, left), NewPhysicalTableScan(ctx, right))

	_, err := nlJoin.ToPB(ctx)
	require.Error(t, err)

	_, err = ToPlanFragment(ctx, nlJoin)
	require.Error(t, err)
}

func TestPlanFragmentRoundTrip(t *testing.T) {
	ctx := newTestContext()
	left, right := testJoinInput(ctx)
	conds := []expression.Expression{
		expression.NewFunction(expression.EQ, col(0), col(2)),
	}
	join := NewLogicalJoin(ctx, InnerJoin, conds, nil, left, right)
	hashJoin := join.GetHashJoin(join.AnalyzeCondition(),
		NewPhysicalTableScan(ctx, left), NewPhysicalTableScan(ctx, right))
	sort := NewPhysicalSort(ctx, []*ByItems{{Expr: col(0), Desc: true}}, hashJoin)
	limit := NewPhysicalLimit(ctx, 10, 0, sort)

	fragment, err := ToPlanFragment(ctx, limit)
	require.NoError(t, err)
	require.NotEmpty(t, fragment.QueryID)

	data, err := fragment.Marshal()
	require.NoError(t, err)
	restored, err := planpb.UnmarshalPlanFragment(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(fragment.Root, restored.Root))

	// The operator chain survives: limit over sort over hash join.
	require.Equal(t, planpb.NodeTypeLimit, restored.Root.NodeType)
	require.Equal(t, planpb.NodeTypeSort, restored.Root.Children[0].NodeType)
	require.Equal(t, planpb.NodeTypeHashJoin, restored.Root.Children[0].Children[0].NodeType)
}
