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

package planpb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewPlanNodeBindsNodeType(t *testing.T) {
	scan, err := NewPlanNode(&TableScanNode{TableID: 1, ColumnIDs: []int32{0, 1}})
	require.NoError(t, err)
	require.Equal(t, NodeTypeTableScan, scan.NodeType)
	require.Empty(t, scan.Children)

	join, err := NewPlanNode(&HashJoinNode{
		JoinType:  JoinTypeInner,
		LeftKeys:  []int32{0},
		RightKeys: []int32{1},
	}, scan, scan)
	require.NoError(t, err)
	require.Equal(t, NodeTypeHashJoin, join.NodeType)
	require.Len(t, join.Children, 2)
}

func TestDecodeBodyRoundTrip(t *testing.T) {
	bodies := []Body{
		&TableScanNode{TableID: 7, ColumnIDs: []int32{0, 1, 2}},
		&SelectionNode{Condition: &Expr{Tp: ExprTypeEQ}},
		&ProjectionNode{Exprs: []*Expr{{Tp: ExprTypeColumnRef, Idx: 1}}},
		&SortNode{OrderBy: []*ByItem{{Expr: &Expr{Tp: ExprTypeColumnRef}, Desc: true}}},
		&LimitNode{Limit: 10, Offset: 5},
		&NestedLoopJoinNode{JoinType: JoinTypeFullOuter, JoinCond: &Expr{Tp: ExprTypeLT}},
		&HashJoinNode{JoinType: JoinTypeSemi, LeftKeys: []int32{0, 1}, RightKeys: []int32{1, 0}},
		&SortMergeJoinNode{JoinType: JoinTypeLeftOuter, LeftKeys: []int32{0}, RightKeys: []int32{0}},
	}
	for _, body := range bodies {
		node, err := NewPlanNode(body)
		require.NoError(t, err)
		decoded, err := node.DecodeBody()
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(body, decoded))
	}
}

func TestDecodeBodyUnknownNodeType(t *testing.T) {
	node := &PlanNode{NodeType: "EXCHANGE", Body: []byte("{}")}
	_, err := node.DecodeBody()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown plan node type")
}

func TestPlanFragmentRoundTrip(t *testing.T) {
	left, err := NewPlanNode(&TableScanNode{TableID: 1, ColumnIDs: []int32{0}})
	require.NoError(t, err)
	right, err := NewPlanNode(&TableScanNode{TableID: 2, ColumnIDs: []int32{0}})
	require.NoError(t, err)
	root, err := NewPlanNode(&NestedLoopJoinNode{JoinType: JoinTypeInner}, left, right)
	require.NoError(t, err)

	fragment := NewPlanFragment(root)
	require.NotEmpty(t, fragment.QueryID)

	data, err := fragment.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalPlanFragment(data)
	require.NoError(t, err)
	require.Equal(t, fragment.QueryID, restored.QueryID)
	require.Empty(t, cmp.Diff(fragment.Root, restored.Root))

	// Child order survives the trip: left scan first.
	leftBody, err := restored.Root.Children[0].DecodeBody()
	require.NoError(t, err)
	require.Equal(t, int64(1), leftBody.(*TableScanNode).TableID)
}

func TestUnmarshalPlanFragmentBadInput(t *testing.T) {
	_, err := UnmarshalPlanFragment([]byte("not json"))
	require.Error(t, err)
}
