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

// Package planpb defines the wire representation of a batch physical plan.
// The executor process consumes this schema, so it is a compatibility
// contract: adding a physical operator means adding a NodeType here and
// decode logic on the executor side.
package planpb

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pingcap/errors"
)

// NodeType identifies the physical operator a PlanNode stands for.
type NodeType string

// Wire plan node kinds.
const (
	NodeTypeTableScan      NodeType = "TABLE_SCAN"
	NodeTypeSelection      NodeType = "SELECTION"
	NodeTypeProjection     NodeType = "PROJECTION"
	NodeTypeSort           NodeType = "SORT"
	NodeTypeLimit          NodeType = "LIMIT"
	NodeTypeNestedLoopJoin NodeType = "NESTED_LOOP_JOIN"
	NodeTypeHashJoin       NodeType = "HASH_JOIN"
	NodeTypeSortMergeJoin  NodeType = "SORT_MERGE_JOIN"
)

// JoinType is the wire form of a join type.
type JoinType string

// Wire join types.
const (
	JoinTypeInner      JoinType = "INNER"
	JoinTypeLeftOuter  JoinType = "LEFT_OUTER"
	JoinTypeRightOuter JoinType = "RIGHT_OUTER"
	JoinTypeFullOuter  JoinType = "FULL_OUTER"
	JoinTypeSemi       JoinType = "SEMI"
	JoinTypeAnti       JoinType = "ANTI"
)

// Body is the operator-specific payload of a PlanNode. The node tag is
// derived from the body type at construction time, so a message's NodeType
// always matches its decoded body.
type Body interface {
	nodeType() NodeType
}

// TableScanNode reads a table.
type TableScanNode struct {
	TableID   int64   `json:"table_id"`
	ColumnIDs []int32 `json:"column_ids"`
}

// SelectionNode filters rows by a condition.
type SelectionNode struct {
	Condition *Expr `json:"condition"`
}

// ProjectionNode computes output expressions.
type ProjectionNode struct {
	Exprs []*Expr `json:"exprs"`
}

// SortNode sorts rows by the order-by items.
type SortNode struct {
	OrderBy []*ByItem `json:"order_by"`
}

// LimitNode returns at most Limit rows after skipping Offset rows.
type LimitNode struct {
	Limit  uint64 `json:"limit"`
	Offset uint64 `json:"offset,omitempty"`
}

// NestedLoopJoinNode evaluates JoinCond against every row pair of the
// cross product. JoinCond references the concatenated left+right row.
type NestedLoopJoinNode struct {
	JoinType JoinType `json:"join_type"`
	JoinCond *Expr    `json:"join_cond,omitempty"`
}

// HashJoinNode builds a hash table on the right child's key columns and
// probes it with the left child. Key offsets are relative to each side's
// own row. OtherCond is the residual non-equality filter, if any.
type HashJoinNode struct {
	JoinType  JoinType `json:"join_type"`
	LeftKeys  []int32  `json:"left_keys"`
	RightKeys []int32  `json:"right_keys"`
	OtherCond *Expr    `json:"other_cond,omitempty"`
}

// SortMergeJoinNode merges two inputs sorted on the key columns.
type SortMergeJoinNode struct {
	JoinType  JoinType `json:"join_type"`
	LeftKeys  []int32  `json:"left_keys"`
	RightKeys []int32  `json:"right_keys"`
	OtherCond *Expr    `json:"other_cond,omitempty"`
}

func (*TableScanNode) nodeType() NodeType      { return NodeTypeTableScan }
func (*SelectionNode) nodeType() NodeType      { return NodeTypeSelection }
func (*ProjectionNode) nodeType() NodeType     { return NodeTypeProjection }
func (*SortNode) nodeType() NodeType           { return NodeTypeSort }
func (*LimitNode) nodeType() NodeType          { return NodeTypeLimit }
func (*NestedLoopJoinNode) nodeType() NodeType { return NodeTypeNestedLoopJoin }
func (*HashJoinNode) nodeType() NodeType       { return NodeTypeHashJoin }
func (*SortMergeJoinNode) nodeType() NodeType  { return NodeTypeSortMergeJoin }

// PlanNode is one operator of the serialized plan tree: a tag, a typed
// payload and the child messages in execution order. For joins the first
// child is always the left (probe) side.
type PlanNode struct {
	NodeType NodeType        `json:"node_type"`
	Body     json.RawMessage `json:"body"`
	Children []*PlanNode     `json:"children,omitempty"`
}

// NewPlanNode assembles a PlanNode from a typed body and child messages.
func NewPlanNode(body Body, children ...*PlanNode) (*PlanNode, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &PlanNode{
		NodeType: body.nodeType(),
		Body:     raw,
		Children: children,
	}, nil
}

// DecodeBody restores the typed payload of the node. An unknown NodeType
// is rejected rather than skipped, so the executor never runs a plan it
// only partially understands.
func (n *PlanNode) DecodeBody() (Body, error) {
	var body Body
	switch n.NodeType {
	case NodeTypeTableScan:
		body = new(TableScanNode)
	case NodeTypeSelection:
		body = new(SelectionNode)
	case NodeTypeProjection:
		body = new(ProjectionNode)
	case NodeTypeSort:
		body = new(SortNode)
	case NodeTypeLimit:
		body = new(LimitNode)
	case NodeTypeNestedLoopJoin:
		body = new(NestedLoopJoinNode)
	case NodeTypeHashJoin:
		body = new(HashJoinNode)
	case NodeTypeSortMergeJoin:
		body = new(SortMergeJoinNode)
	default:
		return nil, errors.Errorf("unknown plan node type %q", n.NodeType)
	}
	if err := json.Unmarshal(n.Body, body); err != nil {
		return nil, errors.Trace(err)
	}
	return body, nil
}

// PlanFragment is the handoff envelope for one executable plan tree.
type PlanFragment struct {
	QueryID string    `json:"query_id"`
	Root    *PlanNode `json:"root"`
}

// NewPlanFragment wraps a serialized plan root with a fresh query ID.
func NewPlanFragment(root *PlanNode) *PlanFragment {
	return &PlanFragment{
		QueryID: uuid.NewString(),
		Root:    root,
	}
}

// Marshal encodes the fragment for transport.
func (f *PlanFragment) Marshal() ([]byte, error) {
	data, err := json.Marshal(f)
	return data, errors.Trace(err)
}

// UnmarshalPlanFragment decodes a fragment from its transport form.
func UnmarshalPlanFragment(data []byte) (*PlanFragment, error) {
	f := new(PlanFragment)
	if err := json.Unmarshal(data, f); err != nil {
		return nil, errors.Trace(err)
	}
	return f, nil
}
