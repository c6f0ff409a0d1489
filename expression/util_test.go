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

package expression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitCNFItems(t *testing.T) {
	col0 := &Column{Index: 0}
	col1 := &Column{Index: 1}
	col2 := &Column{Index: 2}

	eq01 := NewFunction(EQ, col0, col1)
	lt12 := NewFunction(LT, col1, col2)
	gt02 := NewFunction(GT, col0, col2)

	// and(and(eq, lt), gt) flattens into three items.
	nested := NewFunction(LogicAnd, NewFunction(LogicAnd, eq01, lt12), gt02)
	items := SplitCNFItems(nested)
	require.Len(t, items, 3)
	require.True(t, items[0].Equal(eq01))
	require.True(t, items[1].Equal(lt12))
	require.True(t, items[2].Equal(gt02))

	// A non-AND expression is a single item.
	items = SplitCNFItems(eq01)
	require.Len(t, items, 1)
	require.True(t, items[0].Equal(eq01))
}

func TestComposeCNFCondition(t *testing.T) {
	col0 := &Column{Index: 0}
	col1 := &Column{Index: 1}

	require.Nil(t, ComposeCNFCondition())

	single := NewFunction(EQ, col0, col1)
	require.True(t, ComposeCNFCondition(single).Equal(single))

	conds := []Expression{
		NewFunction(EQ, col0, col1),
		NewFunction(LT, col0, col1),
		NewFunction(GT, col0, col1),
	}
	composed := ComposeCNFCondition(conds...)
	items := SplitCNFItems(composed)
	require.Len(t, items, 3)
	for i, item := range items {
		require.True(t, item.Equal(conds[i]))
	}
}

func TestIsEqCondition(t *testing.T) {
	col0 := &Column{Index: 0}
	col1 := &Column{Index: 1}

	lhs, rhs, ok := IsEqCondition(NewFunction(EQ, col0, col1))
	require.True(t, ok)
	require.Equal(t, 0, lhs.Index)
	require.Equal(t, 1, rhs.Index)

	_, _, ok = IsEqCondition(NewFunction(EQ, col0, &Constant{Value: 3}))
	require.False(t, ok)

	_, _, ok = IsEqCondition(NewFunction(LT, col0, col1))
	require.False(t, ok)

	_, _, ok = IsEqCondition(col0)
	require.False(t, ok)
}

func TestExtractColumns(t *testing.T) {
	col0 := &Column{Index: 0}
	col2 := &Column{Index: 2}
	expr := NewFunction(LogicAnd,
		NewFunction(EQ, col0, col2),
		NewFunction(GT, col2, &Constant{Value: 1}))
	cols := ExtractColumns(expr)
	require.Len(t, cols, 3)
	require.Equal(t, 0, cols[0].Index)
	require.Equal(t, 2, cols[1].Index)
	require.Equal(t, 2, cols[2].Index)

	require.Nil(t, ExtractColumns(&Constant{Value: 1}))
}
