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

package property

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZHANGWENTAI/risingwave/expression"
)

func sortedProp(c Convention, cols ...*expression.Column) *PhysicalProperty {
	prop := NewPhysicalProperty(c)
	prop.SortItems = SortItemsFromCols(cols)
	return prop
}

func TestSatisfiesConvention(t *testing.T) {
	logical := NewPhysicalProperty(ConventionLogical)
	batch := NewPhysicalProperty(ConventionBatchPhysical)
	require.False(t, logical.Satisfies(batch))
	require.False(t, batch.Satisfies(logical))
	require.True(t, batch.Satisfies(batch))
}

func TestSatisfiesDistribution(t *testing.T) {
	anyDist := NewPhysicalProperty(ConventionBatchPhysical)
	single := NewPhysicalProperty(ConventionBatchPhysical)
	single.Distribution = DistributionSingle

	// Any accepts everything; single must be delivered exactly.
	require.True(t, single.Satisfies(anyDist))
	require.False(t, anyDist.Satisfies(single))
	require.True(t, single.Satisfies(single))
}

func TestSatisfiesSortPrefix(t *testing.T) {
	col0 := &expression.Column{UniqueID: 1, Index: 0}
	col1 := &expression.Column{UniqueID: 2, Index: 1}

	delivered := sortedProp(ConventionBatchPhysical, col0, col1)
	require.True(t, delivered.Satisfies(sortedProp(ConventionBatchPhysical, col0)))
	require.True(t, delivered.Satisfies(NewPhysicalProperty(ConventionBatchPhysical)))
	require.False(t, delivered.Satisfies(sortedProp(ConventionBatchPhysical, col1)))

	longer := sortedProp(ConventionBatchPhysical, col0, col1)
	longer.SortItems = append(longer.SortItems, SortItem{Col: &expression.Column{UniqueID: 3, Index: 2}})
	require.False(t, delivered.Satisfies(longer))

	descReq := sortedProp(ConventionBatchPhysical, col0)
	descReq.SortItems[0].Desc = true
	require.False(t, delivered.Satisfies(descReq))
}

func TestSimplify(t *testing.T) {
	col0 := &expression.Column{UniqueID: 1, Index: 0}
	col1 := &expression.Column{UniqueID: 2, Index: 1}

	prop := sortedProp(ConventionBatchPhysical, col0, col1, col0)
	simplified := prop.Simplify()
	require.Len(t, simplified.SortItems, 2)
	require.Equal(t, 0, simplified.SortItems[0].Col.Index)
	require.Equal(t, 1, simplified.SortItems[1].Col.Index)

	// The receiver keeps its duplicated items.
	require.Len(t, prop.SortItems, 3)
}

func TestCloneIndependence(t *testing.T) {
	col0 := &expression.Column{UniqueID: 1, Index: 0}
	prop := sortedProp(ConventionBatchPhysical, col0)
	clone := prop.Clone()
	clone.SortItems[0].Desc = true
	clone.Distribution = DistributionSingle
	require.False(t, prop.SortItems[0].Desc)
	require.Equal(t, DistributionAny, prop.Distribution)
}

func TestWithConvention(t *testing.T) {
	logical := NewPhysicalProperty(ConventionLogical)
	batch := logical.WithConvention(ConventionBatchPhysical)
	require.Equal(t, ConventionBatchPhysical, batch.Convention)
	require.Equal(t, ConventionLogical, logical.Convention)

	dropped := sortedProp(ConventionBatchPhysical, &expression.Column{UniqueID: 1, Index: 0}).WithoutSort()
	require.True(t, dropped.IsSortItemEmpty())
}

func TestHashCode(t *testing.T) {
	col0 := &expression.Column{UniqueID: 1, Index: 0}
	a := sortedProp(ConventionBatchPhysical, col0)
	b := sortedProp(ConventionBatchPhysical, col0)
	require.Equal(t, a.HashCode(), b.HashCode())
	require.True(t, a.Equal(b))

	c := sortedProp(ConventionBatchPhysical, col0)
	c.SortItems[0].Desc = true
	require.NotEqual(t, a.HashCode(), c.HashCode())
	require.False(t, a.Equal(c))

	d := NewPhysicalProperty(ConventionLogical)
	require.NotEqual(t, NewPhysicalProperty(ConventionBatchPhysical).HashCode(), d.HashCode())
}
