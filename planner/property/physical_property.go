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

// Package property defines the physical properties (traits) attached to a
// plan node: the calling convention, the data distribution and the row
// order. Conversion reconciles the property a parent requires with the
// property a child can deliver.
package property

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ZHANGWENTAI/risingwave/expression"
)

// Convention tells whether a plan node is still abstract or bound to the
// batch execution engine.
type Convention int

const (
	// ConventionLogical marks operators with relational semantics only.
	ConventionLogical Convention = iota
	// ConventionBatchPhysical marks operators executable by the batch engine.
	ConventionBatchPhysical
)

// String implements fmt.Stringer interface.
func (c Convention) String() string {
	switch c {
	case ConventionLogical:
		return "logical"
	case ConventionBatchPhysical:
		return "batchPhysical"
	}
	return "unknownConvention"
}

// DistributionType describes how rows are spread across execution units.
type DistributionType int

const (
	// DistributionAny accepts every distribution.
	DistributionAny DistributionType = iota
	// DistributionSingle requires all rows on a single execution unit.
	DistributionSingle
)

// String implements fmt.Stringer interface.
func (d DistributionType) String() string {
	if d == DistributionSingle {
		return "single"
	}
	return "any"
}

// SortItem wraps the column and its order.
type SortItem struct {
	Col  *expression.Column
	Desc bool
}

// String implements fmt.Stringer interface.
func (s SortItem) String() string {
	if s.Desc {
		return fmt.Sprintf("{%s desc}", s.Col)
	}
	return fmt.Sprintf("{%s asc}", s.Col)
}

// PhysicalProperty stands for the required physical property by parents.
// A PhysicalProperty is immutable once handed to conversion; derivations
// always clone.
type PhysicalProperty struct {
	Convention   Convention
	Distribution DistributionType
	SortItems    []SortItem

	// hashcode stores the hash code of a PhysicalProperty, will be lazily
	// calculated when the HashCode function is called.
	hashcode []byte
}

// NewPhysicalProperty builds a property with the given convention and no
// distribution or order requirement.
func NewPhysicalProperty(c Convention) *PhysicalProperty {
	return &PhysicalProperty{Convention: c}
}

// SortItemsFromCols builds sort items from columns in ascending order.
func SortItemsFromCols(cols []*expression.Column) []SortItem {
	items := make([]SortItem, 0, len(cols))
	for _, col := range cols {
		items = append(items, SortItem{Col: col})
	}
	return items
}

// IsSortItemEmpty checks whether the order property is empty.
func (p *PhysicalProperty) IsSortItemEmpty() bool {
	return len(p.SortItems) == 0
}

// Clone copies a property totally. The clone carries no cached hash code.
func (p *PhysicalProperty) Clone() *PhysicalProperty {
	np := &PhysicalProperty{
		Convention:   p.Convention,
		Distribution: p.Distribution,
		SortItems:    make([]SortItem, len(p.SortItems)),
	}
	copy(np.SortItems, p.SortItems)
	return np
}

// WithConvention returns a copy of the property bound to the convention.
func (p *PhysicalProperty) WithConvention(c Convention) *PhysicalProperty {
	np := p.Clone()
	np.Convention = c
	return np
}

// WithoutSort returns a copy of the property with the order dropped. The
// enforcer uses it to relax a requirement before adding a sort on top.
func (p *PhysicalProperty) WithoutSort() *PhysicalProperty {
	np := p.Clone()
	np.SortItems = nil
	return np
}

// Simplify deduplicates repeated sort columns, keeping the first
// occurrence. Requirements merged from several sources may mention the
// same column twice; the first mention wins.
func (p *PhysicalProperty) Simplify() *PhysicalProperty {
	np := p.Clone()
	seen := make(map[int64]struct{}, len(np.SortItems))
	items := np.SortItems[:0]
	for _, item := range np.SortItems {
		if _, ok := seen[item.Col.UniqueID]; ok {
			continue
		}
		seen[item.Col.UniqueID] = struct{}{}
		items = append(items, item)
	}
	np.SortItems = items
	return np
}

// Satisfies reports whether a plan delivering this property meets the
// target requirement: same convention, compatible distribution, and the
// target's sort items are a prefix of the delivered ones.
func (p *PhysicalProperty) Satisfies(target *PhysicalProperty) bool {
	if p.Convention != target.Convention {
		return false
	}
	if target.Distribution != DistributionAny && p.Distribution != target.Distribution {
		return false
	}
	if len(target.SortItems) > len(p.SortItems) {
		return false
	}
	for i, item := range target.SortItems {
		if item.Desc != p.SortItems[i].Desc || !item.Col.Equal(p.SortItems[i].Col) {
			return false
		}
	}
	return true
}

// Equal checks two properties for full equality.
func (p *PhysicalProperty) Equal(other *PhysicalProperty) bool {
	if p.Convention != other.Convention || p.Distribution != other.Distribution ||
		len(p.SortItems) != len(other.SortItems) {
		return false
	}
	for i, item := range p.SortItems {
		if item.Desc != other.SortItems[i].Desc || !item.Col.Equal(other.SortItems[i].Col) {
			return false
		}
	}
	return true
}

// HashCode calculates hash code for a PhysicalProperty object.
func (p *PhysicalProperty) HashCode() []byte {
	if p.hashcode != nil {
		return p.hashcode
	}
	hashcodeSize := 8 + 8 + 16*len(p.SortItems)
	p.hashcode = make([]byte, 0, hashcodeSize)
	p.hashcode = binary.BigEndian.AppendUint64(p.hashcode, uint64(p.Convention))
	p.hashcode = binary.BigEndian.AppendUint64(p.hashcode, uint64(p.Distribution))
	for _, item := range p.SortItems {
		p.hashcode = binary.BigEndian.AppendUint64(p.hashcode, uint64(item.Col.UniqueID))
		if item.Desc {
			p.hashcode = append(p.hashcode, 1)
		} else {
			p.hashcode = append(p.hashcode, 0)
		}
	}
	return p.hashcode
}

// String implements fmt.Stringer interface. Just for test.
func (p *PhysicalProperty) String() string {
	items := make([]string, 0, len(p.SortItems))
	for _, item := range p.SortItems {
		items = append(items, item.String())
	}
	return fmt.Sprintf("Prop{convention: %s, distribution: %s, sort: [%s]}",
		p.Convention, p.Distribution, strings.Join(items, " "))
}
