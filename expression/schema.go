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
	"fmt"
	"strings"
)

// Schema stands for the row schema of a plan node, the columns an operator
// outputs in order. Only column counts and identities matter to the
// planner; type semantics live in the catalog layer.
type Schema struct {
	Columns []*Column
}

// NewSchema returns a schema made by its parameter columns.
func NewSchema(cols ...*Column) *Schema {
	return &Schema{Columns: cols}
}

// Len returns the number of columns in schema.
func (s *Schema) Len() int {
	return len(s.Columns)
}

// Clone copies the total schema.
func (s *Schema) Clone() *Schema {
	cols := make([]*Column, 0, s.Len())
	for _, col := range s.Columns {
		cols = append(cols, col.Clone().(*Column))
	}
	return NewSchema(cols...)
}

// ColumnIndex finds the index of a column in schema, -1 for not found.
// Columns are identified by UniqueID, never by offset, so membership stays
// correct when both join sides renumber their output from zero.
func (s *Schema) ColumnIndex(col *Column) int {
	for i, c := range s.Columns {
		if c.UniqueID == col.UniqueID {
			return i
		}
	}
	return -1
}

// Contains checks if the schema contains the column.
func (s *Schema) Contains(col *Column) bool {
	return s.ColumnIndex(col) != -1
}

// RetrieveColumn retrieves column in expression from the columns in schema.
func (s *Schema) RetrieveColumn(col *Column) *Column {
	index := s.ColumnIndex(col)
	if index >= 0 {
		return s.Columns[index]
	}
	return nil
}

// MergeSchema merges two schemas into one, left columns first.
func MergeSchema(lSchema, rSchema *Schema) *Schema {
	if lSchema == nil && rSchema == nil {
		return nil
	}
	if lSchema == nil {
		return rSchema.Clone()
	}
	if rSchema == nil {
		return lSchema.Clone()
	}
	tmp := lSchema.Clone()
	tmp.Columns = append(tmp.Columns, rSchema.Clone().Columns...)
	return tmp
}

// String implements fmt.Stringer interface.
func (s *Schema) String() string {
	cols := make([]string, 0, s.Len())
	for _, col := range s.Columns {
		cols = append(cols, col.String())
	}
	return fmt.Sprintf("Column: [%s]", strings.Join(cols, ","))
}
