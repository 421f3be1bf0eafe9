/*
Copyright © 2024 the ugrid authors.
This file is part of ugrid.

ugrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ugrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ugrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package ugrid normalizes unstructured-grid datasets encoded following the
// UGRID metadata conventions into a fixed canonical schema: it locates the
// mesh topology variable by its attributes, renames coordinate and
// connectivity variables and their dimensions to canonical identifiers, and
// standardizes the fill value and integer width of index arrays.
package ugrid

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ctessum/sparse"
)

// A Variable is a named array with an ordered shape and metadata attributes.
// Data holds the array values in row-major order and must be one of []int32,
// []int64, []float32, or []float64. Some attribute values are references:
// whitespace-separated lists of other variable names.
type Variable struct {
	Data  interface{}
	Dims  []string
	Attrs map[string]interface{}
}

// Len returns the number of elements in the variable's data array.
func (v *Variable) Len() int {
	switch data := v.Data.(type) {
	case []int32:
		return len(data)
	case []int64:
		return len(data)
	case []float32:
		return len(data)
	case []float64:
		return len(data)
	default:
		panic(fmt.Errorf("ugrid: unsupported data type %T", v.Data))
	}
}

// A Dataset is an attribute-tagged collection of named variables and named
// dimensions. Variable order is insertion order, which makes first-match
// selection during topology discovery reproducible.
type Dataset struct {
	names    []string
	vars     map[string]*Variable
	dimNames []string
	dims     map[string]int
	coords   map[string]bool
	attrs    map[string]interface{} // global attributes
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		vars:   make(map[string]*Variable),
		dims:   make(map[string]int),
		coords: make(map[string]bool),
		attrs:  make(map[string]interface{}),
	}
}

// AddDim declares a dimension. Redeclaring a dimension with the same length
// is a no-op; redeclaring it with a different length is an error.
func (d *Dataset) AddDim(name string, length int) error {
	if l, ok := d.dims[name]; ok {
		if l != length {
			return fmt.Errorf("ugrid: dimension %s redeclared with length %d; already %d", name, length, l)
		}
		return nil
	}
	if length < 0 {
		return fmt.Errorf("ugrid: dimension %s has negative length %d", name, length)
	}
	d.dimNames = append(d.dimNames, name)
	d.dims[name] = length
	return nil
}

// AddVariable adds a variable with the given dimensions and data. All
// dimensions must already be declared, and the data length must equal the
// product of the dimension lengths. A variable with no dimensions is a
// scalar and must hold exactly one element.
func (d *Dataset) AddVariable(name string, dims []string, data interface{}) error {
	if _, ok := d.vars[name]; ok {
		return fmt.Errorf("ugrid: variable %s already exists", name)
	}
	v := &Variable{
		Data:  data,
		Dims:  append([]string{}, dims...),
		Attrs: make(map[string]interface{}),
	}
	switch data.(type) {
	case []int32, []int64, []float32, []float64:
	default:
		return fmt.Errorf("ugrid: variable %s has unsupported data type %T", name, data)
	}
	n := 1
	for _, dim := range dims {
		l, ok := d.dims[dim]
		if !ok {
			return fmt.Errorf("ugrid: variable %s references undeclared dimension %s", name, dim)
		}
		n *= l
	}
	if v.Len() != n {
		return fmt.Errorf("ugrid: variable %s: dims give %d elements but array length is %d", name, n, v.Len())
	}
	d.names = append(d.names, name)
	d.vars[name] = v
	return nil
}

// AddAttribute sets an attribute on the named variable. The empty variable
// name addresses the dataset's global attributes. The variable must exist.
func (d *Dataset) AddAttribute(varName, attr string, value interface{}) {
	if varName == "" {
		d.attrs[attr] = value
		return
	}
	v, ok := d.vars[varName]
	if !ok {
		panic(fmt.Errorf("ugrid: setting attribute %s on nonexistent variable %s", attr, varName))
	}
	v.Attrs[attr] = value
}

// GetAttribute returns the value of an attribute of the named variable, or
// nil if the variable or attribute does not exist. The empty variable name
// addresses the dataset's global attributes.
func (d *Dataset) GetAttribute(varName, attr string) interface{} {
	if varName == "" {
		return d.attrs[attr]
	}
	v, ok := d.vars[varName]
	if !ok {
		return nil
	}
	return v.Attrs[attr]
}

// Attributes returns the sorted attribute names of the named variable. The
// empty variable name addresses the dataset's global attributes.
func (d *Dataset) Attributes(varName string) []string {
	var m map[string]interface{}
	if varName == "" {
		m = d.attrs
	} else if v, ok := d.vars[varName]; ok {
		m = v.Attrs
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Variables returns the variable names in insertion order.
func (d *Dataset) Variables() []string {
	return append([]string{}, d.names...)
}

// Has reports whether the dataset contains a variable with the given name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.vars[name]
	return ok
}

// Var returns the named variable, or nil if it does not exist.
func (d *Dataset) Var(name string) *Variable {
	return d.vars[name]
}

// Dims returns the dimension names of the named variable.
func (d *Dataset) Dims(varName string) []string {
	v, ok := d.vars[varName]
	if !ok {
		return nil
	}
	return append([]string{}, v.Dims...)
}

// Lengths returns the dimension lengths of the named variable.
func (d *Dataset) Lengths(varName string) []int {
	v, ok := d.vars[varName]
	if !ok {
		return nil
	}
	lengths := make([]int, len(v.Dims))
	for i, dim := range v.Dims {
		lengths[i] = d.dims[dim]
	}
	return lengths
}

// Dimensions returns the declared dimension names in insertion order.
func (d *Dataset) Dimensions() []string {
	return append([]string{}, d.dimNames...)
}

// DimLen returns the length of the named dimension.
func (d *Dataset) DimLen(name string) (int, bool) {
	l, ok := d.dims[name]
	return l, ok
}

// Rename changes a variable's name, leaving its data, dimensions, and
// attributes untouched. Renaming a variable to its current name is a no-op.
// Attribute values referencing the old name are not rewritten.
func (d *Dataset) Rename(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	v, ok := d.vars[oldName]
	if !ok {
		return fmt.Errorf("ugrid: renaming nonexistent variable %s", oldName)
	}
	if _, ok := d.vars[newName]; ok {
		return fmt.Errorf("ugrid: renaming variable %s to %s, which already exists", oldName, newName)
	}
	for i, n := range d.names {
		if n == oldName {
			d.names[i] = newName
			break
		}
	}
	delete(d.vars, oldName)
	d.vars[newName] = v
	if d.coords[oldName] {
		delete(d.coords, oldName)
		d.coords[newName] = true
	}
	return nil
}

// RenameDim changes a dimension's name in the dataset and in the shape of
// every variable that uses it. Renaming a dimension to its current name is
// a no-op.
func (d *Dataset) RenameDim(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	l, ok := d.dims[oldName]
	if !ok {
		return fmt.Errorf("ugrid: renaming nonexistent dimension %s", oldName)
	}
	if _, ok := d.dims[newName]; ok {
		return fmt.Errorf("ugrid: renaming dimension %s to %s, which already exists", oldName, newName)
	}
	for i, n := range d.dimNames {
		if n == oldName {
			d.dimNames[i] = newName
			break
		}
	}
	delete(d.dims, oldName)
	d.dims[newName] = l
	for _, v := range d.vars {
		for i, dim := range v.Dims {
			if dim == oldName {
				v.Dims[i] = newName
			}
		}
	}
	return nil
}

// SetCoords marks the named variables as coordinate variables rather than
// data variables.
func (d *Dataset) SetCoords(names ...string) error {
	for _, n := range names {
		if _, ok := d.vars[n]; !ok {
			return fmt.Errorf("ugrid: marking nonexistent variable %s as a coordinate", n)
		}
	}
	for _, n := range names {
		d.coords[n] = true
	}
	return nil
}

// IsCoord reports whether the named variable is marked as a coordinate.
func (d *Dataset) IsCoord(name string) bool {
	return d.coords[name]
}

// Copy returns a dataset whose structure (names, dimensions, attributes,
// coordinate markers) is independent of d but whose variable data arrays are
// shared. Replacing a variable's Data in the copy does not affect d.
func (d *Dataset) Copy() *Dataset {
	o := NewDataset()
	o.names = append([]string{}, d.names...)
	o.dimNames = append([]string{}, d.dimNames...)
	for k, v := range d.dims {
		o.dims[k] = v
	}
	for k, v := range d.coords {
		o.coords[k] = v
	}
	for k, v := range d.attrs {
		o.attrs[k] = v
	}
	for name, v := range d.vars {
		vc := &Variable{
			Data:  v.Data,
			Dims:  append([]string{}, v.Dims...),
			Attrs: make(map[string]interface{}),
		}
		for k, av := range v.Attrs {
			vc.Attrs[k] = av
		}
		o.vars[name] = vc
	}
	return o
}

// Dense returns the named variable's data as a dense float64 array with the
// variable's shape. Scalars are returned with shape [1].
func (d *Dataset) Dense(name string) (*sparse.DenseArray, error) {
	v, ok := d.vars[name]
	if !ok {
		return nil, fmt.Errorf("ugrid: variable %s is not in the dataset", name)
	}
	shape := d.Lengths(name)
	if len(shape) == 0 {
		shape = []int{1}
	}
	out := sparse.ZerosDense(shape...)
	switch data := v.Data.(type) {
	case []int32:
		for i, e := range data {
			out.Elements[i] = float64(e)
		}
	case []int64:
		for i, e := range data {
			out.Elements[i] = float64(e)
		}
	case []float32:
		for i, e := range data {
			out.Elements[i] = float64(e)
		}
	case []float64:
		copy(out.Elements, data)
	}
	return out, nil
}

// FilterByAttr returns, in variable order, the names of the variables that
// have the given attribute and whose attribute value satisfies match.
func (d *Dataset) FilterByAttr(attr string, match func(value interface{}) bool) []string {
	var out []string
	for _, name := range d.names {
		if value, ok := d.vars[name].Attrs[attr]; ok && match(value) {
			out = append(out, name)
		}
	}
	return out
}

// AttrEqual returns a predicate for FilterByAttr matching attribute values
// equal to want.
func AttrEqual(want interface{}) func(interface{}) bool {
	return func(value interface{}) bool {
		return reflect.DeepEqual(value, want)
	}
}

// AttrPresent is a predicate for FilterByAttr matching any non-nil
// attribute value.
func AttrPresent(value interface{}) bool {
	return value != nil
}
