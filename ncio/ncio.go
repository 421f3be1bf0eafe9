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

// Package ncio reads and writes ugrid datasets as NetCDF classic files. The
// encode step is a passthrough: writing performs no schema inversion, so a
// normalized dataset is written under its canonical names.
package ncio

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"

	"github.com/spatialmodel/ugrid"
)

// Read loads a NetCDF classic file into an in-memory dataset. Every variable
// is read in full, in header order, together with its dimensions and
// attributes; global attributes are carried over. Byte, char, and 16-bit
// integer variables are widened to int32.
func Read(r cdf.ReaderWriterAt) (*ugrid.Dataset, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("ugrid: opening netcdf file: %v", err)
	}
	d := ugrid.NewDataset()
	for _, v := range f.Header.Variables() {
		dims := f.Header.Dimensions(v)
		lengths := f.Header.Lengths(v)
		for i, dim := range dims {
			if err := d.AddDim(dim, lengths[i]); err != nil {
				return nil, err
			}
		}
	}
	for _, a := range f.Header.Attributes("") {
		d.AddAttribute("", a, f.Header.GetAttribute("", a))
	}
	for _, v := range f.Header.Variables() {
		rr := f.Reader(v, nil, nil)
		buf := rr.Zero(-1)
		if _, err := rr.Read(buf); err != nil {
			return nil, fmt.Errorf("ugrid: reading netcdf variable %s: %v", v, err)
		}
		data, err := widen(buf)
		if err != nil {
			return nil, fmt.Errorf("ugrid: netcdf variable %s: %v", v, err)
		}
		if err := d.AddVariable(v, f.Header.Dimensions(v), data); err != nil {
			return nil, err
		}
		for _, a := range f.Header.Attributes(v) {
			d.AddAttribute(v, a, f.Header.GetAttribute(v, a))
		}
	}
	return d, nil
}

// Write serializes a dataset to a NetCDF classic file. The classic format
// has no 64-bit integer type, so datasets holding int64 data or attributes
// are rejected; normalization produces int32 index arrays, which encode
// without loss.
func Write(f *os.File, d *ugrid.Dataset) error {
	for _, v := range d.Variables() {
		if _, ok := d.Var(v).Data.([]int64); ok {
			return fmt.Errorf("ugrid: variable %s holds 64-bit integers, which netcdf classic files cannot represent", v)
		}
	}
	dims := d.Dimensions()
	lengths := make([]int, len(dims))
	for i, dim := range dims {
		lengths[i], _ = d.DimLen(dim)
	}
	h := cdf.NewHeader(dims, lengths)
	for _, a := range d.Attributes("") {
		av, err := attrValue(d.GetAttribute("", a))
		if err != nil {
			return fmt.Errorf("ugrid: global attribute %s: %v", a, err)
		}
		h.AddAttribute("", a, av)
	}
	for _, v := range d.Variables() {
		vv := d.Var(v)
		h.AddVariable(v, vv.Dims, zeroSample(vv.Data))
		for _, a := range d.Attributes(v) {
			av, err := attrValue(d.GetAttribute(v, a))
			if err != nil {
				return fmt.Errorf("ugrid: attribute %s:%s: %v", v, a, err)
			}
			h.AddAttribute(v, a, av)
		}
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("ugrid: building netcdf header: %v", err)
	}
	ff, err := cdf.Create(f, h)
	if err != nil {
		return fmt.Errorf("ugrid: creating netcdf file: %v", err)
	}
	for _, v := range d.Variables() {
		data := d.Var(v).Data
		end := ff.Header.Lengths(v)
		begin := make([]int, len(end))
		w := ff.Writer(v, begin, end)
		n, err := w.Write(data)
		// A write landing exactly on the end of the variable's byte range
		// reports io.EOF; a full write is a success, not an error.
		if err == io.EOF && n == dataLen(data) {
			err = nil
		}
		if err != nil {
			return fmt.Errorf("ugrid: writing netcdf variable %s: %v", v, err)
		}
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		return fmt.Errorf("ugrid: writing netcdf file: %v", err)
	}
	return nil
}

// widen converts a buffer read from a netcdf file to one of the dataset's
// supported element types. Byte and char variables come back as []uint8.
func widen(buf interface{}) (interface{}, error) {
	switch data := buf.(type) {
	case []int32, []int64, []float32, []float64:
		return data, nil
	case []uint8:
		out := make([]int32, len(data))
		for i, e := range data {
			out[i] = int32(e)
		}
		return out, nil
	case []int16:
		out := make([]int32, len(data))
		for i, e := range data {
			out[i] = int32(e)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported element type %T", buf)
	}
}

// dataLen returns the number of elements in a variable's data, matching the
// element count cdf's Writer.Write reports.
func dataLen(data interface{}) int {
	switch x := data.(type) {
	case []int32:
		return len(x)
	case []float32:
		return len(x)
	case []float64:
		return len(x)
	default:
		return -1
	}
}

// zeroSample returns a one-element slice of the data's element type, as
// cdf.Header.AddVariable expects.
func zeroSample(data interface{}) interface{} {
	switch data.(type) {
	case []int32:
		return []int32{0}
	case []float32:
		return []float32{0}
	case []float64:
		return []float64{0}
	default:
		panic(fmt.Errorf("ugrid: unsupported data type %T", data))
	}
}

// attrValue wraps scalar attribute values into the single-element vectors
// the netcdf encoding expects; strings and slices pass through.
func attrValue(a interface{}) (interface{}, error) {
	switch x := a.(type) {
	case int:
		return []int32{int32(x)}, nil
	case int32:
		return []int32{x}, nil
	case float32:
		return []float32{x}, nil
	case float64:
		return []float64{x}, nil
	case int64, []int64:
		return nil, fmt.Errorf("64-bit integer attributes cannot be represented in netcdf classic files")
	default:
		return a, nil
	}
}
