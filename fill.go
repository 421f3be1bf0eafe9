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

package ugrid

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// A FillValueError reports a connectivity array element that cannot be
// converted to the canonical index type, such as a fractional node index or
// a value outside the int32 range.
type FillValueError struct {
	Index int // flat position in the array
	Value interface{}
}

func (e *FillValueError) Error() string {
	return fmt.Sprintf("ugrid: connectivity element %v at position %d cannot be converted to the canonical index type", e.Value, e.Index)
}

// StandardizeFillValue rewrites an index variable to the canonical sentinel
// value and the canonical index type (int32).
//
// The current sentinel is detected in priority order: an explicit _FillValue
// attribute; otherwise, for floating-point data containing NaN anywhere, NaN;
// otherwise no sentinel is present. If the data is already int32 and the
// declared fill value equals the canonical sentinel, nothing changes.
// Otherwise every element equal to the detected sentinel (NaN matched by
// math.IsNaN, not equality) becomes the canonical sentinel, all other
// elements are cast to int32, and the _FillValue attribute is rewritten.
//
// Node indices are whole numbers: a non-sentinel element that is fractional
// or does not fit in int32 aborts with a FillValueError instead of being
// coerced.
func (s Schema) StandardizeFillValue(v *Variable) error {
	var fill float64
	var fillIsNaN, hasFill bool
	if a := v.Attrs[attrFillValue]; a != nil {
		f, ok := attrFloat(a)
		if !ok {
			return fmt.Errorf("ugrid: _FillValue attribute %v (%T) is not numeric", a, a)
		}
		fill, hasFill = f, true
		fillIsNaN = math.IsNaN(f)
	} else {
		switch data := v.Data.(type) {
		case []float64:
			if floats.HasNaN(data) {
				fillIsNaN, hasFill = true, true
			}
		case []float32:
			for _, e := range data {
				if math.IsNaN(float64(e)) {
					fillIsNaN, hasFill = true, true
					break
				}
			}
		}
	}

	if _, ok := v.Data.([]int32); ok && hasFill && !fillIsNaN && fill == float64(s.FillValue) {
		return nil
	}

	out := make([]int32, v.Len())
	cast := func(i int, e float64) error {
		if e != math.Trunc(e) || e < math.MinInt32 || e > math.MaxInt32 {
			return &FillValueError{Index: i, Value: e}
		}
		out[i] = int32(e)
		return nil
	}
	switch data := v.Data.(type) {
	case []int32:
		for i, e := range data {
			if hasFill && !fillIsNaN && float64(e) == fill {
				out[i] = s.FillValue
			} else {
				out[i] = e
			}
		}
	case []int64:
		for i, e := range data {
			if hasFill && !fillIsNaN && float64(e) == fill {
				out[i] = s.FillValue
			} else if e < math.MinInt32 || e > math.MaxInt32 {
				return &FillValueError{Index: i, Value: e}
			} else {
				out[i] = int32(e)
			}
		}
	case []float32:
		for i, e := range data {
			f := float64(e)
			if isSentinel(f, fill, fillIsNaN, hasFill) {
				out[i] = s.FillValue
			} else if err := cast(i, f); err != nil {
				return err
			}
		}
	case []float64:
		for i, e := range data {
			if isSentinel(e, fill, fillIsNaN, hasFill) {
				out[i] = s.FillValue
			} else if err := cast(i, e); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("ugrid: connectivity variable has unsupported data type %T", v.Data)
	}
	v.Data = out
	v.Attrs[attrFillValue] = s.FillValue
	return nil
}

func isSentinel(e, fill float64, fillIsNaN, hasFill bool) bool {
	if !hasFill {
		return false
	}
	if fillIsNaN {
		return math.IsNaN(e)
	}
	return e == fill
}

// attrFloat coerces an attribute value to float64. NetCDF attributes are
// vectors, so single-element typed slices are accepted alongside scalars.
func attrFloat(a interface{}) (float64, bool) {
	switch x := a.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case []int32:
		if len(x) == 1 {
			return float64(x[0]), true
		}
	case []int64:
		if len(x) == 1 {
			return float64(x[0]), true
		}
	case []float32:
		if len(x) == 1 {
			return float64(x[0]), true
		}
	case []float64:
		if len(x) == 1 {
			return x[0], true
		}
	}
	return 0, false
}
