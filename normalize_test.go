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
	"math"
	"reflect"
	"testing"
)

// testMesh builds a small UGRID-encoded dataset: topology variable Mesh2d
// referencing coordinates x, y over dimension nNodes and connectivity fnc of
// shape (nFaces=3, nMaxNodes=4) with a _FillValue of -1.
func testMesh(t *testing.T) *Dataset {
	t.Helper()
	d := NewDataset()
	for dim, l := range map[string]int{"nNodes": 5, "nFaces": 3, "nMaxNodes": 4} {
		if err := d.AddDim(dim, l); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.AddVariable("Mesh2d", nil, []int32{0}); err != nil {
		t.Fatal(err)
	}
	d.AddAttribute("Mesh2d", "cf_role", "mesh_topology")
	d.AddAttribute("Mesh2d", "topology_dimension", int32(2))
	d.AddAttribute("Mesh2d", "node_coordinates", "x y")
	d.AddAttribute("Mesh2d", "face_node_connectivity", "fnc")
	if err := d.AddVariable("x", []string{"nNodes"}, []float64{0, 1, 2, 1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := d.AddVariable("y", []string{"nNodes"}, []float64{0, 0, 1, 2, 1}); err != nil {
		t.Fatal(err)
	}
	fnc := []int32{
		0, 1, 2, -1,
		1, 3, 2, -1,
		0, 2, 4, 3,
	}
	if err := d.AddVariable("fnc", []string{"nFaces", "nMaxNodes"}, fnc); err != nil {
		t.Fatal(err)
	}
	d.AddAttribute("fnc", "_FillValue", int32(-1))
	return d
}

func TestNormalize(t *testing.T) {
	d := testMesh(t)
	o, sourceDims, err := Normalize(d)
	if err != nil {
		t.Fatal(err)
	}

	wantVars := []string{"Mesh2", "node_lon", "node_lat", "face_node_connectivity"}
	if !reflect.DeepEqual(o.Variables(), wantVars) {
		t.Errorf("have %#v, want %#v", o.Variables(), wantVars)
	}
	wantDims := map[string]string{
		"nNodes":    "n_node",
		"nFaces":    "n_face",
		"nMaxNodes": "n_max_face_nodes",
	}
	if !reflect.DeepEqual(sourceDims, wantDims) {
		t.Errorf("have %#v, want %#v", sourceDims, wantDims)
	}

	for _, c := range []string{"node_lon", "node_lat"} {
		if !o.IsCoord(c) {
			t.Errorf("%s should be marked as a coordinate", c)
		}
		if !reflect.DeepEqual(o.Dims(c), []string{"n_node"}) {
			t.Errorf("%s: have dims %#v, want %#v", c, o.Dims(c), []string{"n_node"})
		}
	}
	connDims := []string{"n_face", "n_max_face_nodes"}
	if !reflect.DeepEqual(o.Dims("face_node_connectivity"), connDims) {
		t.Errorf("have %#v, want %#v", o.Dims("face_node_connectivity"), connDims)
	}
	if !reflect.DeepEqual(o.Lengths("face_node_connectivity"), []int{3, 4}) {
		t.Errorf("have %#v, want %#v", o.Lengths("face_node_connectivity"), []int{3, 4})
	}

	// The -1 sentinel becomes the canonical one; other indices are unchanged.
	fill := Standard.FillValue
	want := []int32{
		0, 1, 2, fill,
		1, 3, 2, fill,
		0, 2, 4, 3,
	}
	if !reflect.DeepEqual(o.Var("face_node_connectivity").Data, want) {
		t.Errorf("have %#v, want %#v", o.Var("face_node_connectivity").Data, want)
	}
	if have := o.GetAttribute("face_node_connectivity", "_FillValue"); have != fill {
		t.Errorf("have %#v, want %#v", have, fill)
	}

	if !MinimumGrid(o) {
		t.Error("normalized dataset should meet the minimum schema")
	}
	// The input keeps its original names.
	if !d.Has("Mesh2d") || !d.Has("fnc") {
		t.Error("input dataset should not be renamed")
	}
}

func TestNormalizeSingleCoordinate(t *testing.T) {
	d := testMesh(t)
	d.AddAttribute("Mesh2d", "node_coordinates", "x")
	o, _, err := Normalize(d)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Has("node_lon") {
		t.Error("node_lon should exist")
	}
	if o.Has("node_lat") || o.Has("y") == false {
		t.Error("y should be left alone when node_coordinates names one variable")
	}
}

func TestNormalizeErrors(t *testing.T) {
	t.Run("TopologyNotFound", func(t *testing.T) {
		d := NewDataset()
		if err := d.AddVariable("a", nil, []int32{0}); err != nil {
			t.Fatal(err)
		}
		if _, _, err := Normalize(d); err != ErrTopologyNotFound {
			t.Errorf("have %v, want %v", err, ErrTopologyNotFound)
		}
	})

	t.Run("MalformedCoordinates", func(t *testing.T) {
		d := testMesh(t)
		d.AddAttribute("Mesh2d", "node_coordinates", "x y z")
		_, _, err := Normalize(d)
		refErr, ok := err.(*ReferenceError)
		if !ok {
			t.Fatalf("have %v (%T), want a *ReferenceError", err, err)
		}
		if refErr.Attr != "node_coordinates" || refErr.Missing != "" {
			t.Errorf("unexpected error detail %#v", refErr)
		}
	})

	t.Run("MissingCoordinateReferent", func(t *testing.T) {
		d := testMesh(t)
		d.AddAttribute("Mesh2d", "node_coordinates", "x missing")
		_, _, err := Normalize(d)
		refErr, ok := err.(*ReferenceError)
		if !ok {
			t.Fatalf("have %v (%T), want a *ReferenceError", err, err)
		}
		if refErr.Missing != "missing" {
			t.Errorf("have %q, want %q", refErr.Missing, "missing")
		}
	})

	t.Run("MissingConnectivityReference", func(t *testing.T) {
		d := testMesh(t)
		d.AddAttribute("Mesh2d", "face_node_connectivity", "")
		if _, _, err := Normalize(d); err == nil {
			t.Error("an empty face_node_connectivity reference should fail")
		}
	})

	t.Run("ConnectivityDimensions", func(t *testing.T) {
		d := testMesh(t)
		d.AddAttribute("Mesh2d", "face_node_connectivity", "flat")
		if err := d.AddDim("n", 2); err != nil {
			t.Fatal(err)
		}
		if err := d.AddVariable("flat", []string{"n"}, []int32{0, 1}); err != nil {
			t.Fatal(err)
		}
		_, _, err := Normalize(d)
		dimErr, ok := err.(*DimensionCountError)
		if !ok {
			t.Fatalf("have %v (%T), want a *DimensionCountError", err, err)
		}
		if dimErr.Var != "flat" || len(dimErr.Dims) != 1 {
			t.Errorf("unexpected error detail %#v", dimErr)
		}
	})
}

// Re-normalizing is unsupported: the reference attributes still name the
// source variables, which no longer exist after the first pass.
func TestRenormalize(t *testing.T) {
	o, _, err := Normalize(testMesh(t))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = Normalize(o)
	refErr, ok := err.(*ReferenceError)
	if !ok {
		t.Fatalf("have %v (%T), want a *ReferenceError", err, err)
	}
	if refErr.Missing != "x" {
		t.Errorf("have %q, want %q", refErr.Missing, "x")
	}
}

func TestLocateTopologyFirstMatch(t *testing.T) {
	d := NewDataset()
	for _, name := range []string{"first", "second"} {
		if err := d.AddVariable(name, nil, []int32{0}); err != nil {
			t.Fatal(err)
		}
		d.AddAttribute(name, "cf_role", "mesh_topology")
	}
	topo, err := LocateTopology(d)
	if err != nil {
		t.Fatal(err)
	}
	if topo != "first" {
		t.Errorf("have %q, want %q", topo, "first")
	}
}

// A NaN-padded float connectivity array normalizes to integer indices with
// the canonical sentinel.
func TestNormalizeNaNSentinel(t *testing.T) {
	d := testMesh(t)
	nan := math.NaN()
	d.Var("fnc").Data = []float64{
		0, 1, 2, nan,
		1, 3, 2, nan,
		0, 2, 4, 3,
	}
	delete(d.Var("fnc").Attrs, "_FillValue")
	o, _, err := Normalize(d)
	if err != nil {
		t.Fatal(err)
	}
	fill := Standard.FillValue
	want := []int32{
		0, 1, 2, fill,
		1, 3, 2, fill,
		0, 2, 4, 3,
	}
	if !reflect.DeepEqual(o.Var("face_node_connectivity").Data, want) {
		t.Errorf("have %#v, want %#v", o.Var("face_node_connectivity").Data, want)
	}
}
