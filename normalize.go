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
	"errors"
	"fmt"
	"strings"
)

// ErrTopologyNotFound is returned by normalization when no variable in the
// dataset has the attribute cf_role=mesh_topology.
var ErrTopologyNotFound = errors.New("ugrid: no variable has cf_role=mesh_topology")

// A ReferenceError reports a reference attribute on the topology variable
// that either lists an unsupported number of variable names or names a
// variable that is not in the dataset.
type ReferenceError struct {
	Attr    string // the attribute holding the reference
	Value   string // the raw attribute value
	Missing string // the referenced variable that does not exist, if any
}

func (e *ReferenceError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("ugrid: attribute %s references variable %s, which is not in the dataset", e.Attr, e.Missing)
	}
	return fmt.Sprintf("ugrid: malformed %s reference %q", e.Attr, e.Value)
}

// A DimensionCountError reports a connectivity variable whose shape does not
// have exactly two dimensions (face count and maximum nodes per face).
type DimensionCountError struct {
	Var  string
	Dims []string
}

func (e *DimensionCountError) Error() string {
	return fmt.Sprintf("ugrid: connectivity variable %s has %d dimensions %v; need 2", e.Var, len(e.Dims), e.Dims)
}

// LocateTopology returns the name of the variable tagged with
// cf_role=mesh_topology. If several variables carry the tag, the first in
// variable order wins; if none does, ErrTopologyNotFound is returned.
func LocateTopology(d *Dataset) (string, error) {
	matches := d.FilterByAttr(attrCFRole, AttrEqual(meshTopology))
	if len(matches) == 0 {
		return "", ErrTopologyNotFound
	}
	return matches[0], nil
}

// Normalize renames a UGRID-encoded dataset into the Standard canonical
// schema. See Schema.Normalize.
func Normalize(d *Dataset) (*Dataset, map[string]string, error) {
	return Standard.Normalize(d)
}

// Normalize renames the variables and dimensions of a UGRID-encoded dataset
// into the schema's canonical names and standardizes the fill value and
// integer width of the face-node connectivity array. It returns the
// canonical dataset together with a map from original dimension names to
// canonical ones.
//
// The input dataset is not modified: the returned dataset shares array data
// with the input but has independent structure. On error, no partially
// renamed dataset is observable.
//
// Normalizing an already normalized dataset is unsupported: the topology
// variable's reference attributes still name the source variables, which no
// longer exist, so a second run fails with a ReferenceError rather than
// corrupting names.
func (s Schema) Normalize(d *Dataset) (*Dataset, map[string]string, error) {
	topo, err := LocateTopology(d)
	if err != nil {
		return nil, nil, err
	}

	// Collect the reference strings first, then resolve every referenced
	// name against the variable namespace before renaming anything.
	coordValue, _ := d.GetAttribute(topo, attrNodeCoordinates).(string)
	coordNames := strings.Fields(coordValue)
	if len(coordNames) < 1 || len(coordNames) > 2 {
		return nil, nil, &ReferenceError{Attr: attrNodeCoordinates, Value: coordValue}
	}
	connValue, _ := d.GetAttribute(topo, attrFaceNodeConnectivity).(string)
	connNames := strings.Fields(connValue)
	if len(connNames) == 0 {
		return nil, nil, &ReferenceError{Attr: attrFaceNodeConnectivity, Value: connValue}
	}
	conn := connNames[0]
	for _, ref := range coordNames {
		if !d.Has(ref) {
			return nil, nil, &ReferenceError{Attr: attrNodeCoordinates, Value: coordValue, Missing: ref}
		}
	}
	if !d.Has(conn) {
		return nil, nil, &ReferenceError{Attr: attrFaceNodeConnectivity, Value: connValue, Missing: conn}
	}
	if dims := d.Dims(conn); len(dims) != 2 {
		return nil, nil, &DimensionCountError{Var: conn, Dims: dims}
	}
	if len(d.Dims(coordNames[0])) == 0 {
		return nil, nil, fmt.Errorf("ugrid: coordinate variable %s has no dimensions", coordNames[0])
	}

	o := d.Copy()
	if err := o.Rename(topo, s.Topology); err != nil {
		return nil, nil, err
	}
	if err := o.Rename(coordNames[0], s.NodeLon); err != nil {
		return nil, nil, err
	}
	canonCoords := []string{s.NodeLon}
	if len(coordNames) == 2 {
		if err := o.Rename(coordNames[1], s.NodeLat); err != nil {
			return nil, nil, err
		}
		canonCoords = append(canonCoords, s.NodeLat)
	}

	// Coordinate variables share one dimension, the node dimension.
	nodeDim := o.Dims(s.NodeLon)[0]
	if err := o.RenameDim(nodeDim, s.NodeDim); err != nil {
		return nil, nil, err
	}

	if err := o.Rename(conn, s.FaceNodeConnectivity); err != nil {
		return nil, nil, err
	}
	// Declared order is significant: first dimension is the face axis,
	// second the node-per-face axis.
	connDims := o.Dims(s.FaceNodeConnectivity)
	faceDim, maxDim := connDims[0], connDims[1]
	if err := o.RenameDim(faceDim, s.FaceDim); err != nil {
		return nil, nil, err
	}
	if err := o.RenameDim(maxDim, s.MaxFaceNodesDim); err != nil {
		return nil, nil, err
	}

	if err := o.SetCoords(canonCoords...); err != nil {
		return nil, nil, err
	}
	if err := s.StandardizeFillValue(o.Var(s.FaceNodeConnectivity)); err != nil {
		return nil, nil, err
	}

	sourceDims := map[string]string{
		nodeDim: s.NodeDim,
		faceDim: s.FaceDim,
		maxDim:  s.MaxFaceNodesDim,
	}
	return o, sourceDims, nil
}
