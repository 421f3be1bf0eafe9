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

// IsUGRID reports whether a raw (not yet normalized) dataset carries the
// UGRID topology markers: at least one variable tagged cf_role=mesh_topology
// and at least one variable each with a topology_dimension, a
// face_node_connectivity, and a node_coordinates attribute. The four markers
// may live on different variables; IsUGRID does not verify that they
// describe the same topology.
func IsUGRID(d *Dataset) bool {
	return len(d.FilterByAttr(attrCFRole, AttrEqual(meshTopology))) > 0 &&
		len(d.FilterByAttr(attrTopologyDimension, AttrPresent)) > 0 &&
		len(d.FilterByAttr(attrFaceNodeConnectivity, AttrPresent)) > 0 &&
		len(d.FilterByAttr(attrNodeCoordinates, AttrPresent)) > 0
}

// MinimumGrid reports whether a normalized dataset meets the minimum schema
// for a 2D unstructured grid under the Standard schema. See
// Schema.MinimumGrid.
func MinimumGrid(d *Dataset) bool {
	return Standard.MinimumGrid(d)
}

// MinimumGrid reports whether a normalized dataset meets the minimum schema
// for a 2D unstructured grid: a full set of node coordinates, either
// lon/lat or Cartesian x/y/z, and the face-node connectivity variable. The
// connectivity variable is required regardless of which coordinate set is
// present.
func (s Schema) MinimumGrid(d *Dataset) bool {
	lonlat := d.Has(s.NodeLon) && d.Has(s.NodeLat)
	xyz := d.Has(s.NodeX) && d.Has(s.NodeY) && d.Has(s.NodeZ)
	return (lonlat || xyz) && d.Has(s.FaceNodeConnectivity)
}
