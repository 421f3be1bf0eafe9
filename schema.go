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

import "math"

// UGRID convention attribute names used for discovery.
const (
	attrCFRole               = "cf_role"
	attrTopologyDimension    = "topology_dimension"
	attrNodeCoordinates      = "node_coordinates"
	attrFaceNodeConnectivity = "face_node_connectivity"
	attrFillValue            = "_FillValue"

	meshTopology = "mesh_topology"
)

// A Schema holds the canonical variable and dimension names that
// normalization renames a dataset into, together with the canonical sentinel
// value for index arrays. The canonical index type is int32; the sentinel
// marks padding slots in connectivity arrays.
type Schema struct {
	// Topology is the canonical name of the mesh topology variable.
	Topology string
	// NodeLon and NodeLat are the canonical names of the node coordinate
	// variables.
	NodeLon string
	NodeLat string
	// NodeX, NodeY, and NodeZ are the canonical names of Cartesian node
	// coordinate variables, accepted as an alternative to NodeLon/NodeLat
	// by the minimum-schema check.
	NodeX string
	NodeY string
	NodeZ string
	// FaceNodeConnectivity is the canonical name of the face-node
	// connectivity variable.
	FaceNodeConnectivity string
	// NodeDim, FaceDim, and MaxFaceNodesDim are the canonical dimension
	// names for the node count, face count, and maximum nodes per face.
	NodeDim         string
	FaceDim         string
	MaxFaceNodesDim string
	// FillValue is the canonical sentinel marking unused slots in index
	// arrays.
	FillValue int32
}

// Standard is the canonical schema used by the package-level functions. The
// sentinel is the minimum value of the canonical index type.
var Standard = Schema{
	Topology:             "Mesh2",
	NodeLon:              "node_lon",
	NodeLat:              "node_lat",
	NodeX:                "node_x",
	NodeY:                "node_y",
	NodeZ:                "node_z",
	FaceNodeConnectivity: "face_node_connectivity",
	NodeDim:              "n_node",
	FaceDim:              "n_face",
	MaxFaceNodesDim:      "n_max_face_nodes",
	FillValue:            math.MinInt32,
}
