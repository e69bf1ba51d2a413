// Package hlsllib contains the static struct schemas, dependency tables and
// pass templates of the lit surface pipeline. All tables are read-only and
// safe for concurrent use.
package hlsllib

import (
	"strconv"

	"github.com/gogpu/naga/ir"
	"github.com/soypat/gshader"
	"github.com/soypat/gshader/hlslbuild"
)

const instancingGuard = "UNITY_ANY_INSTANCING_ENABLED"

// Struct names.
const (
	NameAttributesMesh     = "AttributesMesh"
	NameVaryingsMeshToPS   = "VaryingsMeshToPS"
	NameVaryingsMeshToDS   = "VaryingsMeshToDS"
	NameFragInputs         = "FragInputs"
	NameGraphInputs        = "GraphInputs"
	NameSurfaceDescription = "SurfaceDescription"
	NameVertexDescription  = "VertexDescription"
)

// AttributesMesh is the vertex shader input read from the mesh.
var AttributesMesh = hlslbuild.Struct{
	Name: NameAttributesMesh,
	Fields: concat(
		[]hlslbuild.Field{
			{Name: "positionOS", Width: 3, Semantic: "POSITION"},
			{Name: "normalOS", Width: 3, Semantic: "NORMAL", Optional: true},
			{Name: "tangentOS", Width: 4, Semantic: "TANGENT", Optional: true},
		},
		uvFields("uv", true),
		[]hlslbuild.Field{
			{Name: "color", Width: 4, Semantic: "COLOR", Optional: true},
			{Name: "instanceID", Type: "uint", Semantic: "INSTANCEID_SEMANTIC", Guard: instancingGuard},
		},
	),
}

// VaryingsMeshToPS is passed from the vertex (or domain) stage to the pixel stage.
var VaryingsMeshToPS = hlslbuild.Struct{
	Name: NameVaryingsMeshToPS,
	Fields: concat(
		[]hlslbuild.Field{
			{Name: "positionCS", Width: 4, Semantic: hlslbuild.BuiltinSemantic(ir.BuiltinPosition)},
			{Name: "positionRWS", Width: 3, Optional: true},
			{Name: "normalWS", Width: 3, Optional: true},
			{Name: "tangentWS", Width: 4, Optional: true},
		},
		uvFields("texCoord", false),
		[]hlslbuild.Field{
			{Name: "color", Width: 4, Optional: true},
			{Name: "instanceID", Type: "uint", Semantic: "CUSTOM_INSTANCE_ID", Guard: instancingGuard},
			{Name: "cullFace", Type: "FRONT_FACE_TYPE", Semantic: hlslbuild.BuiltinSemantic(ir.BuiltinFrontFacing), Optional: true, Guard: "defined(SHADER_STAGE_FRAGMENT)"},
		},
	),
}

// VaryingsMeshToDS is passed from the vertex stage to the tessellation stages.
var VaryingsMeshToDS = hlslbuild.Struct{
	Name: NameVaryingsMeshToDS,
	Fields: concat(
		[]hlslbuild.Field{
			{Name: "positionRWS", Width: 3},
			{Name: "normalWS", Width: 3},
			{Name: "tangentWS", Width: 4, Optional: true},
		},
		uvFields("texCoord", false),
		[]hlslbuild.Field{
			{Name: "color", Width: 4, Optional: true},
			{Name: "instanceID", Type: "uint", Semantic: "CUSTOM_INSTANCE_ID", Guard: instancingGuard},
		},
	),
}

// FragInputs is the pixel stage view of the interpolated varyings.
var FragInputs = hlslbuild.Struct{
	Name: NameFragInputs,
	Fields: concat(
		[]hlslbuild.Field{
			{Name: "positionSS", Width: 4},
			{Name: "positionRWS", Width: 3, Optional: true},
		},
		uvFields("texCoord", false),
		[]hlslbuild.Field{
			{Name: "color", Width: 4, Optional: true},
			{Name: "worldToTangent", Type: "float3x3", Optional: true},
			{Name: "isFrontFace", Type: "bool", Optional: true},
		},
	),
}

// GraphInputs holds every quantity a graph node may read.
var GraphInputs = hlslbuild.Struct{
	Name:   NameGraphInputs,
	Fields: graphInputFields(),
}

// SurfaceDescription is the output of the pixel graph function.
var SurfaceDescription = hlslbuild.Struct{
	Name:   NameSurfaceDescription,
	Fields: slotFields(false),
}

// VertexDescription is the output of the vertex graph function. Its fields
// are activated by connected vertex slots.
var VertexDescription = hlslbuild.Struct{
	Name:   NameVertexDescription,
	Fields: slotFields(true),
}

// Quantities of GraphInputs that exist in every coordinate space, in the order they are declared.
var spaceQuantities = []string{"Normal", "Tangent", "BiTangent", "ViewDirection", "Position"}

var allSpaces = []gshader.CoordinateSpace{gshader.SpaceObject, gshader.SpaceView, gshader.SpaceWorld, gshader.SpaceTangent}

// GraphInputName returns the GraphInputs field name of quantity in a single space, i.e. "WorldSpaceNormal".
func GraphInputName(space gshader.CoordinateSpace, quantity string) string {
	return space.Prefix() + "Space" + quantity
}

func graphInputFields() []hlslbuild.Field {
	var fields []hlslbuild.Field
	for _, q := range spaceQuantities {
		for _, space := range allSpaces {
			fields = append(fields, hlslbuild.Field{Name: GraphInputName(space, q), Width: 3, Optional: true})
		}
	}
	fields = append(fields, hlslbuild.Field{Name: "ScreenPosition", Width: 4, Optional: true})
	fields = append(fields, uvFields("uv", false)...)
	fields = append(fields,
		hlslbuild.Field{Name: "VertexColor", Width: 4, Optional: true},
		hlslbuild.Field{Name: "FaceSign", Width: 1, Optional: true},
	)
	return fields
}

func slotFields(vertex bool) (fields []hlslbuild.Field) {
	for id := gshader.SlotID(0); id.Info().Name != ""; id++ {
		info := id.Info()
		if info.Vertex != vertex {
			continue
		}
		fields = append(fields, hlslbuild.Field{Name: info.Name, Width: info.Width, Optional: vertex})
	}
	return fields
}

const numUVs = 4

func uvFields(prefix string, withSemantic bool) []hlslbuild.Field {
	fields := make([]hlslbuild.Field, numUVs)
	for i := range fields {
		fields[i] = hlslbuild.Field{Name: prefix + strconv.Itoa(i), Width: 4, Optional: true}
		if withSemantic {
			fields[i].Semantic = "TEXCOORD" + strconv.Itoa(i)
		}
	}
	return fields
}

func concat(parts ...[]hlslbuild.Field) []hlslbuild.Field {
	var all []hlslbuild.Field
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

// Structs returns the schemas of every generated struct. VaryingsMeshToDS is
// only included when tessellation is enabled.
func Structs(tessellation bool) []hlslbuild.Struct {
	structs := []hlslbuild.Struct{AttributesMesh, VaryingsMeshToPS}
	if tessellation {
		structs = append(structs, VaryingsMeshToDS)
	}
	return append(structs, FragInputs, GraphInputs, SurfaceDescription, VertexDescription)
}
