package hlsllib

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/soypat/gshader"
	"github.com/soypat/gshader/hlslbuild"
)

// SeedFields translates node requirements into the qualified GraphInputs
// field names they activate.
func SeedFields(req gshader.Requirements) hlslbuild.FieldSet {
	seed := hlslbuild.NewFieldSet()
	addSpaces := func(spaces gshader.CoordinateSpace, quantity string) {
		spaces.ForEach(func(space gshader.CoordinateSpace) {
			seed.Add(q(NameGraphInputs, GraphInputName(space, quantity)))
		})
	}
	addSpaces(req.Normal, "Normal")
	addSpaces(req.Tangent, "Tangent")
	addSpaces(req.Bitangent, "BiTangent")
	addSpaces(req.ViewDirection, "ViewDirection")
	addSpaces(req.Position, "Position")
	if req.ScreenPosition {
		seed.Add(q(NameGraphInputs, "ScreenPosition"))
	}
	if req.VertexColor {
		seed.Add(q(NameGraphInputs, "VertexColor"))
	}
	if req.FaceSign {
		seed.Add(q(NameGraphInputs, "FaceSign"))
	}
	req.MeshUVs.ForEach(func(ch gshader.UVChannel) {
		seed.Add(q(NameGraphInputs, ch.String()))
	})
	return seed
}

// AddRequiredFields adds the qualified names of all required fields of
// structs to set so their dependencies are propagated like any other field.
func AddRequiredFields(set hlslbuild.FieldSet, structs ...hlslbuild.Struct) {
	for _, s := range structs {
		for _, f := range s.Fields {
			if !f.Optional {
				set.Add(s.Qualified(f.Name))
			}
		}
	}
}

// AddVertexSlots adds the VertexDescription fields of the connected vertex slots of g.
func AddVertexSlots(set hlslbuild.FieldSet, g *gshader.Graph, slots ...gshader.SlotID) {
	for _, id := range slots {
		info := id.Info()
		if info.Vertex && g.Slot(id) != nil {
			set.Add(q(NameVertexDescription, info.Name))
		}
	}
}

// VertexAttribute describes one active AttributesMesh member as a vertex buffer attribute.
type VertexAttribute struct {
	Name     string
	Semantic string
	Format   gputypes.VertexFormat
	Offset   uint64
	Location uint32
}

// VertexFormat returns the vertex buffer format of a mesh attribute field.
func VertexFormat(f hlslbuild.Field) (gputypes.VertexFormat, error) {
	if f.Type != "" {
		return 0, fmt.Errorf("field %s of type %s has no vertex format", f.Name, f.Type)
	}
	switch f.Width {
	case 1:
		return gputypes.VertexFormatFloat32, nil
	case 2:
		return gputypes.VertexFormatFloat32x2, nil
	case 3:
		return gputypes.VertexFormatFloat32x3, nil
	case 4:
		return gputypes.VertexFormatFloat32x4, nil
	}
	return 0, fmt.Errorf("field %s has invalid width %d", f.Name, f.Width)
}

// VertexLayout returns the tightly packed vertex buffer layout of the active
// AttributesMesh fields. Guarded fields are supplied by the runtime and are omitted.
func VertexLayout(active hlslbuild.FieldSet) ([]VertexAttribute, error) {
	var attrs []VertexAttribute
	var offset uint64
	for _, f := range AttributesMesh.Fields {
		if f.Guard != "" || !AttributesMesh.IsActive(f, active) {
			continue
		}
		format, err := VertexFormat(f)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, VertexAttribute{
			Name:     f.Name,
			Semantic: f.Semantic,
			Format:   format,
			Offset:   offset,
			Location: uint32(len(attrs)),
		})
		offset += format.Size()
	}
	return attrs, nil
}
