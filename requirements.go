package gshader

import (
	"strconv"
	"strings"
)

// CoordinateSpace is a set of coordinate spaces in which a per pixel quantity
// is requested. The zero value means the quantity is not required.
type CoordinateSpace uint8

const (
	SpaceObject CoordinateSpace = 1 << iota
	SpaceView
	SpaceWorld
	SpaceTangent
)

// Has reports whether all spaces in other are contained in cs.
func (cs CoordinateSpace) Has(other CoordinateSpace) bool { return cs&other == other && other != 0 }

// ForEach calls fn for each space in cs in the order Object, View, World, Tangent.
func (cs CoordinateSpace) ForEach(fn func(space CoordinateSpace)) {
	for s := SpaceObject; s <= SpaceTangent; s <<= 1 {
		if cs&s != 0 {
			fn(s)
		}
	}
}

// Prefix returns the field name prefix used for the single space cs, i.e. "World" for SpaceWorld.
func (cs CoordinateSpace) Prefix() string {
	switch cs {
	case SpaceObject:
		return "Object"
	case SpaceView:
		return "View"
	case SpaceWorld:
		return "World"
	case SpaceTangent:
		return "Tangent"
	}
	return ""
}

func (cs CoordinateSpace) String() string {
	if cs == 0 {
		return "None"
	}
	var sb strings.Builder
	cs.ForEach(func(space CoordinateSpace) {
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(space.Prefix())
	})
	return sb.String()
}

// UVChannel identifies a mesh texture coordinate channel.
type UVChannel uint8

const (
	UV0 UVChannel = iota
	UV1
	UV2
	UV3
	maxUVChannels
)

func (ch UVChannel) String() string { return "uv" + strconv.Itoa(int(ch)) }

// UVMask is a set of UV channels.
type UVMask uint8

// UVs returns the mask containing the argument channels.
func UVs(channels ...UVChannel) (m UVMask) {
	for _, ch := range channels {
		m |= 1 << ch
	}
	return m
}

// Has reports whether channel ch is in m.
func (m UVMask) Has(ch UVChannel) bool { return m&(1<<ch) != 0 }

// ForEach calls fn for each channel in m in ascending order.
func (m UVMask) ForEach(fn func(ch UVChannel)) {
	for ch := UV0; ch < maxUVChannels; ch++ {
		if m.Has(ch) {
			fn(ch)
		}
	}
}

// Requirements is the aggregate of semantic quantities a set of nodes needs
// to be evaluated in the pixel (or vertex) stage.
type Requirements struct {
	Normal         CoordinateSpace
	Tangent        CoordinateSpace
	Bitangent      CoordinateSpace
	ViewDirection  CoordinateSpace
	Position       CoordinateSpace
	ScreenPosition bool
	VertexColor    bool
	FaceSign       bool
	MeshUVs        UVMask
}

// Union returns the set union of r and other.
func (r Requirements) Union(other Requirements) Requirements {
	return Requirements{
		Normal:         r.Normal | other.Normal,
		Tangent:        r.Tangent | other.Tangent,
		Bitangent:      r.Bitangent | other.Bitangent,
		ViewDirection:  r.ViewDirection | other.ViewDirection,
		Position:       r.Position | other.Position,
		ScreenPosition: r.ScreenPosition || other.ScreenPosition,
		VertexColor:    r.VertexColor || other.VertexColor,
		FaceSign:       r.FaceSign || other.FaceSign,
		MeshUVs:        r.MeshUVs | other.MeshUVs,
	}
}

// IsZero reports whether r requires nothing.
func (r Requirements) IsZero() bool { return r == Requirements{} }
