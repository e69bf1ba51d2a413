// Package gshader models shader graphs: trees of nodes connected to the
// slots of a lit surface master node. Graphs are compiled to HLSL pass
// source by the hlslpass package.
package gshader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Builder wraps node construction.
// Provides error handling strategies with panics or error accumulation during graph construction.
type Builder struct {
	NoPanic   bool
	accumErrs []error
}

// Err returns the accumulated construction errors. Always nil unless NoPanic is set.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) nodeErrorf(msg string, args ...any) {
	if !bld.NoPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func (*Builder) nilnode(msg string) {
	panic("nil Node argument: " + msg)
}

func singleSpace(space CoordinateSpace) bool {
	return space.Prefix() != ""
}

func (bld *Builder) spaceInput(quantity string, space CoordinateSpace, set func(*Requirements)) Node {
	if !singleSpace(space) {
		bld.nodeErrorf("%s requires a single coordinate space, got %s", quantity, space)
		space = SpaceWorld
	}
	in := &inputNode{field: space.Prefix() + "Space" + quantity, width: 3}
	set(&in.req)
	return in
}

// NormalVector returns the surface normal in space.
func (bld *Builder) NormalVector(space CoordinateSpace) Node {
	return bld.spaceInput("Normal", space, func(r *Requirements) { r.Normal = space })
}

// TangentVector returns the surface tangent in space.
func (bld *Builder) TangentVector(space CoordinateSpace) Node {
	return bld.spaceInput("Tangent", space, func(r *Requirements) { r.Tangent = space })
}

// BitangentVector returns the surface bitangent in space.
func (bld *Builder) BitangentVector(space CoordinateSpace) Node {
	return bld.spaceInput("BiTangent", space, func(r *Requirements) { r.Bitangent = space })
}

// ViewDirection returns the direction from the surface to the camera in space.
func (bld *Builder) ViewDirection(space CoordinateSpace) Node {
	return bld.spaceInput("ViewDirection", space, func(r *Requirements) { r.ViewDirection = space })
}

// Position returns the surface position in space.
func (bld *Builder) Position(space CoordinateSpace) Node {
	return bld.spaceInput("Position", space, func(r *Requirements) { r.Position = space })
}

// UV returns the mesh texture coordinates of channel ch.
func (bld *Builder) UV(ch UVChannel) Node {
	if ch >= maxUVChannels {
		bld.nodeErrorf("UV channel %d out of range", ch)
		ch = UV0
	}
	return &inputNode{field: ch.String(), width: 4, req: Requirements{MeshUVs: UVs(ch)}}
}

// VertexColor returns the interpolated mesh vertex color.
func (bld *Builder) VertexColor() Node {
	return &inputNode{field: "VertexColor", width: 4, req: Requirements{VertexColor: true}}
}

// ScreenPosition returns the homogeneous screen position of the surface.
func (bld *Builder) ScreenPosition() Node {
	return &inputNode{field: "ScreenPosition", width: 4, req: Requirements{ScreenPosition: true}}
}

// IsFrontFace returns 1 for front facing surfaces and 0 otherwise.
func (bld *Builder) IsFrontFace() Node {
	return &inputNode{field: "FaceSign", width: 1, req: Requirements{FaceSign: true}}
}

// Constant returns a node of width len(v) holding the constant v.
func (bld *Builder) Constant(v ...float32) Node {
	if len(v) < 1 || len(v) > 4 {
		bld.nodeErrorf("constant requires 1..4 components, got %d", len(v))
		v = []float32{0}
	}
	c := &constant{width: len(v)}
	copy(c.v[:], v)
	return c
}

// ConstantVec2 returns a width 2 constant.
func (bld *Builder) ConstantVec2(v ms2.Vec) Node {
	return bld.Constant(v.X, v.Y)
}

// ConstantVec3 returns a width 3 constant.
func (bld *Builder) ConstantVec3(v ms3.Vec) Node {
	return bld.Constant(v.X, v.Y, v.Z)
}

func (bld *Builder) checkWidths(op string, a, b Node) {
	wa, wb := a.OutputWidth(), b.OutputWidth()
	if wa != wb && wa != 1 && wb != 1 {
		bld.nodeErrorf("%s of mismatched widths %d and %d", op, wa, wb)
	}
}

// Add returns a+b. Operands must share a width or one must be a scalar.
func (bld *Builder) Add(a, b Node) Node {
	if a == nil || b == nil {
		bld.nilnode("Add")
	}
	bld.checkWidths("add", a, b)
	return &binaryOp{op: '+', a: a, b: b}
}

// Multiply returns the component wise product a*b.
func (bld *Builder) Multiply(a, b Node) Node {
	if a == nil || b == nil {
		bld.nilnode("Multiply")
	}
	bld.checkWidths("multiply", a, b)
	return &binaryOp{op: '*', a: a, b: b}
}

// Lerp linearly interpolates between a and b by t.
func (bld *Builder) Lerp(a, b, t Node) Node {
	if a == nil || b == nil || t == nil {
		bld.nilnode("Lerp")
	}
	bld.checkWidths("lerp", a, b)
	if wt := t.OutputWidth(); wt != 1 && wt != max(a.OutputWidth(), b.OutputWidth()) {
		bld.nodeErrorf("lerp factor width %d must be 1 or match operands", wt)
	}
	return &lerp{a: a, b: b, t: t}
}

// Normalize returns a scaled to unit length.
func (bld *Builder) Normalize(a Node) Node {
	if a == nil {
		bld.nilnode("Normalize")
	}
	if a.OutputWidth() < 2 {
		bld.nodeErrorf("normalize of scalar")
	}
	return &normalize{a: a}
}

// Swizzle selects and reorders components of a, i.e. "xy" or "zyx".
func (bld *Builder) Swizzle(a Node, components string) Node {
	if a == nil {
		bld.nilnode("Swizzle")
	}
	if len(components) < 1 || len(components) > 4 {
		bld.nodeErrorf("swizzle %q must select 1..4 components", components)
		components = "x"
	}
	for _, c := range []byte(components) {
		idx := swizzleIndex(c)
		if idx < 0 || idx >= a.OutputWidth() {
			bld.nodeErrorf("swizzle %q out of range for width %d", components, a.OutputWidth())
			components = "x"
			break
		}
	}
	return &swizzle{a: a, components: components}
}

func swizzleIndex(c byte) int {
	switch c {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	}
	return -1
}

// PropertyNode returns the value of material property p. Textures must be
// read with SampleTexture2D.
func (bld *Builder) PropertyNode(p Property) Node {
	err := p.Validate()
	if err != nil {
		bld.nodeErrorf("%s", err)
	} else if p.Kind == PropertyTexture2D {
		bld.nodeErrorf("texture property %q used as value", p.Name)
	}
	return &propertyNode{prop: p}
}

// SampleTexture2D samples texture property tex at uv.
func (bld *Builder) SampleTexture2D(tex Property, uv Node) Node {
	if uv == nil {
		bld.nilnode("SampleTexture2D")
	}
	if tex.Kind != PropertyTexture2D {
		bld.nodeErrorf("property %q of kind %s is not a texture", tex.Name, tex.Kind)
	}
	if uv.OutputWidth() < 2 {
		bld.nodeErrorf("texture coordinates require width >= 2, got %d", uv.OutputWidth())
	}
	return &sampleTexture2D{tex: tex, uv: uv}
}

// appendHashedName appends kind followed by a hash of the node body so that
// structurally identical nodes share a name.
func appendHashedName(b []byte, kind string, n Node) []byte {
	var scratch [64]byte
	body := n.AppendNodeBody(scratch[:0])
	b = append(b, kind...)
	return strconv.AppendUint(b, hash(body, 0xff51afd7ed558ccd), 32)
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
