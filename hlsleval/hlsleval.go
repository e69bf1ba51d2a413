// Package hlsleval evaluates packed interpolator layouts on the CPU. It
// mirrors the pack, unpack and rasterizer interpolation of the HLSL emitted
// by hlslbuild so layouts can be checked without a GPU.
package hlsleval

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/gshader/hlslbuild"
)

// Value holds up to four float channels of a field or interpolator.
// Channels beyond the width of the field are zero.
type Value [4]float32

// Scalar returns a width 1 value.
func Scalar(v float32) Value { return Value{v} }

// FromVec2 returns a width 2 value.
func FromVec2(v ms2.Vec) Value { return Value{v.X, v.Y} }

// FromVec3 returns a width 3 value.
func FromVec3(v ms3.Vec) Value { return Value{v.X, v.Y, v.Z} }

// FromVec4 returns a width 4 value.
func FromVec4(v ms3.Vec, w float32) Value { return Value{v.X, v.Y, v.Z, w} }

// Vec3 returns the first three channels of v.
func (v Value) Vec3() ms3.Vec { return ms3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Vertex holds the values of the packed fields of a struct by field name.
type Vertex map[string]Value

var (
	errPackedLength = errors.New("packed value count does not match interpolator count")
)

// Pack returns the interpolator values of the packed fields of vertex, one
// Value per interpolator of layout. Every packed field must be present in vertex.
func Pack(layout *hlslbuild.PackedLayout, vertex Vertex) ([]Value, error) {
	packed := make([]Value, layout.Interpolators())
	for _, slot := range layout.Slots {
		v, ok := vertex[slot.Field.Name]
		if !ok {
			return nil, fmt.Errorf("missing value for packed field %s", slot.Field.Name)
		}
		copy(packed[slot.Interp][slot.First:slot.First+slot.Width], v[:slot.Width])
	}
	return packed, nil
}

// Unpack extracts the packed fields of layout from their interpolator values.
func Unpack(layout *hlslbuild.PackedLayout, packed []Value) (Vertex, error) {
	if len(packed) != layout.Interpolators() {
		return nil, errPackedLength
	}
	vertex := make(Vertex, len(layout.Slots))
	for _, slot := range layout.Slots {
		var v Value
		copy(v[:slot.Width], packed[slot.Interp][slot.First:slot.First+slot.Width])
		vertex[slot.Field.Name] = v
	}
	return vertex, nil
}

// Interpolate blends the interpolator values a and b of two vertices of a
// primitive at parameter t, clamped to [0, 1]. Interpolators holding
// nointerpolation fields take the value of the provoking vertex a.
func Interpolate(layout *hlslbuild.PackedLayout, a, b []Value, t float32) ([]Value, error) {
	n := layout.Interpolators()
	if len(a) != n || len(b) != n {
		return nil, errPackedLength
	}
	t = ms1.Clamp(t, 0, 1)
	result := make([]Value, n)
	for i, bin := range layout.Bins {
		if bin.NoInterpolation {
			result[i] = a[i]
			continue
		}
		for c := 0; c < bin.Used; c++ {
			result[i][c] = ms1.Interp(a[i][c], b[i][c], t)
		}
	}
	return result, nil
}

// Equal reports whether the first width channels of a and b differ by at
// most tol. NaN channels are only equal to NaN channels.
func Equal(a, b Value, width int, tol float32) bool {
	for c := 0; c < width; c++ {
		aNaN, bNaN := math32.IsNaN(a[c]), math32.IsNaN(b[c])
		if aNaN || bNaN {
			if aNaN != bNaN {
				return false
			}
			continue
		}
		if math32.Abs(a[c]-b[c]) > tol {
			return false
		}
	}
	return true
}
