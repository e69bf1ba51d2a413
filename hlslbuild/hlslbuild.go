// Package hlslbuild implements the code generation core of gshader: struct
// field activation by dependency closure, struct synthesis, interpolator packing
// and the `$` template splicer.
//
// Generation functions follow the append convention: they append text to a
// byte slice and return the extended slice. None of them keep state between
// calls so they are safe for concurrent use with distinct buffers.
package hlslbuild

import (
	"math"
	"strconv"
)

// TypeName returns the HLSL float vector type name for width 1..4.
// Other widths return an empty string.
func TypeName(width int) string {
	switch width {
	case 1:
		return "float"
	case 2:
		return "float2"
	case 3:
		return "float3"
	case 4:
		return "float4"
	}
	return ""
}

// AppendDefineDecl appends a `#define` line.
func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	if aliasReplace != "" {
		b = append(b, ' ')
		b = append(b, aliasReplace...)
	}
	b = append(b, '\n')
	return b
}

// AppendUndefineDecl appends an `#undef` line.
func AppendUndefineDecl(b []byte, aliasToUndefine string) []byte {
	b = append(b, "#undef "...)
	b = append(b, aliasToUndefine...)
	b = append(b, '\n')
	return b
}

// AppendIncludeDecl appends an `#include "path"` line.
func AppendIncludeDecl(b []byte, path string) []byte {
	b = append(b, "#include \""...)
	b = append(b, path...)
	b = append(b, "\"\n"...)
	return b
}

// AppendPragmaDecl appends a `#pragma` line.
func AppendPragmaDecl(b []byte, pragma string) []byte {
	b = append(b, "#pragma "...)
	b = append(b, pragma...)
	b = append(b, '\n')
	return b
}

func appendGuardOpen(b []byte, guard string) []byte {
	if guard == "" {
		return b
	}
	b = append(b, "#if "...)
	b = append(b, guard...)
	b = append(b, '\n')
	return b
}

func appendGuardClose(b []byte, guard string) []byte {
	if guard == "" {
		return b
	}
	return append(b, "#endif\n"...)
}

// AppendFloat appends the shortest literal that reads back as v exactly, i.e.
// "0.1", "-2.25", "1e+06". Integral values carry no decimal point. Non-finite
// values have no HLSL literal and are appended as an asfloat bit pattern.
func AppendFloat(b []byte, v float32) []byte {
	if v != v || v > math.MaxFloat32 || v < -math.MaxFloat32 {
		b = append(b, "asfloat(0x"...)
		b = strconv.AppendUint(b, uint64(math.Float32bits(v)), 16)
		return append(b, ')')
	}
	return strconv.AppendFloat(b, float64(v), 'g', -1, 32)
}

// AppendFloats appends s separated by sep.
func AppendFloats(b []byte, sep string, s ...float32) []byte {
	for i, v := range s {
		if i > 0 {
			b = append(b, sep...)
		}
		b = AppendFloat(b, v)
	}
	return b
}

// AppendVectorLiteral appends an HLSL literal of the width first components of v,
// i.e. `float3(1, 0, 0.5)`. Width 1 appends a bare scalar.
func AppendVectorLiteral(b []byte, width int, v [4]float32) []byte {
	if width <= 1 {
		return AppendFloat(b, v[0])
	}
	b = append(b, TypeName(width)...)
	b = append(b, '(')
	for i := 0; i < width; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = AppendFloat(b, v[i])
	}
	b = append(b, ')')
	return b
}

// swizzleChars maps channel offsets to swizzle characters.
const swizzleChars = "xyzw"

// AppendSwizzle appends the swizzle selecting channels [first, first+width), i.e. "yz".
func AppendSwizzle(b []byte, first, width int) []byte {
	return append(b, swizzleChars[first:first+width]...)
}
