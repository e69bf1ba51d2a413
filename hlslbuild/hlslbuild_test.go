package hlslbuild_test

import (
	"math"
	"testing"

	"github.com/soypat/gshader/hlslbuild"
)

func TestAppendFloat(t *testing.T) {
	for _, test := range []struct {
		v    float32
		want string
	}{
		{1, "1"},
		{0.5, "0.5"},
		{0.1, "0.1"},
		{-2.25, "-2.25"},
		{0, "0"},
		{100, "100"},
		{1e6, "1e+06"},
		{float32(math.Inf(1)), "asfloat(0x7f800000)"},
		{float32(math.Inf(-1)), "asfloat(0xff800000)"},
	} {
		got := string(hlslbuild.AppendFloat(nil, test.v))
		if got != test.want {
			t.Errorf("AppendFloat(%v) = %q, want %q", test.v, got, test.want)
		}
	}
	if got := string(hlslbuild.AppendFloats(nil, ",", 1, 0.25, -3)); got != "1,0.25,-3" {
		t.Errorf("AppendFloats: got %q", got)
	}
}

func TestAppendVectorLiteral(t *testing.T) {
	v := [4]float32{1, 0, 0.5, 2}
	for width, want := range []string{"1", "1", "float2(1, 0)", "float3(1, 0, 0.5)", "float4(1, 0, 0.5, 2)"} {
		if width == 0 {
			continue
		}
		got := string(hlslbuild.AppendVectorLiteral(nil, width, v))
		if got != want {
			t.Errorf("width %d: got %q, want %q", width, got, want)
		}
	}
}

func TestDeclHelpers(t *testing.T) {
	var b []byte
	b = hlslbuild.AppendDefineDecl(b, "_SURFACE_TYPE_TRANSPARENT", "1")
	b = hlslbuild.AppendDefineDecl(b, "_DOUBLESIDED_ON", "")
	b = hlslbuild.AppendUndefineDecl(b, "_DOUBLESIDED_ON")
	b = hlslbuild.AppendIncludeDecl(b, "Packages/Lit.hlsl")
	b = hlslbuild.AppendPragmaDecl(b, "vertex Vert")
	const want = "#define _SURFACE_TYPE_TRANSPARENT 1\n#define _DOUBLESIDED_ON\n#undef _DOUBLESIDED_ON\n#include \"Packages/Lit.hlsl\"\n#pragma vertex Vert\n"
	if string(b) != want {
		t.Errorf("got:\n%s\nwant:\n%s", b, want)
	}
	if got := string(hlslbuild.AppendSwizzle(nil, 1, 2)); got != "yz" {
		t.Errorf("swizzle: got %q", got)
	}
}
