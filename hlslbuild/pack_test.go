package hlslbuild_test

import (
	"strings"
	"testing"

	"github.com/soypat/gshader/hlslbuild"
)

var testVaryings = hlslbuild.Struct{
	Name: "Varyings",
	Fields: []hlslbuild.Field{
		{Name: "positionCS", Width: 4, Semantic: "SV_Position"},
		{Name: "positionWS", Width: 3, Optional: true},
		{Name: "normalWS", Width: 3, Optional: true},
		{Name: "tangentWS", Width: 4, Optional: true},
		{Name: "uv0", Width: 2, Optional: true},
		{Name: "uv1", Width: 2, Optional: true},
		{Name: "fog", Width: 1, Optional: true},
		{Name: "primitiveID", Width: 1, Optional: true, NoInterpolation: true},
		{Name: "instanceID", Type: "uint", Semantic: "CUSTOM_INSTANCE_ID", Guard: "UNITY_ANY_INSTANCING_ENABLED"},
	},
}

func allOptional(s hlslbuild.Struct) hlslbuild.FieldSet {
	active := hlslbuild.NewFieldSet()
	for _, f := range s.Fields {
		if f.Optional {
			active.Add(s.Qualified(f.Name))
		}
	}
	return active
}

func TestPackedLayoutFirstFit(t *testing.T) {
	l := hlslbuild.NewPackedLayout(testVaryings, allOptional(testVaryings))
	if err := l.Validate(); err != nil {
		t.Fatal(err)
	}
	want := []struct {
		name         string
		interp, first int
	}{
		{"positionWS", 0, 0},
		{"normalWS", 1, 0},
		{"tangentWS", 2, 0},
		{"uv0", 3, 0},
		{"uv1", 3, 2},
		{"fog", 0, 3},
		{"primitiveID", 4, 0},
	}
	if len(l.Slots) != len(want) {
		t.Fatalf("want %d packed slots, got %d", len(want), len(l.Slots))
	}
	for i, w := range want {
		got := l.Slots[i]
		if got.Field.Name != w.name || got.Interp != w.interp || got.First != w.first {
			t.Errorf("slot %d: want %s at interp%02d.%d, got %s at interp%02d.%d", i, w.name, w.interp, w.first, got.Field.Name, got.Interp, got.First)
		}
	}
	if l.Interpolators() != 5 {
		t.Errorf("want 5 interpolators, got %d", l.Interpolators())
	}
	if len(l.Passthrough) != 2 || l.Passthrough[0].Name != "positionCS" || l.Passthrough[1].Name != "instanceID" {
		t.Errorf("unexpected passthrough fields %+v", l.Passthrough)
	}
	if !l.Bins[4].NoInterpolation {
		t.Error("flat field shares an interpolated bin")
	}
}

func TestPackedLayoutWidth4NeverFitsPartialBin(t *testing.T) {
	s := hlslbuild.Struct{Name: "S", Fields: []hlslbuild.Field{
		{Name: "a", Width: 1},
		{Name: "b", Width: 4},
		{Name: "c", Width: 3},
	}}
	l := hlslbuild.NewPackedLayout(s, nil)
	b, _ := l.Slot("b")
	c, _ := l.Slot("c")
	if b.Interp != 1 || b.First != 0 {
		t.Errorf("width 4 field must start a fresh bin, got interp %d first %d", b.Interp, b.First)
	}
	if c.Interp != 0 || c.First != 1 {
		t.Errorf("want c first-fit into bin 0 at channel 1, got interp %d first %d", c.Interp, c.First)
	}
}

func TestPackedLayoutValidForAllSubsets(t *testing.T) {
	var optional []string
	for _, f := range testVaryings.Fields {
		if f.Optional {
			optional = append(optional, testVaryings.Qualified(f.Name))
		}
	}
	for mask := 0; mask < 1<<len(optional); mask++ {
		active := hlslbuild.NewFieldSet()
		for i, name := range optional {
			if mask&(1<<i) != 0 {
				active.Add(name)
			}
		}
		l := hlslbuild.NewPackedLayout(testVaryings, active)
		if err := l.Validate(); err != nil {
			t.Fatalf("subset %b: %s", mask, err)
		}
		for _, slot := range l.Slots {
			if !active.Has(testVaryings.Qualified(slot.Field.Name)) {
				t.Fatalf("subset %b: inactive field %s packed", mask, slot.Field.Name)
			}
			if slot.Field.Semantic != "" {
				t.Fatalf("subset %b: hardware bound field %s packed", mask, slot.Field.Name)
			}
		}
		sum := 0
		for _, bin := range l.Bins {
			sum += bin.Used
		}
		want := 0
		for _, slot := range l.Slots {
			want += slot.Width
		}
		if sum != want {
			t.Fatalf("subset %b: bins hold %d channels, fields need %d", mask, sum, want)
		}
	}
}

func TestPackedLayoutEmptyActive(t *testing.T) {
	l := hlslbuild.NewPackedLayout(testVaryings, hlslbuild.NewFieldSet())
	if l.Interpolators() != 0 {
		t.Errorf("want no interpolators, got %d", l.Interpolators())
	}
	decl := string(l.AppendPackedStructDecl(nil))
	if !strings.Contains(decl, "float4 positionCS : SV_Position;") || strings.Contains(decl, "interp") {
		t.Errorf("unexpected packed struct:\n%s", decl)
	}
}

func TestPackUnpackFuncs(t *testing.T) {
	s := hlslbuild.Struct{Name: "V", Fields: []hlslbuild.Field{
		{Name: "positionCS", Width: 4, Semantic: "SV_Position"},
		{Name: "a", Width: 3, Optional: true},
		{Name: "b", Width: 1, Optional: true},
		{Name: "c", Width: 2, Optional: true},
		{Name: "d", Width: 2, Optional: true},
	}}
	active := hlslbuild.NewFieldSet("V.a", "V.b", "V.c")
	l := hlslbuild.NewPackedLayout(s, active)
	const wantDecl = `struct PackedV {
	float4 positionCS : SV_Position;
	float4 interp00 : TEXCOORD0;
	float2 interp01 : TEXCOORD1;
};
`
	const wantPack = `PackedV PackV(V input)
{
	PackedV output = (PackedV)0;
	output.positionCS = input.positionCS;
	output.interp00.xyz = input.a;
	output.interp00.w = input.b;
	output.interp01.xy = input.c;
	return output;
}
`
	const wantUnpack = `V UnpackV(PackedV input)
{
	V output = (V)0;
	output.positionCS = input.positionCS;
	output.a = input.interp00.xyz;
	output.b = input.interp00.w;
	output.c = input.interp01.xy;
	return output;
}
`
	if got := string(l.AppendPackedStructDecl(nil)); got != wantDecl {
		t.Errorf("packed struct mismatch:\n%s\nwant:\n%s", got, wantDecl)
	}
	if got := string(l.AppendPackFunc(nil)); got != wantPack {
		t.Errorf("pack func mismatch:\n%s\nwant:\n%s", got, wantPack)
	}
	if got := string(l.AppendUnpackFunc(nil)); got != wantUnpack {
		t.Errorf("unpack func mismatch:\n%s\nwant:\n%s", got, wantUnpack)
	}
}

func TestPackGuardedFields(t *testing.T) {
	l := hlslbuild.NewPackedLayout(testVaryings, hlslbuild.NewFieldSet("Varyings.uv0"))
	decl := string(l.AppendPackedStructDecl(nil))
	const guarded = "#if UNITY_ANY_INSTANCING_ENABLED\n\tuint instanceID : CUSTOM_INSTANCE_ID;\n#endif\n"
	if !strings.Contains(decl, guarded) {
		t.Errorf("missing guarded declaration in:\n%s", decl)
	}
	pack := string(l.AppendPackFunc(nil))
	const guardedCopy = "#if UNITY_ANY_INSTANCING_ENABLED\n\toutput.instanceID = input.instanceID;\n#endif\n"
	if !strings.Contains(pack, guardedCopy) {
		t.Errorf("missing guarded copy in:\n%s", pack)
	}
	if strings.Index(decl, "interp00") < strings.Index(decl, "positionCS") {
		t.Errorf("interpolators must be declared after preceding passthrough fields:\n%s", decl)
	}
}

func TestPackedLayoutSemanticCollision(t *testing.T) {
	s := hlslbuild.Struct{Name: "S", Fields: []hlslbuild.Field{
		{Name: "a", Width: 2},
		{Name: "b", Width: 2, Semantic: "TEXCOORD0"},
	}}
	l := hlslbuild.NewPackedLayout(s, nil)
	if err := l.Validate(); err == nil {
		t.Error("expected semantic collision error")
	}
}
