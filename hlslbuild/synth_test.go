package hlslbuild_test

import (
	"strings"
	"testing"

	"github.com/soypat/gshader/hlslbuild"
)

func TestAppendStructDecl(t *testing.T) {
	active := hlslbuild.NewFieldSet("Varyings.normalWS", "Varyings.primitiveID")
	got := string(hlslbuild.AppendStructDecl(nil, testVaryings, active))
	const want = `struct Varyings {
	float4 positionCS : SV_Position;
	float3 normalWS;
	nointerpolation float primitiveID;
#if UNITY_ANY_INSTANCING_ENABLED
	uint instanceID : CUSTOM_INSTANCE_ID;
#endif
};
`
	if got != want {
		t.Errorf("struct mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestAppendStructDeclNoOptional(t *testing.T) {
	got := string(hlslbuild.AppendStructDecl(nil, testVaryings, nil))
	if !strings.HasPrefix(got, "struct Varyings {\n") || !strings.HasSuffix(got, "};\n") {
		t.Errorf("malformed struct braces:\n%s", got)
	}
	for _, f := range testVaryings.Fields {
		contains := strings.Contains(got, " "+f.Name)
		if contains == f.Optional {
			t.Errorf("field %s optional=%v presence=%v:\n%s", f.Name, f.Optional, contains, got)
		}
	}
}

func TestAppendStructDeclPreservesOrder(t *testing.T) {
	got := string(hlslbuild.AppendStructDecl(nil, testVaryings, allOptional(testVaryings)))
	last := -1
	for _, f := range testVaryings.Fields {
		idx := strings.Index(got, " "+f.Name)
		if idx < last {
			t.Fatalf("field %s out of declaration order:\n%s", f.Name, got)
		}
		last = idx
	}
}

func TestStructValidate(t *testing.T) {
	if err := testVaryings.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, bad := range []hlslbuild.Struct{
		{Name: "", Fields: nil},
		{Name: "S", Fields: []hlslbuild.Field{{Name: "a", Width: 1}, {Name: "a", Width: 2}}},
		{Name: "S", Fields: []hlslbuild.Field{{Name: "a", Width: 5}}},
		{Name: "S", Fields: []hlslbuild.Field{{Name: "a"}}},
		{Name: "S", Fields: []hlslbuild.Field{{Name: "float4", Width: 4}}},
		{Name: "S", Fields: []hlslbuild.Field{{Name: "", Width: 4}}},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", bad)
		}
	}
}
