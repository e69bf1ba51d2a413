package gshader_test

import (
	"math"
	"strings"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/gshader"
)

func TestRequirementsUnion(t *testing.T) {
	a := gshader.Requirements{Normal: gshader.SpaceWorld, MeshUVs: gshader.UVs(gshader.UV0)}
	b := gshader.Requirements{Normal: gshader.SpaceObject, VertexColor: true, MeshUVs: gshader.UVs(gshader.UV2)}
	ab, ba := a.Union(b), b.Union(a)
	if ab != ba {
		t.Errorf("union not commutative: %+v != %+v", ab, ba)
	}
	if ab.Union(ab) != ab {
		t.Error("union not idempotent")
	}
	if !ab.Normal.Has(gshader.SpaceWorld|gshader.SpaceObject) || !ab.VertexColor {
		t.Errorf("union lost members: %+v", ab)
	}
	if !ab.MeshUVs.Has(gshader.UV0) || !ab.MeshUVs.Has(gshader.UV2) || ab.MeshUVs.Has(gshader.UV1) {
		t.Errorf("bad uv mask %b", ab.MeshUVs)
	}
	if !(gshader.Requirements{}).IsZero() || ab.IsZero() {
		t.Error("IsZero mismatch")
	}
	if s := (gshader.SpaceObject | gshader.SpaceTangent).String(); s != "Object|Tangent" {
		t.Errorf("got space string %q", s)
	}
}

func TestAppendActiveNodesShared(t *testing.T) {
	var bld gshader.Builder
	uv := bld.UV(gshader.UV1)
	rgb := bld.Swizzle(uv, "xyz")
	// uv is reached directly and through rgb.
	albedo := bld.Lerp(rgb, bld.Swizzle(uv, "zyx"), bld.Constant(0.5))
	var g gshader.Graph
	if err := g.SetSlot(gshader.SlotAlbedo, albedo); err != nil {
		t.Fatal(err)
	}
	if err := g.SetSlot(gshader.SlotEmission, rgb); err != nil {
		t.Fatal(err)
	}
	nodes, err := g.AppendActiveNodes(nil, gshader.SlotAlbedo, gshader.SlotEmission)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 5 {
		t.Fatalf("want 5 distinct nodes, got %d", len(nodes))
	}
	index := make(map[gshader.Node]int)
	for i, n := range nodes {
		if _, dup := index[n]; dup {
			t.Fatalf("node %s appended twice", n.AppendNodeName(nil))
		}
		index[n] = i
	}
	for _, n := range nodes {
		n.ForEachInput(func(in *gshader.Node) error {
			if index[*in] < index[n] {
				t.Errorf("input %s appears before its user %s", (*in).AppendNodeName(nil), n.AppendNodeName(nil))
			}
			return nil
		})
	}
	req := gshader.RequirementsOf(nodes)
	if req != (gshader.Requirements{MeshUVs: gshader.UVs(gshader.UV1)}) {
		t.Errorf("unexpected requirements %+v", req)
	}
}

func TestSetSlotWidth(t *testing.T) {
	var bld gshader.Builder
	var g gshader.Graph
	if err := g.SetSlot(gshader.SlotAlbedo, bld.Constant(1, 2)); err == nil {
		t.Error("expected error connecting width 2 node to width 3 slot")
	}
	if err := g.SetSlot(gshader.SlotAlbedo, bld.Constant(1)); err != nil {
		t.Errorf("scalar broadcast rejected: %v", err)
	}
	if err := g.SetSlot(gshader.SlotID(-1), bld.Constant(1)); err == nil {
		t.Error("expected error for unknown slot")
	}
}

func TestAppendFunction(t *testing.T) {
	var bld gshader.Builder
	var g gshader.Graph
	uv := bld.UV(gshader.UV0)
	g.SetSlot(gshader.SlotAlbedo, bld.Multiply(uv, bld.Constant(2)))
	g.SetSlot(gshader.SlotNormal, bld.NormalVector(gshader.SpaceTangent))
	b, err := g.AppendFunction(nil, gshader.SurfaceFunction, gshader.SlotAlbedo, gshader.SlotNormal, gshader.SlotMetallic)
	if err != nil {
		t.Fatal(err)
	}
	src := string(b)
	for _, want := range []string{
		"SurfaceDescription PopulateSurfaceData(GraphInputs IN)\n{\n",
		"\tSurfaceDescription output = (SurfaceDescription)0;\n",
		"\tfloat4 inuv0 = IN.uv0;\n",
		"\tfloat3 inTangentSpaceNormal = IN.TangentSpaceNormal;\n",
		"\toutput.Normal = inTangentSpaceNormal;\n",
		"\toutput.Metallic = 0;\n",
		"\treturn output;\n}\n",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
	// Width 4 product assigned to a width 3 slot is truncated.
	if !strings.Contains(src, ".xyz;\n") {
		t.Errorf("albedo not truncated:\n%s", src)
	}
	if strings.Index(src, "inuv0 =") > strings.Index(src, "inuv0 *") {
		t.Errorf("input used before declaration:\n%s", src)
	}
}

func TestAppendFunctionStructuralDedup(t *testing.T) {
	var bld gshader.Builder
	var g gshader.Graph
	// Two distinct node values with identical structure.
	c1 := bld.ConstantVec3(ms3.Vec{X: 1, Y: 0.5, Z: 0})
	c2 := bld.ConstantVec3(ms3.Vec{X: 1, Y: 0.5, Z: 0})
	g.SetSlot(gshader.SlotAlbedo, bld.Add(c1, c2))
	b, err := g.AppendFunction(nil, gshader.SurfaceFunction, gshader.SlotAlbedo)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "float3(1, 0.5, 0);"); n != 1 {
		t.Errorf("constant declared %d times:\n%s", n, b)
	}
}

func TestAppendFunctionVertexSlots(t *testing.T) {
	var bld gshader.Builder
	var g gshader.Graph
	if g.HasVertexSlots(gshader.SlotVertexPosition, gshader.SlotVertexNormal) {
		t.Fatal("empty graph reports vertex slots")
	}
	offset := bld.Add(bld.Position(gshader.SpaceObject), bld.Constant(0, 1, 0))
	g.SetSlot(gshader.SlotVertexPosition, offset)
	if !g.HasVertexSlots(gshader.SlotVertexPosition, gshader.SlotVertexNormal) {
		t.Fatal("connected vertex slot not reported")
	}
	b, err := g.AppendFunction(nil, gshader.VertexFunction, gshader.SlotVertexPosition, gshader.SlotVertexNormal)
	if err != nil {
		t.Fatal(err)
	}
	src := string(b)
	if !strings.Contains(src, "\toutput.Position = ") {
		t.Errorf("missing position assignment:\n%s", src)
	}
	if strings.Contains(src, "output.Normal") {
		t.Errorf("unconnected vertex slot assigned:\n%s", src)
	}
}

func TestBuilderErrors(t *testing.T) {
	bld := gshader.Builder{NoPanic: true}
	bld.Add(bld.Constant(1, 2), bld.Constant(1, 2, 3))
	bld.Swizzle(bld.Constant(1, 2), "xyz")
	bld.NormalVector(gshader.SpaceWorld | gshader.SpaceObject)
	bld.Constant()
	err := bld.Err()
	if err == nil {
		t.Fatal("expected accumulated errors")
	}
	if n := strings.Count(err.Error(), "\n") + 1; n != 4 {
		t.Errorf("want 4 joined errors, got %d:\n%v", n, err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic without NoPanic")
		}
	}()
	var panicky gshader.Builder
	panicky.Normalize(panicky.Constant(1))
}

func TestProperties(t *testing.T) {
	color := gshader.Property{Name: "_BaseColor", Display: "Base Color", Kind: gshader.PropertyColor, Default: [4]float32{1, 0.5, 0, 1}}
	tex := gshader.Property{Name: "_BaseMap", Kind: gshader.PropertyTexture2D}
	smooth := gshader.Property{Name: "_Smoothness", Kind: gshader.PropertyFloat, Default: [4]float32{0.25}}
	for _, test := range []struct {
		p        gshader.Property
		decl     string
		uniforms string
	}{
		{color, `_BaseColor("Base Color", Color) = (1,0.5,0,1)`, "float4 _BaseColor;\n"},
		{tex, `_BaseMap("_BaseMap", 2D) = "white" {}`, "TEXTURE2D(_BaseMap);\nSAMPLER(sampler_BaseMap);\n"},
		{smooth, `_Smoothness("_Smoothness", Float) = 0.25`, "float _Smoothness;\n"},
	} {
		if err := test.p.Validate(); err != nil {
			t.Fatal(err)
		}
		if got := string(test.p.AppendPropertyDecl(nil)); got != test.decl {
			t.Errorf("property decl: got %q, want %q", got, test.decl)
		}
		if got := string(test.p.AppendUniformDecl(nil)); got != test.uniforms {
			t.Errorf("uniform decl: got %q, want %q", got, test.uniforms)
		}
	}
	for _, bad := range []gshader.Property{
		{Name: "", Kind: gshader.PropertyFloat},
		{Name: "1abc", Kind: gshader.PropertyFloat},
		{Name: "float4", Kind: gshader.PropertyFloat},
		{Name: "_Ok"},
		{Name: "_Inf", Kind: gshader.PropertyFloat, Default: [4]float32{math.Float32frombits(0x7f800000)}},
	} {
		if bad.Validate() == nil {
			t.Errorf("expected validation error for %+v", bad)
		}
	}

	var bld gshader.Builder
	var g gshader.Graph
	if err := g.AddProperty(smooth); err != nil {
		t.Fatal(err)
	}
	if err := g.AddProperty(gshader.Property{Name: "_Smoothness", Kind: gshader.PropertyColor}); err == nil {
		t.Error("expected conflicting property error")
	}
	sample := bld.SampleTexture2D(tex, bld.UV(gshader.UV0))
	g.SetSlot(gshader.SlotAlbedo, bld.Multiply(bld.Swizzle(sample, "rgb"), bld.Swizzle(bld.PropertyNode(color), "rgb")))
	g.SetSlot(gshader.SlotSmoothness, bld.PropertyNode(smooth))
	props, err := g.AllProperties(gshader.AllSlots()...)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range props {
		names = append(names, p.Name)
	}
	if len(props) != 3 || props[0].Name != "_Smoothness" {
		t.Errorf("unexpected properties %v", names)
	}
}
