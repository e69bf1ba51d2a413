package hlslpass

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/soypat/gshader"
	"github.com/soypat/gshader/hlslbuild"
	"github.com/soypat/gshader/hlslbuild/hlsllib"
)

// PassError is returned when a single pass fails to generate. Other passes
// of the same subshader are unaffected.
type PassError struct {
	Pass string
	Err  error
}

func (e *PassError) Error() string { return "pass " + strconv.Quote(e.Pass) + ": " + e.Err.Error() }

func (e *PassError) Unwrap() error { return e.Err }

// Generator assembles passes from templates. The zero value is ready for use.
type Generator struct {
	// Templates holds the pass templates. Nil uses the built-in templates of hlsllib.
	Templates fs.FS
}

func (gen *Generator) templates() fs.FS {
	if gen.Templates == nil {
		return hlsllib.Templates()
	}
	return gen.Templates
}

// ActiveFields returns the closure of fields activated by the pass: the
// requirements of the nodes reachable from the pass slots, the required
// fields of every struct, the connected vertex slots and the pass' own
// required fields, propagated through the dependency tables.
func ActiveFields(g *gshader.Graph, pass *Pass, opts MaterialOptions) (hlslbuild.FieldSet, error) {
	opts = pass.options(opts)
	nodes, err := g.AppendActiveNodes(nil, pass.PixelSlots...)
	if err != nil {
		return nil, err
	}
	nodes, err = g.AppendActiveNodes(nodes, pass.VertexSlots...)
	if err != nil {
		return nil, err
	}
	seed := hlsllib.SeedFields(gshader.RequirementsOf(nodes))
	hlsllib.AddRequiredFields(seed, hlsllib.Structs(opts.Tessellation)...)
	hlsllib.AddVertexSlots(seed, g, pass.VertexSlots...)
	for _, name := range pass.RequiredFields {
		seed.Add(name)
	}
	return hlslbuild.Propagate(seed, hlsllib.DependencyTables(opts.Tessellation)...), nil
}

// AssemblePass generates the ShaderLab pass of g. A template that cannot be
// read is reported as a *PassError wrapping the file system error.
func (gen *Generator) AssemblePass(pass *Pass, g *gshader.Graph, opts MaterialOptions) ([]byte, error) {
	log := gshader.Logger()
	opts = pass.options(opts)
	passErr := func(err error) error { return &PassError{Pass: pass.Name, Err: err} }
	fsys := gen.templates()
	tmpl, err := fs.ReadFile(fsys, pass.Template)
	if err != nil {
		return nil, passErr(err)
	}
	common, err := fs.ReadFile(fsys, hlsllib.TemplateCommon)
	if err != nil {
		return nil, passErr(err)
	}
	active, err := ActiveFields(g, pass, opts)
	if err != nil {
		return nil, passErr(err)
	}
	fragments, err := gen.fragments(pass, g, opts, active)
	if err != nil {
		return nil, passErr(err)
	}

	commonFns, diags := hlslbuild.SpliceDiagnostics(string(common), active, fragments)
	logDiagnostics(pass.Name, hlsllib.TemplateCommon, diags)
	fragments["${CommonFunctions}"] = commonFns
	result, diags := hlslbuild.SpliceDiagnostics(string(tmpl), active, fragments)
	logDiagnostics(pass.Name, pass.Template, diags)
	log.Debug("pass generated", "pass", pass.Name, "active", active.Len(), "bytes", len(result))
	return []byte(result), nil
}

func logDiagnostics(pass, template string, diags []hlslbuild.Diagnostic) {
	log := gshader.Logger()
	for _, d := range diags {
		log.Warn("template diagnostic", "pass", pass, "template", template, "diag", d.String())
	}
}

// fragments builds the named fragments spliced into pass templates.
func (gen *Generator) fragments(pass *Pass, g *gshader.Graph, opts MaterialOptions, active hlslbuild.FieldSet) (map[string]string, error) {
	frags := make(map[string]string, 32)
	var b []byte
	set := func(name string, b []byte) { frags["${"+name+"}"] = string(b) }

	frags["${PassName}"] = pass.Name
	frags["${LightMode}"] = pass.LightMode
	frags["${Tags}"] = `"LightMode" = "` + pass.LightMode + `"`
	if err := opts.RenderState().Merge(pass.State).fragments(frags); err != nil {
		return nil, err
	}

	set(hlsllib.NameAttributesMesh, hlslbuild.AppendStructDecl(b[:0], hlsllib.AttributesMesh, active))
	set(hlsllib.NameVaryingsMeshToPS, hlslbuild.AppendStructDecl(b[:0], hlsllib.VaryingsMeshToPS, active))
	b, err := appendInterpolators(b[:0], hlsllib.VaryingsMeshToPS, active)
	if err != nil {
		return nil, err
	}
	set("Interpolators", b)
	frags["${VaryingsMeshToDS}"], frags["${InterpolatorsDS}"] = "", ""
	if opts.Tessellation {
		set(hlsllib.NameVaryingsMeshToDS, hlslbuild.AppendStructDecl(b[:0], hlsllib.VaryingsMeshToDS, active))
		b, err = appendInterpolators(b[:0], hlsllib.VaryingsMeshToDS, active)
		if err != nil {
			return nil, err
		}
		set("InterpolatorsDS", b)
	}
	set(hlsllib.NameFragInputs, hlslbuild.AppendStructDecl(b[:0], hlsllib.FragInputs, active))
	set(hlsllib.NameGraphInputs, hlslbuild.AppendStructDecl(b[:0], hlsllib.GraphInputs, active))

	b, err = appendGraphProperties(b[:0], g, pass)
	if err != nil {
		return nil, err
	}
	set("GraphProperties", b)

	b = hlslbuild.AppendStructDecl(b[:0], hlsllib.SurfaceDescription, active)
	b, err = g.AppendFunction(b, gshader.SurfaceFunction, pass.PixelSlots...)
	if err != nil {
		return nil, err
	}
	set("Graph", b)
	vertexModified := g.HasVertexSlots(pass.VertexSlots...)
	frags["${VertexGraph}"] = ""
	if vertexModified {
		b = hlslbuild.AppendStructDecl(b[:0], hlsllib.VertexDescription, active)
		b, err = g.AppendFunction(b, gshader.VertexFunction, pass.VertexSlots...)
		if err != nil {
			return nil, err
		}
		set("VertexGraph", b)
	}

	b = b[:0]
	for _, def := range opts.Defines() {
		b = hlslbuild.AppendDefineDecl(b, def, "")
	}
	for _, def := range pass.Defines {
		name, value, _ := strings.Cut(def, " ")
		b = hlslbuild.AppendDefineDecl(b, name, value)
	}
	if vertexModified {
		b = hlslbuild.AppendDefineDecl(b, "HAVE_VERTEX_MODIFICATION", "")
	}
	set("Defines", b)

	b = b[:0]
	for _, inc := range pass.Includes {
		b = hlslbuild.AppendIncludeDecl(b, inc)
	}
	set("Includes", b)

	b = hlslbuild.AppendPragmaDecl(b[:0], fmt.Sprintf("target %d.%d", pass.Target.Major(), pass.Target.Minor()))
	b = hlslbuild.AppendPragmaDecl(b, "vertex Vert")
	b = hlslbuild.AppendPragmaDecl(b, "fragment Frag")
	if opts.Tessellation {
		b = hlslbuild.AppendPragmaDecl(b, "hull Hull")
		b = hlslbuild.AppendPragmaDecl(b, "domain Domain")
	}
	b = hlslbuild.AppendPragmaDecl(b, "multi_compile_instancing")
	for _, pragma := range pass.Pragmas {
		b = hlslbuild.AppendPragmaDecl(b, pragma)
	}
	set("Pragmas", b)
	return frags, nil
}

// appendInterpolators appends the packed struct of s and its pack and unpack
// functions. The layout is validated before emission.
func appendInterpolators(b []byte, s hlslbuild.Struct, active hlslbuild.FieldSet) ([]byte, error) {
	layout := hlslbuild.NewPackedLayout(s, active)
	if err := layout.Validate(); err != nil {
		return b, fmt.Errorf("packing %s: %w", s.Name, err)
	}
	b = layout.AppendPackedStructDecl(b)
	b = layout.AppendPackFunc(b)
	b = layout.AppendUnpackFunc(b)
	return b, nil
}

// appendGraphProperties appends the material constant buffer holding the
// numeric properties followed by the texture declarations.
func appendGraphProperties(b []byte, g *gshader.Graph, pass *Pass) ([]byte, error) {
	props, err := g.AllProperties(append(pass.PixelSlots[:len(pass.PixelSlots):len(pass.PixelSlots)], pass.VertexSlots...)...)
	if err != nil {
		return b, err
	}
	b = append(b, "CBUFFER_START(UnityPerMaterial)\n"...)
	for _, p := range props {
		if p.Kind != gshader.PropertyTexture2D {
			b = p.AppendUniformDecl(b)
		}
	}
	b = append(b, "CBUFFER_END\n"...)
	for _, p := range props {
		if p.Kind == gshader.PropertyTexture2D {
			b = p.AppendUniformDecl(b)
		}
	}
	return b, nil
}

// AssembleSubshader generates the enabled passes in order. Failed passes are
// logged and skipped; their errors are joined in the returned error while
// the successfully generated passes are still returned.
func (gen *Generator) AssembleSubshader(passes []Pass, g *gshader.Graph, opts MaterialOptions) ([]byte, error) {
	log := gshader.Logger()
	var dst []byte
	var errs []error
	for i := range passes {
		pass := &passes[i]
		if !pass.IsEnabled(opts) {
			log.Debug("pass disabled", "pass", pass.Name)
			continue
		}
		code, err := gen.AssemblePass(pass, g, opts)
		if err != nil {
			log.Warn("pass failed", "pass", pass.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		dst = append(dst, code...)
		dst = append(dst, '\n')
	}
	return dst, errors.Join(errs...)
}

// WriteShader writes the complete ShaderLab shader of g using the lit
// pipeline passes. Partial output is written even when some passes fail.
func (gen *Generator) WriteShader(w io.Writer, name string, g *gshader.Graph, opts MaterialOptions) (int, error) {
	props, err := g.AllProperties(gshader.AllSlots()...)
	if err != nil {
		return 0, err
	}
	passes, passErr := gen.AssembleSubshader(LitPipeline(), g, opts)

	var b []byte
	b = append(b, "Shader "...)
	b = strconv.AppendQuote(b, name)
	b = append(b, "\n{\n    Properties\n    {\n"...)
	for _, p := range props {
		b = append(b, "        "...)
		b = p.AppendPropertyDecl(b)
		b = append(b, '\n')
	}
	b = append(b, "    }\n    SubShader\n    {\n        Tags { \"RenderPipeline\" = \"HDRenderPipeline\" "...)
	if opts.opaque() {
		b = append(b, `"RenderType" = "Opaque" "Queue" = "Geometry"`...)
	} else {
		b = append(b, `"RenderType" = "Transparent" "Queue" = "Transparent"`...)
	}
	b = append(b, " }\n"...)
	b = append(b, passes...)
	b = append(b, "    }\n}\n"...)
	n, err := w.Write(b)
	if err != nil {
		return n, err
	}
	return n, passErr
}

// PassReport summarizes the generation of a pass.
type PassReport struct {
	Name   string
	Active hlslbuild.FieldSet
	// Interpolators is the number of packed VaryingsMeshToPS interpolators.
	Interpolators int
	// InterpolatorsDS is the number of packed VaryingsMeshToDS interpolators, zero without tessellation.
	InterpolatorsDS int
	// Registers and RegistersDS count the output registers of the stages
	// writing VaryingsMeshToPS and VaryingsMeshToDS, passthrough members included.
	Registers   int
	RegistersDS int
	VertexLayout    []hlsllib.VertexAttribute
}

// Report computes the active fields and interpolator usage of pass without
// generating code.
func (gen *Generator) Report(pass *Pass, g *gshader.Graph, opts MaterialOptions) (PassReport, error) {
	opts = pass.options(opts)
	active, err := ActiveFields(g, pass, opts)
	if err != nil {
		return PassReport{}, &PassError{Pass: pass.Name, Err: err}
	}
	layout, err := hlsllib.VertexLayout(active)
	if err != nil {
		return PassReport{}, &PassError{Pass: pass.Name, Err: err}
	}
	ps := hlslbuild.NewPackedLayout(hlsllib.VaryingsMeshToPS, active)
	report := PassReport{
		Name:          pass.Name,
		Active:        active,
		Interpolators: ps.Interpolators(),
		Registers:     ps.Registers(),
		VertexLayout:  layout,
	}
	if opts.Tessellation {
		ds := hlslbuild.NewPackedLayout(hlsllib.VaryingsMeshToDS, active)
		report.InterpolatorsDS = ds.Interpolators()
		report.RegistersDS = ds.Registers()
	}
	return report, nil
}
