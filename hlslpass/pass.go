package hlslpass

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/hlsl"
	"github.com/soypat/gshader"
	"github.com/soypat/gshader/hlslbuild/hlsllib"
)

// Pass configures the generation of a single render pass.
type Pass struct {
	Name      string
	LightMode string
	// Template is the name of the pass template file.
	Template string
	// PixelSlots and VertexSlots are the master node slots evaluated by the pass.
	PixelSlots  []gshader.SlotID
	VertexSlots []gshader.SlotID
	// RequiredFields are qualified field names always active for the pass.
	RequiredFields []string
	// Defines are "NAME" or "NAME VALUE" preprocessor definitions.
	Defines  []string
	Includes []string
	Pragmas  []string
	// State overrides the material render state.
	State RenderState
	// Target is the minimum shader model of the pass.
	Target hlsl.ShaderModel
	// Enabled reports whether the pass is emitted for a material. Nil means always.
	Enabled func(MaterialOptions) bool
	// NoTessellation keeps the pass on the plain vertex to pixel path when
	// the material is tessellated.
	NoTessellation bool
}

// options returns the material options as seen by the pass.
func (p *Pass) options(opts MaterialOptions) MaterialOptions {
	if p.NoTessellation {
		opts.Tessellation = false
	}
	return opts
}

// IsEnabled reports whether the pass is emitted for opts.
func (p *Pass) IsEnabled(opts MaterialOptions) bool {
	return p.Enabled == nil || p.Enabled(opts)
}

// SurfaceType selects opaque or transparent rendering.
type SurfaceType uint8

const (
	SurfaceOpaque SurfaceType = iota
	SurfaceTransparent
)

func (s SurfaceType) String() string {
	if s == SurfaceTransparent {
		return "Transparent"
	}
	return "Opaque"
}

// BlendMode selects how transparent surfaces are composited.
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendPremultiply
	BlendAdditive
)

// MaterialOptions are the material level switches that gate passes and
// select the base render state.
type MaterialOptions struct {
	Surface   SurfaceType
	Blend     BlendMode
	TwoSided  bool
	AlphaTest bool
	// Tessellation adds the domain stage and its VaryingsMeshToDS struct.
	Tessellation bool
	// Distortion and the Transparent* toggles enable optional transparent passes.
	Distortion               bool
	TransparentBackface      bool
	TransparentDepthPrepass  bool
	TransparentDepthPostpass bool
}

func (opts MaterialOptions) opaque() bool { return opts.Surface == SurfaceOpaque }

// RenderState returns the base render state of the material. Passes
// override it with their own State.
func (opts MaterialOptions) RenderState() RenderState {
	rs := RenderState{
		Cull:  ptr(gputypes.CullModeBack),
		ZTest: ptr(gputypes.CompareFunctionLessEqual),
	}
	if opts.TwoSided {
		rs.Cull = ptr(gputypes.CullModeNone)
	}
	if opts.opaque() {
		rs.ZWrite = ptr(true)
		rs.Blend = &Blend{Src: gputypes.BlendFactorOne, Dst: gputypes.BlendFactorZero, AlphaSrc: gputypes.BlendFactorOne, AlphaDst: gputypes.BlendFactorZero}
		return rs
	}
	rs.ZWrite = ptr(false)
	switch opts.Blend {
	case BlendPremultiply:
		rs.Blend = &Blend{Src: gputypes.BlendFactorOne, Dst: gputypes.BlendFactorOneMinusSrcAlpha, AlphaSrc: gputypes.BlendFactorOne, AlphaDst: gputypes.BlendFactorOneMinusSrcAlpha}
	case BlendAdditive:
		rs.Blend = &Blend{Src: gputypes.BlendFactorSrcAlpha, Dst: gputypes.BlendFactorOne, AlphaSrc: gputypes.BlendFactorOne, AlphaDst: gputypes.BlendFactorOne}
	default:
		rs.Blend = &Blend{Src: gputypes.BlendFactorSrcAlpha, Dst: gputypes.BlendFactorOneMinusSrcAlpha, AlphaSrc: gputypes.BlendFactorOne, AlphaDst: gputypes.BlendFactorOneMinusSrcAlpha}
	}
	return rs
}

// Defines returns the material keywords defined in every pass.
func (opts MaterialOptions) Defines() []string {
	var defs []string
	if !opts.opaque() {
		defs = append(defs, "_SURFACE_TYPE_TRANSPARENT")
		switch opts.Blend {
		case BlendPremultiply:
			defs = append(defs, "_BLENDMODE_PRE_MULTIPLY")
		case BlendAdditive:
			defs = append(defs, "_BLENDMODE_ADD")
		default:
			defs = append(defs, "_BLENDMODE_ALPHA")
		}
	}
	if opts.AlphaTest {
		defs = append(defs, "_ALPHATEST_ON")
	}
	if opts.TwoSided {
		defs = append(defs, "_DOUBLESIDED_ON")
	}
	if opts.Tessellation {
		defs = append(defs, "TESSELLATION_ON")
	}
	return defs
}

const (
	includeCommon    = "Packages/com.unity.render-pipelines.core/ShaderLibrary/Common.hlsl"
	includeVariables = "Packages/com.unity.render-pipelines.high-definition/Runtime/ShaderLibrary/ShaderVariables.hlsl"
	includeShaderPas = "Packages/com.unity.render-pipelines.high-definition/Runtime/RenderPipeline/ShaderPass/ShaderPass.cs.hlsl"
	includeLit       = "Packages/com.unity.render-pipelines.high-definition/Runtime/Material/Lit/Lit.hlsl"
	includeMeta      = "Packages/com.unity.render-pipelines.high-definition/Runtime/Material/MaterialUtilities.hlsl"
)

var (
	surfaceSlots = []gshader.SlotID{
		gshader.SlotAlbedo, gshader.SlotNormal, gshader.SlotMetallic, gshader.SlotSmoothness,
		gshader.SlotOcclusion, gshader.SlotEmission, gshader.SlotAlpha, gshader.SlotAlphaClipThreshold,
	}
	alphaSlots      = []gshader.SlotID{gshader.SlotAlpha, gshader.SlotAlphaClipThreshold}
	metaSlots       = []gshader.SlotID{gshader.SlotAlbedo, gshader.SlotEmission, gshader.SlotAlpha, gshader.SlotAlphaClipThreshold}
	distortionSlots = []gshader.SlotID{gshader.SlotDistortion, gshader.SlotAlpha, gshader.SlotAlphaClipThreshold}
	vertexSlots     = []gshader.SlotID{gshader.SlotVertexPosition, gshader.SlotVertexNormal, gshader.SlotVertexTangent}

	litIncludes   = []string{includeCommon, includeVariables, includeShaderPas, includeLit}
	depthIncludes = []string{includeCommon, includeVariables, includeShaderPas}

	colorMaskNone = ptr(gputypes.ColorWriteMaskNone)
)

const (
	stencilGBuffer       = "Stencil\n    {\n        WriteMask 7\n        Ref 2\n        Comp Always\n        Pass Replace\n    }"
	stencilMotionVectors = "Stencil\n    {\n        WriteMask 128\n        Ref 128\n        Comp Always\n        Pass Replace\n    }"
)

func opaqueOnly(opts MaterialOptions) bool { return opts.opaque() }

func transparentWith(toggle func(MaterialOptions) bool) func(MaterialOptions) bool {
	return func(opts MaterialOptions) bool { return !opts.opaque() && toggle(opts) }
}

// LitPipeline returns the passes of the lit surface in emission order. A new
// slice is returned on each call.
func LitPipeline() []Pass {
	return []Pass{
		{
			Name:        "GBuffer",
			LightMode:   "GBuffer",
			Template:    hlsllib.TemplateLitPass,
			PixelSlots:  surfaceSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_GBUFFER"},
			Includes:    litIncludes,
			State:       RenderState{Stencil: stencilGBuffer},
			Enabled:     opaqueOnly,
		},
		{
			Name:        "GBufferWithPrepass",
			LightMode:   "GBufferWithPrepass",
			Template:    hlsllib.TemplateLitPass,
			PixelSlots:  surfaceSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_GBUFFER"},
			Includes:    litIncludes,
			State: RenderState{
				ZTest:   ptr(gputypes.CompareFunctionEqual),
				ZWrite:  ptr(false),
				Stencil: stencilGBuffer,
			},
			Enabled: opaqueOnly,
		},
		{
			Name:           "META",
			LightMode:      "Meta",
			Template:       hlsllib.TemplateMetaPass,
			PixelSlots:     metaSlots,
			VertexSlots:    vertexSlots,
			RequiredFields: []string{"AttributesMesh.uv1", "AttributesMesh.uv2"},
			Defines:        []string{"SHADERPASS SHADERPASS_LIGHT_TRANSPORT"},
			Includes:       append(litIncludes[:len(litIncludes):len(litIncludes)], includeMeta),
			State:          RenderState{Cull: ptr(gputypes.CullModeNone)},
			NoTessellation: true,
		},
		{
			Name:        "ShadowCaster",
			LightMode:   "ShadowCaster",
			Template:    hlsllib.TemplateDepthPass,
			PixelSlots:  alphaSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_SHADOWS"},
			Includes:    depthIncludes,
			State: RenderState{
				ZWrite:    ptr(true),
				ZTest:     ptr(gputypes.CompareFunctionLessEqual),
				Blend:     &Blend{Src: gputypes.BlendFactorOne, Dst: gputypes.BlendFactorZero, AlphaSrc: gputypes.BlendFactorOne, AlphaDst: gputypes.BlendFactorZero},
				ColorMask: colorMaskNone,
			},
		},
		{
			Name:        "DepthOnly",
			LightMode:   "DepthOnly",
			Template:    hlsllib.TemplateDepthPass,
			PixelSlots:  alphaSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_DEPTH_ONLY"},
			Includes:    depthIncludes,
			State:       RenderState{ZWrite: ptr(true), ColorMask: colorMaskNone},
			Enabled:     opaqueOnly,
		},
		{
			Name:           "MotionVectors",
			LightMode:      "MotionVectors",
			Template:       hlsllib.TemplateDepthPass,
			PixelSlots:     alphaSlots,
			VertexSlots:    vertexSlots,
			RequiredFields: []string{"FragInputs.positionRWS"},
			Defines:        []string{"SHADERPASS SHADERPASS_MOTION_VECTORS", "WRITE_MOTION_VECTOR"},
			Includes:       depthIncludes,
			State:          RenderState{Stencil: stencilMotionVectors},
			Enabled:        opaqueOnly,
		},
		{
			Name:        "DistortionVectors",
			LightMode:   "DistortionVectors",
			Template:    hlsllib.TemplateLitPass,
			PixelSlots:  distortionSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_DISTORTION"},
			Includes:    litIncludes,
			State: RenderState{
				Blend:   &Blend{Src: gputypes.BlendFactorOne, Dst: gputypes.BlendFactorOne, AlphaSrc: gputypes.BlendFactorOne, AlphaDst: gputypes.BlendFactorOne},
				BlendOp: ptr(gputypes.BlendOperationAdd),
				ZWrite:  ptr(false),
			},
			Enabled: transparentWith(func(opts MaterialOptions) bool { return opts.Distortion }),
		},
		{
			Name:        "TransparentDepthPrepass",
			LightMode:   "TransparentDepthPrepass",
			Template:    hlsllib.TemplateDepthPass,
			PixelSlots:  alphaSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_DEPTH_ONLY", "CUTOFF_TRANSPARENT_DEPTH_PREPASS"},
			Includes:    depthIncludes,
			State:       RenderState{ZWrite: ptr(true), ColorMask: colorMaskNone},
			Enabled:     transparentWith(func(opts MaterialOptions) bool { return opts.TransparentDepthPrepass }),
		},
		{
			Name:        "TransparentBackface",
			LightMode:   "TransparentBackface",
			Template:    hlsllib.TemplateLitPass,
			PixelSlots:  surfaceSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_FORWARD"},
			Includes:    litIncludes,
			State:       RenderState{Cull: ptr(gputypes.CullModeFront)},
			Enabled:     transparentWith(func(opts MaterialOptions) bool { return opts.TransparentBackface }),
		},
		{
			Name:        "Forward",
			LightMode:   "Forward",
			Template:    hlsllib.TemplateLitPass,
			PixelSlots:  surfaceSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_FORWARD"},
			Includes:    litIncludes,
			Pragmas:     []string{"multi_compile _ DEBUG_DISPLAY"},
		},
		{
			Name:        "TransparentDepthPostpass",
			LightMode:   "TransparentDepthPostpass",
			Template:    hlsllib.TemplateDepthPass,
			PixelSlots:  alphaSlots,
			VertexSlots: vertexSlots,
			Defines:     []string{"SHADERPASS SHADERPASS_DEPTH_ONLY", "CUTOFF_TRANSPARENT_DEPTH_POSTPASS"},
			Includes:    depthIncludes,
			State:       RenderState{ZWrite: ptr(true), ColorMask: colorMaskNone},
			Enabled:     transparentWith(func(opts MaterialOptions) bool { return opts.TransparentDepthPostpass }),
		},
	}
}
