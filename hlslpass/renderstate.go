package hlslpass

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Blend holds the color and alpha blend factors of a pass.
type Blend struct {
	Src, Dst           gputypes.BlendFactor
	AlphaSrc, AlphaDst gputypes.BlendFactor
}

// RenderState holds the fixed function state of a pass. Nil fields are not
// emitted and leave the pipeline default in effect.
type RenderState struct {
	Cull      *gputypes.CullMode
	ZTest     *gputypes.CompareFunction
	ZWrite    *bool
	Blend     *Blend
	BlendOp   *gputypes.BlendOperation
	ColorMask *gputypes.ColorWriteMask
	// Stencil is a verbatim ShaderLab Stencil block.
	Stencil string
}

func ptr[T any](v T) *T { return &v }

// Merge returns rs with the non-nil fields of override applied on top.
func (rs RenderState) Merge(override RenderState) RenderState {
	if override.Cull != nil {
		rs.Cull = override.Cull
	}
	if override.ZTest != nil {
		rs.ZTest = override.ZTest
	}
	if override.ZWrite != nil {
		rs.ZWrite = override.ZWrite
	}
	if override.Blend != nil {
		rs.Blend = override.Blend
	}
	if override.BlendOp != nil {
		rs.BlendOp = override.BlendOp
	}
	if override.ColorMask != nil {
		rs.ColorMask = override.ColorMask
	}
	if override.Stencil != "" {
		rs.Stencil = override.Stencil
	}
	return rs
}

// AppendCull appends the ShaderLab Cull command, i.e. "Cull Back".
func AppendCull(b []byte, mode gputypes.CullMode) ([]byte, error) {
	b = append(b, "Cull "...)
	switch mode {
	case gputypes.CullModeNone:
		return append(b, "Off"...), nil
	case gputypes.CullModeFront:
		return append(b, "Front"...), nil
	case gputypes.CullModeBack:
		return append(b, "Back"...), nil
	}
	return b, fmt.Errorf("unsupported cull mode %v", mode)
}

// AppendZTest appends the ShaderLab ZTest command, i.e. "ZTest LEqual".
func AppendZTest(b []byte, fn gputypes.CompareFunction) ([]byte, error) {
	name, err := compareName(fn)
	if err != nil {
		return b, err
	}
	b = append(b, "ZTest "...)
	return append(b, name...), nil
}

func compareName(fn gputypes.CompareFunction) (string, error) {
	switch fn {
	case gputypes.CompareFunctionNever:
		return "Never", nil
	case gputypes.CompareFunctionLess:
		return "Less", nil
	case gputypes.CompareFunctionEqual:
		return "Equal", nil
	case gputypes.CompareFunctionLessEqual:
		return "LEqual", nil
	case gputypes.CompareFunctionGreater:
		return "Greater", nil
	case gputypes.CompareFunctionNotEqual:
		return "NotEqual", nil
	case gputypes.CompareFunctionGreaterEqual:
		return "GEqual", nil
	case gputypes.CompareFunctionAlways:
		return "Always", nil
	}
	return "", fmt.Errorf("unsupported compare function %v", fn)
}

// AppendZWrite appends "ZWrite On" or "ZWrite Off".
func AppendZWrite(b []byte, on bool) []byte {
	if on {
		return append(b, "ZWrite On"...)
	}
	return append(b, "ZWrite Off"...)
}

// AppendBlend appends the ShaderLab Blend command with separate alpha factors,
// i.e. "Blend SrcAlpha OneMinusSrcAlpha, One OneMinusSrcAlpha".
func AppendBlend(b []byte, blend Blend) ([]byte, error) {
	b = append(b, "Blend"...)
	for i, f := range [4]gputypes.BlendFactor{blend.Src, blend.Dst, blend.AlphaSrc, blend.AlphaDst} {
		name, err := blendFactorName(f)
		if err != nil {
			return b, err
		}
		if i == 2 {
			b = append(b, ',')
		}
		b = append(b, ' ')
		b = append(b, name...)
	}
	return b, nil
}

func blendFactorName(f gputypes.BlendFactor) (string, error) {
	switch f {
	case gputypes.BlendFactorZero:
		return "Zero", nil
	case gputypes.BlendFactorOne:
		return "One", nil
	case gputypes.BlendFactorSrc:
		return "SrcColor", nil
	case gputypes.BlendFactorOneMinusSrc:
		return "OneMinusSrcColor", nil
	case gputypes.BlendFactorSrcAlpha:
		return "SrcAlpha", nil
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return "OneMinusSrcAlpha", nil
	case gputypes.BlendFactorDst:
		return "DstColor", nil
	case gputypes.BlendFactorOneMinusDst:
		return "OneMinusDstColor", nil
	case gputypes.BlendFactorDstAlpha:
		return "DstAlpha", nil
	case gputypes.BlendFactorOneMinusDstAlpha:
		return "OneMinusDstAlpha", nil
	case gputypes.BlendFactorSrcAlphaSaturated:
		return "SrcAlphaSaturate", nil
	}
	return "", fmt.Errorf("unsupported blend factor %v", f)
}

// AppendBlendOp appends the ShaderLab BlendOp command, i.e. "BlendOp Add".
func AppendBlendOp(b []byte, op gputypes.BlendOperation) ([]byte, error) {
	b = append(b, "BlendOp "...)
	switch op {
	case gputypes.BlendOperationAdd:
		return append(b, "Add"...), nil
	case gputypes.BlendOperationSubtract:
		return append(b, "Sub"...), nil
	case gputypes.BlendOperationReverseSubtract:
		return append(b, "RevSub"...), nil
	case gputypes.BlendOperationMin:
		return append(b, "Min"...), nil
	case gputypes.BlendOperationMax:
		return append(b, "Max"...), nil
	}
	return b, fmt.Errorf("unsupported blend operation %v", op)
}

// AppendColorMask appends the ShaderLab ColorMask command, i.e. "ColorMask RGBA" or "ColorMask 0".
func AppendColorMask(b []byte, mask gputypes.ColorWriteMask) []byte {
	b = append(b, "ColorMask "...)
	if mask&gputypes.ColorWriteMaskAll == 0 {
		return append(b, '0')
	}
	for i, channel := range [4]gputypes.ColorWriteMask{gputypes.ColorWriteMaskRed, gputypes.ColorWriteMaskGreen, gputypes.ColorWriteMaskBlue, gputypes.ColorWriteMaskAlpha} {
		if mask&channel != 0 {
			b = append(b, "RGBA"[i])
		}
	}
	return b
}

// fragments returns the render state named fragments. Unset state maps to an empty fragment.
func (rs RenderState) fragments(dst map[string]string) error {
	var b []byte
	var err error
	set := func(key string, b []byte) { dst[key] = string(b) }
	dst["${Cull}"], dst["${ZTest}"], dst["${ZWrite}"], dst["${Blending}"], dst["${BlendOp}"], dst["${ColorMask}"] = "", "", "", "", "", ""
	if rs.Cull != nil {
		if b, err = AppendCull(b[:0], *rs.Cull); err != nil {
			return err
		}
		set("${Cull}", b)
	}
	if rs.ZTest != nil {
		if b, err = AppendZTest(b[:0], *rs.ZTest); err != nil {
			return err
		}
		set("${ZTest}", b)
	}
	if rs.ZWrite != nil {
		set("${ZWrite}", AppendZWrite(b[:0], *rs.ZWrite))
	}
	if rs.Blend != nil {
		if b, err = AppendBlend(b[:0], *rs.Blend); err != nil {
			return err
		}
		set("${Blending}", b)
	}
	if rs.BlendOp != nil {
		if b, err = AppendBlendOp(b[:0], *rs.BlendOp); err != nil {
			return err
		}
		set("${BlendOp}", b)
	}
	if rs.ColorMask != nil {
		set("${ColorMask}", AppendColorMask(b[:0], *rs.ColorMask))
	}
	dst["${Stencil}"] = rs.Stencil
	return nil
}
