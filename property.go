package gshader

import (
	"errors"
	"fmt"

	math "github.com/chewxy/math32"
	"github.com/gogpu/naga/hlsl"
	"github.com/soypat/gshader/hlslbuild"
)

// PropertyKind is the type of a material property.
type PropertyKind uint8

const (
	_ PropertyKind = iota
	PropertyFloat
	PropertyColor
	PropertyVector
	PropertyTexture2D
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyFloat:
		return "Float"
	case PropertyColor:
		return "Color"
	case PropertyVector:
		return "Vector"
	case PropertyTexture2D:
		return "2D"
	}
	return fmt.Sprintf("PropertyKind(%d)", uint8(k))
}

// Property is a material parameter exposed by a graph. It is declared in the
// ShaderLab Properties block and in the material constant buffer.
type Property struct {
	// Name is the HLSL identifier, conventionally prefixed with an underscore, i.e. "_BaseColor".
	Name string
	// Display is the name shown in material inspectors. Defaults to Name.
	Display string
	Kind    PropertyKind
	// Default value. Float uses only the first component. Ignored for textures.
	Default [4]float32
}

// Width returns the vector width of the property's value. Textures have zero width.
func (p Property) Width() int {
	switch p.Kind {
	case PropertyFloat:
		return 1
	case PropertyColor, PropertyVector:
		return 4
	}
	return 0
}

// Validate checks the property name is a usable HLSL identifier and its kind is known.
func (p Property) Validate() error {
	if p.Name == "" {
		return errors.New("property with empty name")
	}
	for i, c := range p.Name {
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return fmt.Errorf("property name %q is not an identifier", p.Name)
	}
	if hlsl.IsReserved(p.Name) {
		return fmt.Errorf("property name %q is a reserved HLSL identifier", p.Name)
	}
	if p.Kind < PropertyFloat || p.Kind > PropertyTexture2D {
		return fmt.Errorf("property %q: invalid kind %d", p.Name, p.Kind)
	}
	for _, v := range p.Default {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("property %q: default %v is not finite", p.Name, p.Default)
		}
	}
	return nil
}

// AppendPropertyDecl appends the ShaderLab Properties block line of p, i.e.
//
//	_BaseColor("Base Color", Color) = (1,1,1,1)
func (p Property) AppendPropertyDecl(b []byte) []byte {
	display := p.Display
	if display == "" {
		display = p.Name
	}
	b = append(b, p.Name...)
	b = append(b, "(\""...)
	b = append(b, display...)
	b = append(b, "\", "...)
	b = append(b, p.Kind.String()...)
	b = append(b, ") = "...)
	switch p.Kind {
	case PropertyFloat:
		b = hlslbuild.AppendFloat(b, p.Default[0])
	case PropertyColor, PropertyVector:
		b = append(b, '(')
		b = hlslbuild.AppendFloats(b, ",", p.Default[:]...)
		b = append(b, ')')
	case PropertyTexture2D:
		b = append(b, `"white" {}`...)
	}
	return b
}

// AppendUniformDecl appends the HLSL declaration of p. Textures declare
// their texture and sampler objects with the TEXTURE2D and SAMPLER macros.
func (p Property) AppendUniformDecl(b []byte) []byte {
	if p.Kind == PropertyTexture2D {
		b = append(b, "TEXTURE2D("...)
		b = append(b, p.Name...)
		b = append(b, ");\nSAMPLER(sampler"...)
		b = append(b, p.Name...)
		b = append(b, ");\n"...)
		return b
	}
	b = append(b, hlslbuild.TypeName(p.Width())...)
	b = append(b, ' ')
	b = append(b, p.Name...)
	b = append(b, ";\n"...)
	return b
}
