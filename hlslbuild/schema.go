package hlslbuild

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
)

// Field describes one member of a generated struct.
type Field struct {
	// Name of the member, unique within its struct.
	Name string
	// Width is the float vector width 1..4. Zero requires Type to be set.
	Width int
	// Type overrides the synthesized float vector type, i.e. "float3x3" or "FRONT_FACE_TYPE".
	Type string
	// Semantic binds the member to a fixed hardware input/output, i.e. "NORMAL" or "SV_Position".
	// Fields with a semantic are never packed into shared interpolators.
	Semantic string
	// Optional fields are only emitted when active.
	Optional bool
	// Guard is a preprocessor condition wrapping the declaration and every
	// pack/unpack line of the field.
	Guard string
	// NoInterpolation marks the field as constant across a primitive (flat shading).
	NoInterpolation bool
}

// TypeName returns the HLSL type of the field.
func (f Field) TypeName() string {
	if f.Type != "" {
		return f.Type
	}
	return TypeName(f.Width)
}

// packable reports whether the field is eligible for interpolator packing.
func (f Field) packable() bool {
	return f.Semantic == "" && f.Type == "" && f.Width > 0
}

// Struct is an ordered list of field descriptors. It replaces runtime
// reflection over struct declarations with an explicit schema table.
type Struct struct {
	Name   string
	Fields []Field
}

// Qualified returns the fully qualified field name "Struct.field".
func (s Struct) Qualified(field string) string {
	return s.Name + "." + field
}

// Field returns the field named name.
func (s Struct) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsActive reports whether f must be emitted for the active field set.
// Required fields are always active.
func (s Struct) IsActive(f Field, active FieldSet) bool {
	return !f.Optional || active.Has(s.Qualified(f.Name))
}

// Validate checks the schema for duplicate names, invalid widths and
// identifiers reserved by HLSL.
func (s Struct) Validate() error {
	if s.Name == "" {
		return errors.New("struct with empty name")
	} else if hlsl.IsReserved(s.Name) {
		return fmt.Errorf("struct name %q is a reserved HLSL identifier", s.Name)
	}
	var errs []error
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		switch {
		case f.Name == "":
			errs = append(errs, fmt.Errorf("%s: field with empty name", s.Name))
			continue
		case hlsl.IsReserved(f.Name) || hlsl.IsCaseInsensitiveReserved(f.Name):
			errs = append(errs, fmt.Errorf("%s: field name %q is a reserved HLSL identifier", s.Name, f.Name))
		case f.Width < 0 || f.Width > 4:
			errs = append(errs, fmt.Errorf("%s.%s: width %d outside of 0..4", s.Name, f.Name, f.Width))
		case f.Width == 0 && f.Type == "":
			errs = append(errs, fmt.Errorf("%s.%s: zero width requires explicit type", s.Name, f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate field %q", s.Name, f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

// BuiltinSemantic returns the system value semantic of a builtin, i.e. "SV_Position".
func BuiltinSemantic(b ir.BuiltinValue) string {
	return hlsl.BuiltInToSemantic(b)
}

// noInterpolationModifier is the HLSL modifier for flat shaded members.
var noInterpolationModifier = hlsl.InterpolationToHLSL(ir.InterpolationFlat)
