package hlsllib

import (
	"strconv"

	"github.com/soypat/gshader"
	"github.com/soypat/gshader/hlslbuild"
)

func dep(name, dependsOn string) hlslbuild.Dependency {
	return hlslbuild.Dependency{Name: name, DependsOn: dependsOn}
}

func q(structName, field string) string { return structName + "." + field }

// VaryingsMeshToPSStandard is the VaryingsMeshToPS dependency table used
// when the vertex stage writes the pixel stage varyings directly.
var VaryingsMeshToPSStandard = func() []hlslbuild.Dependency {
	deps := []hlslbuild.Dependency{
		dep(q(NameVaryingsMeshToPS, "positionRWS"), q(NameAttributesMesh, "positionOS")),
		dep(q(NameVaryingsMeshToPS, "normalWS"), q(NameAttributesMesh, "normalOS")),
		dep(q(NameVaryingsMeshToPS, "tangentWS"), q(NameAttributesMesh, "tangentOS")),
	}
	for i := 0; i < numUVs; i++ {
		n := strconv.Itoa(i)
		deps = append(deps, dep(q(NameVaryingsMeshToPS, "texCoord"+n), q(NameAttributesMesh, "uv"+n)))
	}
	deps = append(deps, dep(q(NameVaryingsMeshToPS, "color"), q(NameAttributesMesh, "color")))
	return deps
}()

// VaryingsMeshToPSTessellation is the VaryingsMeshToPS dependency table used
// when the domain stage writes the pixel stage varyings.
var VaryingsMeshToPSTessellation = func() []hlslbuild.Dependency {
	deps := []hlslbuild.Dependency{
		dep(q(NameVaryingsMeshToPS, "positionRWS"), q(NameVaryingsMeshToDS, "positionRWS")),
		dep(q(NameVaryingsMeshToPS, "normalWS"), q(NameVaryingsMeshToDS, "normalWS")),
		dep(q(NameVaryingsMeshToPS, "tangentWS"), q(NameVaryingsMeshToDS, "tangentWS")),
	}
	for i := 0; i < numUVs; i++ {
		n := strconv.Itoa(i)
		deps = append(deps, dep(q(NameVaryingsMeshToPS, "texCoord"+n), q(NameVaryingsMeshToDS, "texCoord"+n)))
	}
	deps = append(deps, dep(q(NameVaryingsMeshToPS, "color"), q(NameVaryingsMeshToDS, "color")))
	return deps
}()

// VaryingsMeshToDSDeps is the VaryingsMeshToDS dependency table.
var VaryingsMeshToDSDeps = func() []hlslbuild.Dependency {
	deps := []hlslbuild.Dependency{
		dep(q(NameVaryingsMeshToDS, "normalWS"), q(NameAttributesMesh, "normalOS")),
		dep(q(NameVaryingsMeshToDS, "tangentWS"), q(NameAttributesMesh, "tangentOS")),
	}
	for i := 0; i < numUVs; i++ {
		n := strconv.Itoa(i)
		deps = append(deps, dep(q(NameVaryingsMeshToDS, "texCoord"+n), q(NameAttributesMesh, "uv"+n)))
	}
	deps = append(deps, dep(q(NameVaryingsMeshToDS, "color"), q(NameAttributesMesh, "color")))
	return deps
}()

// FragInputsDeps is the FragInputs dependency table.
var FragInputsDeps = func() []hlslbuild.Dependency {
	deps := []hlslbuild.Dependency{
		dep(q(NameFragInputs, "positionRWS"), q(NameVaryingsMeshToPS, "positionRWS")),
		dep(q(NameFragInputs, "worldToTangent"), q(NameVaryingsMeshToPS, "tangentWS")),
		dep(q(NameFragInputs, "worldToTangent"), q(NameVaryingsMeshToPS, "normalWS")),
	}
	for i := 0; i < numUVs; i++ {
		n := strconv.Itoa(i)
		deps = append(deps, dep(q(NameFragInputs, "texCoord"+n), q(NameVaryingsMeshToPS, "texCoord"+n)))
	}
	deps = append(deps,
		dep(q(NameFragInputs, "color"), q(NameVaryingsMeshToPS, "color")),
		dep(q(NameFragInputs, "isFrontFace"), q(NameVaryingsMeshToPS, "cullFace")),
	)
	return deps
}()

// GraphInputsDeps is the GraphInputs dependency table. Object and view space
// quantities derive from their world space counterpart.
var GraphInputsDeps = func() []hlslbuild.Dependency {
	gi := func(space gshader.CoordinateSpace, quantity string) string {
		return q(NameGraphInputs, GraphInputName(space, quantity))
	}
	var deps []hlslbuild.Dependency
	for _, quantity := range spaceQuantities {
		world := gi(gshader.SpaceWorld, quantity)
		deps = append(deps,
			dep(gi(gshader.SpaceObject, quantity), world),
			dep(gi(gshader.SpaceView, quantity), world),
		)
		switch quantity {
		case "Normal", "Tangent", "BiTangent":
			deps = append(deps, dep(world, q(NameFragInputs, "worldToTangent")))
		case "ViewDirection", "Position":
			deps = append(deps, dep(world, q(NameFragInputs, "positionRWS")))
		}
	}
	tangentView := gi(gshader.SpaceTangent, "ViewDirection")
	deps = append(deps,
		dep(tangentView, gi(gshader.SpaceWorld, "ViewDirection")),
		dep(tangentView, gi(gshader.SpaceWorld, "Normal")),
		dep(tangentView, gi(gshader.SpaceWorld, "Tangent")),
		dep(tangentView, gi(gshader.SpaceWorld, "BiTangent")),
		dep(q(NameGraphInputs, "ScreenPosition"), gi(gshader.SpaceWorld, "Position")),
	)
	for i := 0; i < numUVs; i++ {
		n := strconv.Itoa(i)
		deps = append(deps, dep(q(NameGraphInputs, "uv"+n), q(NameFragInputs, "texCoord"+n)))
	}
	deps = append(deps,
		dep(q(NameGraphInputs, "VertexColor"), q(NameFragInputs, "color")),
		dep(q(NameGraphInputs, "FaceSign"), q(NameFragInputs, "isFrontFace")),
	)
	return deps
}()

// VertexDescriptionDeps activates the mesh attributes a connected vertex slot writes back to.
var VertexDescriptionDeps = []hlslbuild.Dependency{
	dep(q(NameVertexDescription, "Normal"), q(NameAttributesMesh, "normalOS")),
	dep(q(NameVertexDescription, "Tangent"), q(NameAttributesMesh, "tangentOS")),
}

// DependencyTables returns the dependency tables of the pipeline. The
// VaryingsMeshToPS table depends on whether tessellation is enabled.
func DependencyTables(tessellation bool) [][]hlslbuild.Dependency {
	if tessellation {
		return [][]hlslbuild.Dependency{
			GraphInputsDeps, FragInputsDeps, VaryingsMeshToPSTessellation, VaryingsMeshToDSDeps, VertexDescriptionDeps,
		}
	}
	return [][]hlslbuild.Dependency{
		GraphInputsDeps, FragInputsDeps, VaryingsMeshToPSStandard, VertexDescriptionDeps,
	}
}

// Validate checks every schema and every dependency table of both pipeline
// variants for internal consistency.
func Validate() error {
	for _, tess := range []bool{false, true} {
		structs := Structs(tess)
		for _, s := range structs {
			if err := s.Validate(); err != nil {
				return err
			}
		}
		if err := hlslbuild.ValidateDependencies(structs, DependencyTables(tess)...); err != nil {
			return err
		}
	}
	return nil
}
