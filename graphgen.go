package gshader

import (
	"bytes"
	"fmt"

	"github.com/soypat/gshader/hlslbuild"
)

// GraphFunction names a generated graph evaluation function and its input and output structs.
type GraphFunction struct {
	Name   string
	Input  string
	Output string
}

// Graph evaluation functions of the lit surface.
var (
	SurfaceFunction = GraphFunction{Name: "PopulateSurfaceData", Input: "GraphInputs", Output: "SurfaceDescription"}
	VertexFunction  = GraphFunction{Name: "PopulateVertexData", Input: "GraphInputs", Output: "VertexDescription"}
)

// AppendFunction appends the HLSL function evaluating the argument slots of g.
// Nodes are declared as local variables in dependency order; nodes with the
// same name and body are declared once. Unconnected slots are assigned their
// default value, unconnected vertex slots are not assigned.
//
//	SurfaceDescription PopulateSurfaceData(GraphInputs IN)
//	{
//		SurfaceDescription output = (SurfaceDescription)0;
//		float4 inuv0 = IN.uv0;
//		output.Albedo = inuv0.xyz;
//		return output;
//	}
func (g *Graph) AppendFunction(dst []byte, fn GraphFunction, slots ...SlotID) ([]byte, error) {
	nodes, err := g.AppendActiveNodes(nil, slots...)
	if err != nil {
		return dst, err
	}
	dst = append(dst, fn.Output...)
	dst = append(dst, ' ')
	dst = append(dst, fn.Name...)
	dst = append(dst, '(')
	dst = append(dst, fn.Input...)
	dst = append(dst, " IN)\n{\n\t"...)
	dst = append(dst, fn.Output...)
	dst = append(dst, " output = ("...)
	dst = append(dst, fn.Output...)
	dst = append(dst, ")0;\n"...)

	declared := make(map[string][]byte)
	var scratch []byte
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		scratch = node.AppendNodeName(scratch[:0])
		name := string(scratch)
		scratch = node.AppendNodeBody(scratch[:0])
		if body, ok := declared[name]; ok {
			if !bytes.Equal(body, scratch) {
				return dst, fmt.Errorf("duplicate node name %q with different bodies:\n%s\n%s", name, body, scratch)
			}
			continue
		}
		declared[name] = append([]byte{}, scratch...)
		dst = append(dst, '\t')
		dst = append(dst, hlslbuild.TypeName(node.OutputWidth())...)
		dst = append(dst, ' ')
		dst = append(dst, name...)
		dst = append(dst, " = "...)
		dst = append(dst, scratch...)
		dst = append(dst, ";\n"...)
	}

	for _, id := range slots {
		info := id.Info()
		node := g.Slot(id)
		if node == nil && info.Default == "" {
			continue
		}
		dst = append(dst, "\toutput."...)
		dst = append(dst, info.Name...)
		dst = append(dst, " = "...)
		if node == nil {
			dst = append(dst, info.Default...)
		} else {
			dst = node.AppendNodeName(dst)
			if w := node.OutputWidth(); w > info.Width {
				dst = append(dst, '.')
				dst = hlslbuild.AppendSwizzle(dst, 0, info.Width)
			}
		}
		dst = append(dst, ";\n"...)
	}
	dst = append(dst, "\treturn output;\n}\n"...)
	return dst, nil
}

// HasVertexSlots reports whether any of the argument vertex slots is connected.
func (g *Graph) HasVertexSlots(slots ...SlotID) bool {
	for _, id := range slots {
		if id.Info().Vertex && g.Slot(id) != nil {
			return true
		}
	}
	return false
}

// AllProperties returns the declared properties of g followed by the
// properties read by nodes reachable from slots that were not declared.
// Properties sharing a name must be identical.
func (g *Graph) AllProperties(slots ...SlotID) ([]Property, error) {
	props := g.Properties()
	nodes, err := g.AppendActiveNodes(nil, slots...)
	if err != nil {
		return nil, err
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		reader, ok := nodes[i].(PropertyReader)
		if !ok {
			continue
		}
		p := reader.ReadProperty()
		found := false
		for _, existing := range props {
			if existing.Name != p.Name {
				continue
			}
			if existing != p {
				return nil, fmt.Errorf("conflicting property %q", p.Name)
			}
			found = true
			break
		}
		if !found {
			props = append(props, p)
		}
	}
	return props, nil
}

// AllSlots returns every master node slot id in declaration order.
func AllSlots() []SlotID {
	slots := make([]SlotID, numSlots)
	for i := range slots {
		slots[i] = SlotID(i)
	}
	return slots
}
