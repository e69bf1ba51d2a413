package gshader

import (
	"errors"
	"fmt"
	"slices"
)

// Node is a single operation of a shader graph. Nodes generate HLSL that
// evaluates to a float vector value stored in a local variable.
type Node interface {
	// AppendNodeName appends the name of the HLSL variable holding the node's output
	// to the buffer and returns the result. It should be unique to that node.
	AppendNodeName(b []byte) []byte
	// AppendNodeBody appends the HLSL expression computing the node's output.
	// Inputs are referenced by their node names.
	AppendNodeBody(b []byte) []byte
	// OutputWidth returns the vector width (1..4) of the node's output.
	OutputWidth() int
	// ForEachInput iterates over the node's direct inputs.
	ForEachInput(fn func(in *Node) error) error
	// Requirements returns the mesh and pixel quantities the node reads directly.
	Requirements() Requirements
}

// SlotID identifies an output slot of a graph's master node.
type SlotID int

// Master node slots of the lit surface.
const (
	SlotAlbedo SlotID = iota
	SlotNormal
	SlotMetallic
	SlotSmoothness
	SlotOcclusion
	SlotEmission
	SlotAlpha
	SlotAlphaClipThreshold
	SlotDistortion
	SlotVertexPosition
	SlotVertexNormal
	SlotVertexTangent
	numSlots
)

// SlotInfo describes a master node slot.
type SlotInfo struct {
	// Name is the member name in the generated description struct.
	Name string
	// Width is the vector width of the member.
	Width int
	// Default is the HLSL expression used when the slot is unconnected.
	// Empty means the slot is omitted when unconnected.
	Default string
	// Vertex is true for slots evaluated in the vertex stage.
	Vertex bool
}

var slotInfos = [numSlots]SlotInfo{
	SlotAlbedo:             {Name: "Albedo", Width: 3, Default: "float3(0.5, 0.5, 0.5)"},
	SlotNormal:             {Name: "Normal", Width: 3, Default: "float3(0, 0, 1)"},
	SlotMetallic:           {Name: "Metallic", Width: 1, Default: "0"},
	SlotSmoothness:         {Name: "Smoothness", Width: 1, Default: "0.5"},
	SlotOcclusion:          {Name: "Occlusion", Width: 1, Default: "1"},
	SlotEmission:           {Name: "Emission", Width: 3, Default: "float3(0, 0, 0)"},
	SlotAlpha:              {Name: "Alpha", Width: 1, Default: "1"},
	SlotAlphaClipThreshold: {Name: "AlphaClipThreshold", Width: 1, Default: "0.5"},
	SlotDistortion:         {Name: "Distortion", Width: 2, Default: "float2(0, 0)"},
	SlotVertexPosition:     {Name: "Position", Width: 3, Vertex: true},
	SlotVertexNormal:       {Name: "Normal", Width: 3, Vertex: true},
	SlotVertexTangent:      {Name: "Tangent", Width: 3, Vertex: true},
}

// Info returns the slot's description. Unknown slots return the zero SlotInfo.
func (id SlotID) Info() SlotInfo {
	if id < 0 || id >= numSlots {
		return SlotInfo{}
	}
	return slotInfos[id]
}

func (id SlotID) String() string {
	info := id.Info()
	if info.Name == "" {
		return fmt.Sprintf("SlotID(%d)", int(id))
	}
	if info.Vertex {
		return "Vertex" + info.Name
	}
	return info.Name
}

// Graph is a shader graph: a set of master node slots, each connected to the
// root of a node tree, and the material properties exposed by the graph.
type Graph struct {
	slots [numSlots]Node
	props []Property
}

// SetSlot connects node to the master slot id. Passing a nil node disconnects the slot.
func (g *Graph) SetSlot(id SlotID, node Node) error {
	info := id.Info()
	if info.Name == "" {
		return fmt.Errorf("unknown slot %d", int(id))
	}
	if node != nil {
		w := node.OutputWidth()
		if w != 1 && w < info.Width {
			return fmt.Errorf("slot %s requires width %d, got node with width %d", id, info.Width, w)
		}
	}
	g.slots[id] = node
	return nil
}

// Slot returns the node connected to slot id or nil if unconnected.
func (g *Graph) Slot(id SlotID) Node {
	if id < 0 || id >= numSlots {
		return nil
	}
	return g.slots[id]
}

// AddProperty exposes a material property. Properties with a repeated name are rejected.
func (g *Graph) AddProperty(p Property) error {
	err := p.Validate()
	if err != nil {
		return err
	}
	for _, existing := range g.props {
		if existing.Name == p.Name {
			if existing == p {
				return nil
			}
			return fmt.Errorf("conflicting property %q", p.Name)
		}
	}
	g.props = append(g.props, p)
	return nil
}

// Properties returns the graph's exposed properties in declaration order.
func (g *Graph) Properties() []Property {
	return slices.Clone(g.props)
}

var errNilInput = errors.New("got nil node input in AppendActiveNodes")

// AppendActiveNodes BFS iterates over all nodes reachable from the argument slots
// (including the slot roots) and appends them to dst. Each node is appended once
// even if reachable through several paths. Unconnected slots are skipped.
//
// To generate code one must iterate over nodes in reverse order to ensure
// the first iterated nodes are the nodes with no dependencies on other nodes.
func (g *Graph) AppendActiveNodes(dst []Node, slots ...SlotID) ([]Node, error) {
	var children []Node
	for _, id := range slots {
		if n := g.Slot(id); n != nil {
			children = append(children, n)
		}
	}
	return AppendAllNodes(dst, children...)
}

// AppendAllNodes BFS iterates over all of the roots' descendants and appends
// all distinct nodes found to dst, roots included.
func AppendAllNodes(dst []Node, roots ...Node) ([]Node, error) {
	found := make(map[Node]struct{})
	children := make([]Node, 0, len(roots))
	for _, root := range roots {
		if root == nil {
			return dst, errNilInput
		}
		if _, skip := found[root]; skip {
			continue
		}
		found[root] = struct{}{}
		children = append(children, root)
	}
	nextChild := 0
	for len(children[nextChild:]) > 0 {
		newChildren := children[nextChild:]
		for _, obj := range newChildren {
			nextChild++
			err := obj.ForEachInput(func(in *Node) error {
				if in == nil || *in == nil {
					return errNilInput
				}
				if _, skip := found[*in]; skip {
					return nil
				}
				found[*in] = struct{}{}
				children = append(children, *in)
				return nil
			})
			if err != nil {
				return dst, err
			}
		}
	}
	// Reposition nodes so that every node appears after all nodes that use it.
	children = sortUsersFirst(children)
	dst = append(dst, children...)
	return dst, nil
}

// sortUsersFirst orders nodes such that a node is placed after every node
// that references it as input. BFS order alone does not guarantee this when a
// node is shared by branches of different depth.
func sortUsersFirst(nodes []Node) []Node {
	depth := make(map[Node]int, len(nodes))
	for _, n := range nodes {
		depth[n] = 0
	}
	// Longest path from any root. Graphs are acyclic so this converges in at most len(nodes) rounds.
	for changed, rounds := true, 0; changed && rounds <= len(nodes); rounds++ {
		changed = false
		for _, n := range nodes {
			d := depth[n]
			n.ForEachInput(func(in *Node) error {
				if depth[*in] < d+1 {
					depth[*in] = d + 1
					changed = true
				}
				return nil
			})
		}
	}
	slices.SortStableFunc(nodes, func(a, b Node) int { return depth[a] - depth[b] })
	return nodes
}

// RequirementsOf returns the union of the requirements of nodes.
func RequirementsOf(nodes []Node) (req Requirements) {
	for _, n := range nodes {
		req = req.Union(n.Requirements())
	}
	return req
}
