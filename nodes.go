package gshader

import (
	"github.com/soypat/gshader/hlslbuild"
)

// PropertyReader is implemented by nodes that read a material property.
type PropertyReader interface {
	ReadProperty() Property
}

// inputNode reads a member of the graph input struct.
type inputNode struct {
	field string
	width int
	req   Requirements
}

func (in *inputNode) AppendNodeName(b []byte) []byte {
	b = append(b, "in"...)
	return append(b, in.field...)
}

func (in *inputNode) AppendNodeBody(b []byte) []byte {
	b = append(b, "IN."...)
	return append(b, in.field...)
}

func (in *inputNode) OutputWidth() int                      { return in.width }
func (in *inputNode) ForEachInput(func(in *Node) error) error { return nil }
func (in *inputNode) Requirements() Requirements            { return in.req }

type constant struct {
	v     [4]float32
	width int
}

func (c *constant) AppendNodeName(b []byte) []byte { return appendHashedName(b, "const", c) }
func (c *constant) AppendNodeBody(b []byte) []byte {
	return hlslbuild.AppendVectorLiteral(b, c.width, c.v)
}
func (c *constant) OutputWidth() int                        { return c.width }
func (c *constant) ForEachInput(func(in *Node) error) error { return nil }
func (c *constant) Requirements() Requirements              { return Requirements{} }

type binaryOp struct {
	op   byte
	a, b Node
}

func (bo *binaryOp) AppendNodeName(b []byte) []byte {
	kind := "add"
	if bo.op == '*' {
		kind = "mul"
	}
	return appendHashedName(b, kind, bo)
}

func (bo *binaryOp) AppendNodeBody(b []byte) []byte {
	b = bo.a.AppendNodeName(b)
	b = append(b, ' ', bo.op, ' ')
	return bo.b.AppendNodeName(b)
}

func (bo *binaryOp) OutputWidth() int { return max(bo.a.OutputWidth(), bo.b.OutputWidth()) }
func (bo *binaryOp) ForEachInput(fn func(in *Node) error) error {
	err := fn(&bo.a)
	if err != nil {
		return err
	}
	return fn(&bo.b)
}
func (bo *binaryOp) Requirements() Requirements { return Requirements{} }

type lerp struct {
	a, b, t Node
}

func (l *lerp) AppendNodeName(b []byte) []byte { return appendHashedName(b, "lerp", l) }
func (l *lerp) AppendNodeBody(b []byte) []byte {
	b = append(b, "lerp("...)
	b = l.a.AppendNodeName(b)
	b = append(b, ", "...)
	b = l.b.AppendNodeName(b)
	b = append(b, ", "...)
	b = l.t.AppendNodeName(b)
	return append(b, ')')
}
func (l *lerp) OutputWidth() int { return max(l.a.OutputWidth(), l.b.OutputWidth()) }
func (l *lerp) ForEachInput(fn func(in *Node) error) error {
	for _, in := range []*Node{&l.a, &l.b, &l.t} {
		if err := fn(in); err != nil {
			return err
		}
	}
	return nil
}
func (l *lerp) Requirements() Requirements { return Requirements{} }

type normalize struct {
	a Node
}

func (n *normalize) AppendNodeName(b []byte) []byte { return appendHashedName(b, "norm", n) }
func (n *normalize) AppendNodeBody(b []byte) []byte {
	b = append(b, "normalize("...)
	b = n.a.AppendNodeName(b)
	return append(b, ')')
}
func (n *normalize) OutputWidth() int                           { return n.a.OutputWidth() }
func (n *normalize) ForEachInput(fn func(in *Node) error) error { return fn(&n.a) }
func (n *normalize) Requirements() Requirements                 { return Requirements{} }

type swizzle struct {
	a          Node
	components string
}

func (s *swizzle) AppendNodeName(b []byte) []byte { return appendHashedName(b, "swz", s) }
func (s *swizzle) AppendNodeBody(b []byte) []byte {
	b = s.a.AppendNodeName(b)
	b = append(b, '.')
	return append(b, s.components...)
}
func (s *swizzle) OutputWidth() int                           { return len(s.components) }
func (s *swizzle) ForEachInput(fn func(in *Node) error) error { return fn(&s.a) }
func (s *swizzle) Requirements() Requirements                 { return Requirements{} }

type propertyNode struct {
	prop Property
}

func (p *propertyNode) AppendNodeName(b []byte) []byte {
	b = append(b, "prop"...)
	return append(b, p.prop.Name...)
}
func (p *propertyNode) AppendNodeBody(b []byte) []byte             { return append(b, p.prop.Name...) }
func (p *propertyNode) OutputWidth() int                           { return max(p.prop.Width(), 1) }
func (p *propertyNode) ForEachInput(fn func(in *Node) error) error { return nil }
func (p *propertyNode) Requirements() Requirements                 { return Requirements{} }
func (p *propertyNode) ReadProperty() Property                     { return p.prop }

type sampleTexture2D struct {
	tex Property
	uv  Node
}

func (s *sampleTexture2D) AppendNodeName(b []byte) []byte { return appendHashedName(b, "tex", s) }
func (s *sampleTexture2D) AppendNodeBody(b []byte) []byte {
	b = append(b, "SAMPLE_TEXTURE2D("...)
	b = append(b, s.tex.Name...)
	b = append(b, ", sampler"...)
	b = append(b, s.tex.Name...)
	b = append(b, ", "...)
	b = s.uv.AppendNodeName(b)
	return append(b, ".xy)"...)
}
func (s *sampleTexture2D) OutputWidth() int                           { return 4 }
func (s *sampleTexture2D) ForEachInput(fn func(in *Node) error) error { return fn(&s.uv) }
func (s *sampleTexture2D) Requirements() Requirements                 { return Requirements{} }
func (s *sampleTexture2D) ReadProperty() Property                     { return s.tex }
