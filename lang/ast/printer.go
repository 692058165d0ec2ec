package ast

import (
	"fmt"
	"go/token"
	"io"
	"strings"
)

// Printer controls pretty-printing of the AST nodes.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Fset resolves positions to line:column text. If nil, positions are
	// omitted.
	Fset *token.FileSet
}

// Print pretty-prints n and every descendant, one indented line per node.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, fset: p.Fset}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w     io.Writer
	fset  *token.FileSet
	depth int
	err   error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}
	prefix := strings.Repeat(". ", indent)
	if p.fset != nil {
		_, p.err = fmt.Fprintf(p.w, "%s[%s] %v\n", prefix, p.fset.Position(n.Pos()), n)
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%v\n", prefix, n)
}
