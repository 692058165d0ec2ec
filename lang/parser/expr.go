package parser

import (
	"go/token"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/scanner"
)

// binopPriority gives each binary operator's left/right binding power for
// precedence climbing, following SysY's LOrExp > LAndExp > EqExp > RelExp >
// AddExp > MulExp grammar tiers.
var binopPriority = map[scanner.Token]struct{ left, right int }{
	scanner.LOR:     {1, 1},
	scanner.LAND:    {2, 2},
	scanner.EQL:     {3, 3},
	scanner.NEQ:     {3, 3},
	scanner.LT:      {4, 4},
	scanner.LE:      {4, 4},
	scanner.GT:      {4, 4},
	scanner.GE:      {4, 4},
	scanner.PLUS:    {5, 5},
	scanner.MINUS:   {5, 5},
	scanner.STAR:    {6, 6},
	scanner.SLASH:   {6, 6},
	scanner.PERCENT: {6, 6},
}

const unaryPriority = 7

func (p *parser) parseExp() ast.Expr {
	return p.parseSubExp(0)
}

func isUnaryOp(tok scanner.Token) bool {
	return tok == scanner.PLUS || tok == scanner.MINUS || tok == scanner.NOT
}

var unaryOpKind = map[scanner.Token]ast.UnaryOp{
	scanner.PLUS:  ast.UnaryPlus,
	scanner.MINUS: ast.UnaryMinus,
	scanner.NOT:   ast.UnaryNot,
}

var binaryOpKind = map[scanner.Token]ast.BinaryOp{
	scanner.LOR:     ast.LOr,
	scanner.LAND:    ast.LAnd,
	scanner.EQL:     ast.Eq,
	scanner.NEQ:     ast.Ne,
	scanner.LT:      ast.Lt,
	scanner.LE:      ast.Le,
	scanner.GT:      ast.Gt,
	scanner.GE:      ast.Ge,
	scanner.PLUS:    ast.Add,
	scanner.MINUS:   ast.Sub,
	scanner.STAR:    ast.Mul,
	scanner.SLASH:   ast.Div,
	scanner.PERCENT: ast.Mod,
}

func (p *parser) parseSubExp(limit int) ast.Expr {
	var left ast.Expr
	if isUnaryOp(p.tok()) {
		at := p.pos()
		op := unaryOpKind[p.tok()]
		p.advance()
		operand := p.parseSubExp(unaryPriority)
		left = &ast.UnaryExpr{OpPos: at, Op: op, X: operand}
	} else {
		left = p.parsePrimaryExp()
	}

	for {
		pr, ok := binopPriority[p.tok()]
		if !ok || pr.left <= limit {
			break
		}
		at := p.pos()
		op := binaryOpKind[p.tok()]
		p.advance()
		right := p.parseSubExp(pr.right)
		left = &ast.BinaryExpr{OpPos: at, Op: op, L: left, R: right}
	}
	return left
}

// parsePrimaryExp parses a Number, '(' Exp ')', an LVal or a function call.
func (p *parser) parsePrimaryExp() ast.Expr {
	switch p.tok() {
	case scanner.LPAREN:
		p.advance()
		e := p.parseExp()
		p.expect(scanner.RPAREN)
		return e

	case scanner.INT:
		at := p.pos()
		v := int(p.cur.Int)
		p.advance()
		return &ast.NumberExpr{At: at, Value: v}

	case scanner.IDENT:
		identAt := p.pos()
		ident := p.cur.Lit
		p.advance()
		if p.tok() == scanner.LPAREN {
			return p.parseCallExp(ident, identAt)
		}
		lval := &ast.LVal{Ident: ident, IdentAt: identAt}
		for p.tok() == scanner.LBRACK {
			p.advance()
			lval.Indices = append(lval.Indices, p.parseExp())
			p.expect(scanner.RBRACK)
		}
		return lval

	default:
		p.errorExpected(p.pos(), "expression")
		return &ast.NumberExpr{At: p.pos()}
	}
}

func (p *parser) parseCallExp(ident string, identAt token.Pos) *ast.CallExpr {
	p.expect(scanner.LPAREN)
	call := &ast.CallExpr{Ident: ident, IdentAt: identAt}
	if p.tok() != scanner.RPAREN {
		call.Args = append(call.Args, p.parseExp())
		for p.tok() == scanner.COMMA {
			p.advance()
			call.Args = append(call.Args, p.parseExp())
		}
	}
	p.expect(scanner.RPAREN)
	return call
}
