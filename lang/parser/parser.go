// Package parser implements a recursive-descent parser that turns SysY
// source text into a lang/ast tree.
package parser

import (
	"errors"
	"go/token"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/scanner"
)

// ParseFile parses a single SysY source file and returns its AST. The
// returned error, if non-nil, is a scanner.ErrorList.
func ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.CompUnit, error) {
	var p parser
	p.init(fset, filename, src)
	cu := p.parseCompUnit()
	p.errors.Sort()
	return cu, p.errors.Err()
}

type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File

	cur scanner.TokenValue
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, -1, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.cur = p.scanner.Scan()
}

func (p *parser) tok() scanner.Token { return p.cur.Tok }
func (p *parser) pos() token.Pos     { return p.cur.Pos }

var errPanicMode = errors.New("parser panic mode")

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

func (p *parser) errorExpected(pos token.Pos, want string) {
	msg := "expected " + want
	if pos == p.cur.Pos {
		if p.cur.Lit != "" {
			msg += ", found " + p.cur.Lit
		} else {
			msg += ", found " + p.cur.Tok.String()
		}
	}
	p.error(pos, msg)
	panic(errPanicMode)
}

// expect consumes the current token if it matches tok, recording an error
// and entering panic mode (recovered at the nearest statement boundary)
// otherwise.
func (p *parser) expect(tok scanner.Token) token.Pos {
	pos := p.pos()
	if p.tok() != tok {
		p.errorExpected(pos, tok.String())
	}
	p.advance()
	return pos
}

// syncToStmt recovers from panic mode by skipping tokens up to the next
// statement boundary (';', '}' or EOF), mirroring how a single malformed
// statement is discarded without losing the rest of the function body.
func (p *parser) syncToStmt() {
	for {
		switch p.tok() {
		case scanner.SEMI:
			p.advance()
			return
		case scanner.RBRACE, scanner.EOF:
			return
		}
		p.advance()
	}
}

func (p *parser) recoverStmt(dst *ast.Stmt) {
	if r := recover(); r != nil {
		if r != errPanicMode {
			panic(r)
		}
		p.syncToStmt()
		*dst = &ast.ExprStmt{At: p.pos()}
	}
}

// parseCompUnit parses { Decl | FuncDef } EOF.
func (p *parser) parseCompUnit() *ast.CompUnit {
	cu := &ast.CompUnit{}
	for p.tok() != scanner.EOF {
		item := p.parseTopLevel()
		if item != nil {
			cu.Items = append(cu.Items, item)
		}
	}
	return cu
}

func (p *parser) parseTopLevel() (item ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.syncToStmt()
			item = nil
		}
	}()

	if p.tok() == scanner.CONST {
		return p.parseConstDecl()
	}

	// both VarDecl and FuncDef start with a type keyword (int|void) then an
	// identifier; disambiguate on whether '(' follows the identifier.
	retVoid := p.tok() == scanner.VOID
	if p.tok() != scanner.INT_KW && p.tok() != scanner.VOID {
		p.errorExpected(p.pos(), "'const', 'int' or 'void'")
	}
	typeAt := p.pos()
	p.advance()

	identAt := p.pos()
	ident := p.cur.Lit
	p.expect(scanner.IDENT)

	if p.tok() == scanner.LPAREN {
		return p.parseFuncDef(typeAt, retVoid, ident, identAt)
	}
	if retVoid {
		p.error(typeAt, "'void' is not a valid variable type")
	}
	return p.parseVarDeclRest(typeAt, ident, identAt)
}

func (p *parser) parseConstDecl() *ast.ConstDecl {
	at := p.expect(scanner.CONST)
	p.expect(scanner.INT_KW)
	d := &ast.ConstDecl{At: at}
	d.Defs = append(d.Defs, p.parseConstDef())
	for p.tok() == scanner.COMMA {
		p.advance()
		d.Defs = append(d.Defs, p.parseConstDef())
	}
	p.expect(scanner.SEMI)
	return d
}

func (p *parser) parseConstDef() *ast.Def {
	identAt := p.pos()
	ident := p.cur.Lit
	p.expect(scanner.IDENT)
	def := &ast.Def{Ident: ident, IdentAt: identAt}
	for p.tok() == scanner.LBRACK {
		p.advance()
		def.Dims = append(def.Dims, p.parseConstExp())
		p.expect(scanner.RBRACK)
	}
	p.expect(scanner.ASSIGN)
	def.Init = p.parseInitVal()
	return def
}

func (p *parser) parseVarDeclRest(typeAt token.Pos, firstIdent string, firstIdentAt token.Pos) *ast.VarDecl {
	d := &ast.VarDecl{At: typeAt}
	d.Defs = append(d.Defs, p.parseVarDefRest(firstIdent, firstIdentAt))
	for p.tok() == scanner.COMMA {
		p.advance()
		identAt := p.pos()
		ident := p.cur.Lit
		p.expect(scanner.IDENT)
		d.Defs = append(d.Defs, p.parseVarDefRest(ident, identAt))
	}
	p.expect(scanner.SEMI)
	return d
}

func (p *parser) parseVarDefRest(ident string, identAt token.Pos) *ast.Def {
	def := &ast.Def{Ident: ident, IdentAt: identAt}
	for p.tok() == scanner.LBRACK {
		p.advance()
		def.Dims = append(def.Dims, p.parseConstExp())
		p.expect(scanner.RBRACK)
	}
	if p.tok() == scanner.ASSIGN {
		p.advance()
		def.Init = p.parseInitVal()
	}
	return def
}

func (p *parser) parseInitVal() *ast.InitVal {
	if p.tok() != scanner.LBRACE {
		return &ast.InitVal{Scalar: p.parseExp()}
	}
	lbrace := p.expect(scanner.LBRACE)
	iv := &ast.InitVal{LBrace: lbrace}
	if p.tok() != scanner.RBRACE {
		iv.Items = append(iv.Items, p.parseInitVal())
		for p.tok() == scanner.COMMA {
			p.advance()
			iv.Items = append(iv.Items, p.parseInitVal())
		}
	}
	p.expect(scanner.RBRACE)
	return iv
}

func (p *parser) parseFuncDef(at token.Pos, retVoid bool, ident string, identAt token.Pos) *ast.FuncDef {
	fd := &ast.FuncDef{At: at, RetVoid: retVoid, Ident: ident, IdentAt: identAt}
	p.expect(scanner.LPAREN)
	if p.tok() != scanner.RPAREN {
		fd.Params = append(fd.Params, p.parseFuncParam())
		for p.tok() == scanner.COMMA {
			p.advance()
			fd.Params = append(fd.Params, p.parseFuncParam())
		}
	}
	p.expect(scanner.RPAREN)
	fd.Body = p.parseBlock()
	return fd
}

func (p *parser) parseFuncParam() *ast.FuncParam {
	p.expect(scanner.INT_KW)
	identAt := p.pos()
	ident := p.cur.Lit
	p.expect(scanner.IDENT)
	param := &ast.FuncParam{Ident: ident, IdentAt: identAt}
	if p.tok() == scanner.LBRACK {
		param.IsArray = true
		p.advance()
		p.expect(scanner.RBRACK) // first dimension is always empty: int a[]
		for p.tok() == scanner.LBRACK {
			p.advance()
			param.ExtraDims = append(param.ExtraDims, p.parseConstExp())
			p.expect(scanner.RBRACK)
		}
	}
	return param
}

func (p *parser) parseBlock() *ast.Block {
	lbrace := p.expect(scanner.LBRACE)
	b := &ast.Block{LBrace: lbrace}
	for p.tok() != scanner.RBRACE && p.tok() != scanner.EOF {
		b.Items = append(b.Items, p.parseBlockItem())
	}
	b.RBrace = p.expect(scanner.RBRACE)
	return b
}

func (p *parser) parseBlockItem() (stmt ast.Stmt) {
	defer p.recoverStmt(&stmt)

	switch p.tok() {
	case scanner.CONST:
		return p.parseConstDecl()
	case scanner.INT_KW:
		at := p.pos()
		p.advance()
		identAt := p.pos()
		ident := p.cur.Lit
		p.expect(scanner.IDENT)
		return p.parseVarDeclRestAt(at, ident, identAt)
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseVarDeclRestAt(at token.Pos, firstIdent string, firstIdentAt token.Pos) *ast.VarDecl {
	d := p.parseVarDeclRest(at, firstIdent, firstIdentAt)
	return d
}

func (p *parser) parseStmt() (stmt ast.Stmt) {
	defer p.recoverStmt(&stmt)

	switch p.tok() {
	case scanner.SEMI:
		at := p.pos()
		p.advance()
		return &ast.ExprStmt{At: at}

	case scanner.LBRACE:
		return p.parseBlock()

	case scanner.IF:
		return p.parseIfStmt()

	case scanner.WHILE:
		return p.parseWhileStmt()

	case scanner.BREAK:
		at := p.expect(scanner.BREAK)
		p.expect(scanner.SEMI)
		return &ast.BreakStmt{At: at}

	case scanner.CONTINUE:
		at := p.expect(scanner.CONTINUE)
		p.expect(scanner.SEMI)
		return &ast.ContinueStmt{At: at}

	case scanner.RETURN:
		at := p.expect(scanner.RETURN)
		var e ast.Expr
		if p.tok() != scanner.SEMI {
			e = p.parseExp()
		}
		p.expect(scanner.SEMI)
		return &ast.ReturnStmt{At: at, Expr: e}

	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	at := p.expect(scanner.IF)
	p.expect(scanner.LPAREN)
	cond := p.parseExp()
	p.expect(scanner.RPAREN)
	then := p.parseStmt()
	n := &ast.IfStmt{At: at, Cond: cond, Then: then}
	if p.tok() == scanner.ELSE {
		p.advance()
		n.Else = p.parseStmt()
	}
	return n
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	at := p.expect(scanner.WHILE)
	p.expect(scanner.LPAREN)
	cond := p.parseExp()
	p.expect(scanner.RPAREN)
	body := p.parseStmt()
	return &ast.WhileStmt{At: at, Cond: cond, Body: body}
}

// parseSimpleStmt disambiguates "lval = exp ;" from a bare "exp ;" by
// parsing the leading expression first and checking what follows; LVal is a
// syntactic subset of Exp (a primary expression with no trailing operators),
// so an assignment's target always parses back out as *ast.LVal.
func (p *parser) parseSimpleStmt() ast.Stmt {
	at := p.pos()
	e := p.parseExp()
	if p.tok() == scanner.ASSIGN {
		lval, ok := e.(*ast.LVal)
		if !ok {
			p.error(at, "left-hand side of assignment must be an identifier or array element")
		}
		p.advance()
		rhs := p.parseExp()
		p.expect(scanner.SEMI)
		return &ast.AssignStmt{At: at, LVal: lval, RHS: rhs}
	}
	p.expect(scanner.SEMI)
	return &ast.ExprStmt{At: at, Expr: e}
}

func (p *parser) parseConstExp() ast.Expr {
	return p.parseExp()
}
