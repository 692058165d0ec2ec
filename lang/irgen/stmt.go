package irgen

import (
	"fmt"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/ctx"
)

// emitBlockBody emits a function's top-level block directly into the
// already-open %entry block (no extra label; the caller opened %entry).
func (e *Emitter) emitBlockBody(b *ast.Block) {
	e.emitStmtList(b.Items)
}

// emitStmtList emits each statement in order. A statement that leaves
// e.c.Returned set (return, break or continue, or a block ending in one)
// has closed its current basic block with a terminator; since Koopa requires every instruction to
// live in some block, any statements still following it in source are
// unreachable but must still be placed somewhere, so a fresh
// while_remain_<k> label is opened to hold them, per the "preserve the
// label even when unreachable" compatibility rule.
func (e *Emitter) emitStmtList(stmts []ast.Stmt) {
	for i, s := range stmts {
		e.emitStmt(s)
		if e.c.Returned && i != len(stmts)-1 {
			e.label(fmt.Sprintf("while_remain_%d", e.c.NextRemain()))
			e.c.Returned = false
		}
	}
}

func (e *Emitter) emitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ConstDecl:
		e.emitLocalDecl(n.Defs)
	case *ast.VarDecl:
		e.emitLocalDecl(n.Defs)
	case *ast.Block:
		e.emitStmtList(n.Items)
	case *ast.AssignStmt:
		e.emitAssignStmt(n)
	case *ast.ExprStmt:
		if n.Expr != nil {
			e.emitExpr(n.Expr)
		}
	case *ast.IfStmt:
		e.emitIfStmt(n)
	case *ast.WhileStmt:
		e.emitWhileStmt(n)
	case *ast.BreakStmt:
		l, ok := e.c.CurrentLoop()
		if !ok {
			panic("irgen: break outside loop reached EMIT unchecked")
		}
		e.printf("  jump %%%s\n", l.End)
		e.c.Returned = true
	case *ast.ContinueStmt:
		l, ok := e.c.CurrentLoop()
		if !ok {
			panic("irgen: continue outside loop reached EMIT unchecked")
		}
		e.printf("  jump %%%s\n", l.Entry)
		e.c.Returned = true
	case *ast.ReturnStmt:
		e.emitReturnStmt(n)
	default:
		panic(fmt.Sprintf("irgen: unhandled statement type %T", s))
	}
}

func (e *Emitter) emitAssignStmt(n *ast.AssignStmt) {
	v := e.emitExpr(n.RHS)
	addr := e.emitLValAddr(n.LVal)
	e.printf("  store %s, %s\n", v, addr)
}

func (e *Emitter) emitReturnStmt(n *ast.ReturnStmt) {
	if n.Expr != nil {
		v := e.emitExpr(n.Expr)
		e.printf("  ret %s\n", v)
	} else {
		e.printf("  ret\n")
	}
	e.c.Returned = true
}

// emitIfStmt lowers "if (cond) then [else else_]" to a branch over two (or
// one) labeled blocks rejoining at a shared end label. The end label is
// still emitted even when both branches return, so every generated label
// is defined exactly once regardless of reachability. e.c.Returned is
// cleared afterwards, so the statements that follow (or the function's
// synthesized final ret) fill the end block and it never stays empty.
func (e *Emitter) emitIfStmt(n *ast.IfStmt) {
	k := e.c.NextIf()
	thenLbl := fmt.Sprintf("then_%d", k)
	endLbl := fmt.Sprintf("if_end_%d", k)

	if n.Else == nil {
		cond := e.emitExpr(n.Cond)
		e.printf("  br %s, %%%s, %%%s\n", cond, thenLbl, endLbl)
		e.label(thenLbl)
		e.emitStmt(n.Then)
		if !e.c.Returned {
			e.printf("  jump %%%s\n", endLbl)
		}
		e.label(endLbl)
		e.c.Returned = false
		return
	}

	elseLbl := fmt.Sprintf("else_%d", k)
	cond := e.emitExpr(n.Cond)
	e.printf("  br %s, %%%s, %%%s\n", cond, thenLbl, elseLbl)

	e.label(thenLbl)
	e.emitStmt(n.Then)
	thenReturned := e.c.Returned
	if !thenReturned {
		e.printf("  jump %%%s\n", endLbl)
	}

	e.label(elseLbl)
	e.c.Returned = false
	e.emitStmt(n.Else)
	elseReturned := e.c.Returned
	if !elseReturned {
		e.printf("  jump %%%s\n", endLbl)
	}

	e.label(endLbl)
	e.c.Returned = false
}

// emitWhileStmt lowers "while (cond) body" to a three-label loop: entry
// re-evaluates the condition, body runs once per iteration and jumps back
// to entry, end is the break/fallthrough target.
func (e *Emitter) emitWhileStmt(n *ast.WhileStmt) {
	k := e.c.NextWhile()
	entryLbl := fmt.Sprintf("while_entry_%d", k)
	bodyLbl := fmt.Sprintf("while_body_%d", k)
	endLbl := fmt.Sprintf("while_end_%d", k)

	e.printf("  jump %%%s\n", entryLbl)
	e.label(entryLbl)
	cond := e.emitExpr(n.Cond)
	e.printf("  br %s, %%%s, %%%s\n", cond, bodyLbl, endLbl)

	e.label(bodyLbl)
	closer := e.c.PushLoop(ctx.LoopLabels{Entry: entryLbl, End: endLbl})
	e.emitStmt(n.Body)
	if !e.c.Returned {
		e.printf("  jump %%%s\n", entryLbl)
	}
	closer()

	e.label(endLbl)
	e.c.Returned = false
}
