package koopa

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Load parses textual Koopa IR into a raw-IR tree. It is a single-pass line
// scanner with keyword dispatch: each function's instructions are collected
// while a per-function name→*Value table is threaded as values are defined,
// and jump/branch targets are resolved against the function's block table,
// which creates a block on its first reference when a branch names a label
// that appears later in the text (see block).
func Load(src []byte) (*Program, error) {
	l := &loader{p: &Program{}, globals: map[string]*Value{}}
	s := bufio.NewScanner(bytes.NewReader(src))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if err := l.line(line); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if l.fn != nil {
		return nil, fmt.Errorf("koopa: unterminated function %q", l.fn.Name)
	}
	return l.p, nil
}

type loader struct {
	p       *Program
	globals map[string]*Value // "@name" -> global value, for operand resolution

	fn     *Function
	locals map[string]*Value     // "%n"/"@name" -> value, reset per function
	blocks map[string]*BasicBlock // block name (no "%") -> block, reset per function
	cur    *BasicBlock
}

func (l *loader) line(line string) error {
	switch {
	case strings.HasPrefix(line, "decl "):
		return l.declLine(line)
	case strings.HasPrefix(line, "global "):
		return l.globalLine(line)
	case strings.HasPrefix(line, "fun "):
		return l.funLine(line)
	case line == "}":
		if l.fn == nil {
			return fmt.Errorf("koopa: unexpected '}' outside a function")
		}
		l.fn = nil
		return nil
	case strings.HasSuffix(line, ":") && strings.HasPrefix(line, "%"):
		return l.labelLine(line)
	default:
		return l.instLine(line)
	}
}

// declLine parses "decl @name(T, T, ...): T" or "decl @name(T, T, ...)".
func (l *loader) declLine(line string) error {
	line = strings.TrimPrefix(line, "decl ")
	name, params, retType, err := parseSignature(line)
	if err != nil {
		return err
	}
	l.p.Functions = append(l.p.Functions, &Function{Name: name, Params: params, RetType: retType})
	return nil
}

// globalLine parses "global @name = alloc TYPE, INIT".
func (l *loader) globalLine(line string) error {
	line = strings.TrimPrefix(line, "global ")
	name, rest, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("koopa: malformed global line %q", line)
	}
	name = strings.TrimSpace(name)
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "alloc ")
	parts := splitTopLevel(rest)
	if len(parts) != 2 {
		return fmt.Errorf("koopa: malformed global initializer %q", line)
	}
	ty, err := parseType(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	l.p.Globals = append(l.p.Globals, Global{Name: name, Type: ty, Init: strings.TrimSpace(parts[1])})
	l.globals[name] = &Value{Kind: KGlobalAlloc, Type: &Type{Kind: Pointer, Elem: ty}, Name: name}
	return nil
}

// funLine parses "fun @name(@a: T, @b: T) [: T] {" and opens a new
// function body.
func (l *loader) funLine(line string) error {
	if !strings.HasSuffix(line, "{") {
		return fmt.Errorf("koopa: malformed function header %q", line)
	}
	line = strings.TrimSuffix(line, "{")
	line = strings.TrimSpace(strings.TrimPrefix(line, "fun "))

	name, paramsText, retType, err := parseSignature(line)
	if err != nil {
		return err
	}

	fn := &Function{Name: name, Params: paramsText, RetType: retType}
	l.locals = map[string]*Value{}
	l.blocks = map[string]*BasicBlock{}
	for _, p := range fn.Params {
		pv := &Value{Kind: KParam, Type: p.Type, Name: p.Name}
		l.locals[p.Name] = pv
		fn.ParamValues = append(fn.ParamValues, pv)
	}
	l.p.Functions = append(l.p.Functions, fn)
	l.fn = fn
	l.cur = nil
	return nil
}

// parseSignature parses "@name(params)[: rettype]" shared by decl and fun
// lines, returning the bare name, parsed params and return type.
func parseSignature(s string) (name string, params []Param, ret *Type, err error) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return "", nil, nil, fmt.Errorf("koopa: malformed signature %q", s)
	}
	name = strings.TrimSpace(strings.TrimPrefix(s[:open], "@"))

	paramsText := strings.TrimSpace(s[open+1 : close])
	if paramsText != "" {
		for _, p := range splitTopLevel(paramsText) {
			pname, ptyStr, ok := strings.Cut(p, ":")
			if !ok {
				// a decl line lists bare parameter types, with no names
				pname, ptyStr = "", p
			}
			ty, terr := parseType(strings.TrimSpace(ptyStr))
			if terr != nil {
				return "", nil, nil, terr
			}
			params = append(params, Param{Name: strings.TrimSpace(pname), Type: ty})
		}
	}

	after := strings.TrimSpace(s[close+1:])
	after = strings.TrimPrefix(after, ":")
	retType, rerr := parseType(strings.TrimSpace(after))
	if rerr != nil {
		return "", nil, nil, rerr
	}
	return name, params, retType, nil
}

// labelLine opens name's block. A forward branch/jump to name may already
// have created its *BasicBlock shell via block() below (EMIT routinely
// branches to a label defined later in the text, e.g. an if's end label),
// so the existing pointer is reused rather than replaced, preserving the
// identity every earlier reference already captured.
func (l *loader) labelLine(line string) error {
	name := strings.TrimSuffix(strings.TrimPrefix(line, "%"), ":")
	b, ok := l.blocks[name]
	if !ok {
		b = &BasicBlock{Name: name}
		l.blocks[name] = b
	}
	l.fn.Blocks = append(l.fn.Blocks, b)
	l.cur = b
	return nil
}

func (l *loader) instLine(line string) error {
	if l.cur == nil {
		return fmt.Errorf("koopa: instruction %q outside any block", line)
	}
	var resultName string
	rest := line
	if name, tail, ok := strings.Cut(line, " = "); ok {
		resultName, rest = strings.TrimSpace(name), strings.TrimSpace(tail)
	}

	op, args, _ := strings.Cut(rest, " ")
	args = strings.TrimSpace(args)

	v, err := l.instValue(op, args, resultName)
	if err != nil {
		return err
	}
	if resultName != "" {
		v.Name = resultName
		l.locals[resultName] = v
	}
	l.cur.Insts = append(l.cur.Insts, v)
	return nil
}

func (l *loader) instValue(op, args, resultName string) (*Value, error) {
	switch op {
	case "alloc":
		ty, err := parseType(args)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KAlloc, Type: &Type{Kind: Pointer, Elem: ty}, InitText: "undef"}, nil

	case "load":
		src, err := l.resolve(args)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KLoad, Type: src.Type.Elem, Args: []*Value{src}}, nil

	case "store":
		parts := splitTopLevel(args)
		if len(parts) != 2 {
			return nil, fmt.Errorf("koopa: malformed store %q", args)
		}
		val, err := l.resolve(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		dest, err := l.resolve(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KStore, Type: typeUnit, Args: []*Value{val, dest}}, nil

	case "getelemptr":
		src, idx, err := l.resolvePair(args)
		if err != nil {
			return nil, err
		}
		if src.Type.Kind != Pointer || src.Type.Elem.Kind != Array {
			return nil, fmt.Errorf("koopa: getelemptr source is not a pointer to array: %q", args)
		}
		elemTy := src.Type.Elem.Elem
		return &Value{Kind: KGetElemPtr, Type: &Type{Kind: Pointer, Elem: elemTy}, Args: []*Value{src, idx}}, nil

	case "getptr":
		src, idx, err := l.resolvePair(args)
		if err != nil {
			return nil, err
		}
		if src.Type.Kind != Pointer {
			return nil, fmt.Errorf("koopa: getptr source is not a pointer: %q", args)
		}
		return &Value{Kind: KGetPtr, Type: src.Type, Args: []*Value{src, idx}}, nil

	case "br":
		parts := splitTopLevel(args)
		if len(parts) != 3 {
			return nil, fmt.Errorf("koopa: malformed br %q", args)
		}
		cond, err := l.resolve(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		tt, err := l.block(parts[1])
		if err != nil {
			return nil, err
		}
		tf, err := l.block(parts[2])
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KBranch, Type: typeUnit, Args: []*Value{cond}, TargetTrue: tt, TargetFalse: tf}, nil

	case "jump":
		b, err := l.block(args)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KJump, Type: typeUnit, Target: b}, nil

	case "call":
		ident, argsText, ok := strings.Cut(args, "(")
		if !ok || !strings.HasSuffix(argsText, ")") {
			return nil, fmt.Errorf("koopa: malformed call %q", args)
		}
		callee := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ident), "@"))
		argsText = strings.TrimSuffix(argsText, ")")
		var callArgs []*Value
		if strings.TrimSpace(argsText) != "" {
			for _, a := range splitTopLevel(argsText) {
				v, err := l.resolve(strings.TrimSpace(a))
				if err != nil {
					return nil, err
				}
				callArgs = append(callArgs, v)
			}
		}
		retType := typeUnit
		if fn, ok := l.p.FindFunction(callee); ok {
			retType = fn.RetType
		}
		return &Value{Kind: KCall, Type: retType, Callee: callee, Args: callArgs}, nil

	case "ret":
		if args == "" {
			return &Value{Kind: KReturn, Type: typeUnit}, nil
		}
		v, err := l.resolve(args)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KReturn, Type: typeUnit, Args: []*Value{v}}, nil

	default:
		// binary ops: "<op> lhs, rhs"
		parts := splitTopLevel(args)
		if len(parts) != 2 {
			return nil, fmt.Errorf("koopa: unrecognised instruction %q %q", op, args)
		}
		lhs, err := l.resolve(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		rhs, err := l.resolve(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KBinary, Type: typeInt32, Op: op, Args: []*Value{lhs, rhs}}, nil
	}
}

func (l *loader) resolvePair(args string) (src, idx *Value, err error) {
	parts := splitTopLevel(args)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("koopa: malformed operand pair %q", args)
	}
	src, err = l.resolve(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, err
	}
	idx, err = l.resolve(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, err
	}
	return src, idx, nil
}

// resolve turns an operand token into a *Value: an integer literal, a
// reference to a value already defined in the current function, or a
// reference to a global.
func (l *loader) resolve(tok string) (*Value, error) {
	if n, err := strconv.Atoi(tok); err == nil {
		return &Value{Kind: KInteger, Type: typeInt32, IntVal: n}, nil
	}
	if v, ok := l.locals[tok]; ok {
		return v, nil
	}
	if v, ok := l.globals[tok]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("koopa: unresolved operand %q", tok)
}

// block resolves a jump/branch target, creating the *BasicBlock shell on
// first reference if the label hasn't been parsed yet — EMIT routinely
// branches forward to a label defined later in the text (an if's end
// label, a while's end label). labelLine reuses this same pointer once it
// parses the label itself, and appends it to the function's block list at
// that point.
func (l *loader) block(tok string) (*BasicBlock, error) {
	name := strings.TrimPrefix(strings.TrimSpace(tok), "%")
	if b, ok := l.blocks[name]; ok {
		return b, nil
	}
	b := &BasicBlock{Name: name}
	l.blocks[name] = b
	return b, nil
}
