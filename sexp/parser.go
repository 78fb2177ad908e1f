package sexp

// Parse reads a single S-expression from src and returns its root
// Node. It implements the grammar:
//
//	expr := ATOM | STRING | list
//	list := "(" expr* ")"
//
// and the head-name rule: when parsing a list, if the first expr is an
// atom or string, its decoded value becomes the list's head name and
// it is not retained as a child; if the first expr is itself a list,
// the outer list's head name equals the inner list's head name and the
// inner list is also retained as the first child. An empty list has
// head name "" and no children.
func Parse(src string) (*Node, error) {
	lx := newLexer(src)
	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, parseErrorAt(tok.pos, ErrEmptyInput)
	}
	return parseExpr(lx, tok)
}

func parseExpr(lx *lexer, tok token) (*Node, error) {
	switch tok.kind {
	case tokAtom, tokString:
		return NewAtomLexeme(tok.decoded, tok.lexeme), nil
	case tokOpen:
		return parseList(lx)
	case tokClose:
		return nil, parseErrorAt(tok.pos, ErrUnexpectedClose)
	default:
		return nil, parseErrorAt(tok.pos, ErrTruncatedList)
	}
}

func parseList(lx *lexer) (*Node, error) {
	var exprs []*Node
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			return nil, parseErrorAt(tok.pos, ErrTruncatedList)
		}
		if tok.kind == tokClose {
			break
		}
		child, err := parseExpr(lx, tok)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, child)
	}
	if len(exprs) == 0 {
		return NewList(""), nil
	}
	first := exprs[0]
	if first.IsAtom() {
		return NewList(first.Value(), exprs[1:]...), nil
	}
	return NewList(first.Head(), exprs...), nil
}
