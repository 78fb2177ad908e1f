package sexp

import "strings"

// Write serializes n back to S-expression text. An atom emits its
// preserved lexeme when one was recorded, or a freshly-quoted form
// otherwise. A list with no list-typed children is emitted on a single
// line; a list with at least one list-typed child is emitted across
// multiple lines, with the head name and any leading atom-typed
// children on the opening line, each list-typed child (and any
// trailing atom-typed child) on its own line indented two spaces
// deeper than its parent, and the trailing ")" attached to the last
// line (§4.B).
//
// Write(Parse(s)) == s for any s this function produced. For other
// inputs the logical tree survives the round trip, but inter-sibling
// whitespace may be renormalized into this canonical layout.
func Write(n *Node) string {
	var buf strings.Builder
	writeNode(&buf, n, 0)
	return buf.String()
}

func writeNode(buf *strings.Builder, n *Node, indent int) {
	if n == nil {
		return
	}
	if n.IsAtom() {
		buf.WriteString(atomText(n))
		return
	}

	children := n.Children()
	if !anyListChild(children) {
		buf.WriteString(indentStr(indent))
		buf.WriteByte('(')
		buf.WriteString(n.Head())
		for _, c := range children {
			buf.WriteByte(' ')
			buf.WriteString(atomText(c))
		}
		buf.WriteByte(')')
		return
	}

	buf.WriteString(indentStr(indent))
	buf.WriteByte('(')
	buf.WriteString(n.Head())
	i := 0
	for i < len(children) && children[i].IsAtom() {
		buf.WriteByte(' ')
		buf.WriteString(atomText(children[i]))
		i++
	}
	for i < len(children) {
		buf.WriteByte('\n')
		c := children[i]
		if c.IsList() {
			writeNode(buf, c, indent+1)
		} else {
			buf.WriteString(indentStr(indent + 1))
			buf.WriteString(atomText(c))
		}
		i++
	}
	buf.WriteByte(')')
}

func anyListChild(children []*Node) bool {
	for _, c := range children {
		if c.IsList() {
			return true
		}
	}
	return false
}

func indentStr(level int) string {
	return strings.Repeat("  ", level)
}

// atomText returns the literal text an atom should serialize to.
func atomText(n *Node) string {
	if lexeme, ok := n.Lexeme(); ok {
		return lexeme
	}
	v := n.Value()
	if needsQuote(v) {
		return quote(v)
	}
	return v
}

func needsQuote(v string) bool {
	if v == "" {
		return true
	}
	for _, r := range v {
		switch r {
		case ' ', '\t', '\r', '\n', '"', '(', ')', '\\':
			return true
		}
	}
	return false
}

func quote(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		if r == '\\' || r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
