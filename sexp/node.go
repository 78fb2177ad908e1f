package sexp

// Kind distinguishes the two closed variants of Node.
type Kind int

const (
	KindAtom Kind = iota
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Node is a single element of a parsed S-expression tree: either an
// atom (a bare token or quoted string) or a list (a parenthesized,
// head-named sequence of child nodes). Children is nil for atoms and
// insertion-ordered for lists.
type Node struct {
	kind Kind

	// Atom fields.
	value     string
	lexeme    string
	hasLexeme bool

	// List fields.
	head     string
	children []*Node
}

// NewAtom creates an atom with no preserved lexeme; Write will quote it
// fresh following the same rule the serializer uses for any atom it
// must re-quote (§4.B).
func NewAtom(value string) *Node {
	return &Node{kind: KindAtom, value: value}
}

// NewAtomLexeme creates an atom that serializes back to exactly lexeme,
// regardless of value, as long as it is not mutated.
func NewAtomLexeme(value, lexeme string) *Node {
	return &Node{kind: KindAtom, value: value, lexeme: lexeme, hasLexeme: true}
}

// NewList creates a list with the given head name and children.
func NewList(head string, children ...*Node) *Node {
	return &Node{kind: KindList, head: head, children: children}
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) IsAtom() bool { return n.kind == KindAtom }
func (n *Node) IsList() bool { return n.kind == KindList }

// Value returns the decoded atom value. It is the empty string for a
// list node.
func (n *Node) Value() string {
	if n == nil || n.kind != KindAtom {
		return ""
	}
	return n.value
}

// Lexeme returns the preserved source lexeme and whether one was
// recorded (false for nodes constructed programmatically via NewAtom,
// or for nodes whose value has been mutated via SetValue).
func (n *Node) Lexeme() (string, bool) {
	if n == nil || n.kind != KindAtom {
		return "", false
	}
	return n.lexeme, n.hasLexeme
}

// SetValue replaces an atom's decoded value and drops any preserved
// lexeme, so the next Write re-quotes from the new value.
func (n *Node) SetValue(value string) {
	if n.kind != KindAtom {
		return
	}
	n.value = value
	n.lexeme = ""
	n.hasLexeme = false
}

// Head returns the list's head name. It is the empty string for an
// atom node or for a list produced by parsing "()".
func (n *Node) Head() string {
	if n == nil || n.kind != KindList {
		return ""
	}
	return n.head
}

func (n *Node) SetHead(head string) {
	if n.kind == KindList {
		n.head = head
	}
}

// Children returns the list's children in insertion order. Nil for
// atoms.
func (n *Node) Children() []*Node {
	if n == nil || n.kind != KindList {
		return nil
	}
	return n.children
}

// Append adds a child to a list node.
func (n *Node) Append(child *Node) {
	if n.kind != KindList {
		return
	}
	n.children = append(n.children, child)
}

// InsertAt inserts a child at index i, shifting subsequent children
// right. i may equal len(children) to append.
func (n *Node) InsertAt(i int, child *Node) {
	if n.kind != KindList || i < 0 || i > len(n.children) {
		return
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
}

// ReplaceChild replaces the child at index i.
func (n *Node) ReplaceChild(i int, child *Node) {
	if n.kind != KindList || i < 0 || i >= len(n.children) {
		return
	}
	n.children[i] = child
}

// RemoveAt removes the child at index i.
func (n *Node) RemoveAt(i int) {
	if n.kind != KindList || i < 0 || i >= len(n.children) {
		return
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
}

// RemoveChild removes the first direct child equal (by pointer) to
// child, reporting whether one was found.
func (n *Node) RemoveChild(child *Node) bool {
	if n.kind != KindList {
		return false
	}
	for i, c := range n.children {
		if c == child {
			n.RemoveAt(i)
			return true
		}
	}
	return false
}

// FirstChild returns the first direct child that is a list with the
// given head name, or nil.
func (n *Node) FirstChild(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.IsList() && c.Head() == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child that is a list with the
// given head name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		if c.IsList() && c.Head() == name {
			out = append(out, c)
		}
	}
	return out
}

// Find performs a pre-order recursive descent for the first list node
// (at any depth, including n itself) whose head name equals name.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.IsList() && n.Head() == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll performs a recursive descent collecting every list node (at
// any depth) whose head name equals name, in document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.findAll(name, &out)
	return out
}

func (n *Node) findAll(name string, out *[]*Node) {
	if n == nil {
		return
	}
	if n.IsList() && n.Head() == name {
		*out = append(*out, n)
	}
	for _, c := range n.children {
		c.findAll(name, out)
	}
}

// FirstAtomValue returns the value of the first direct child that is
// an atom, e.g. for (version 20241229) it returns "20241229".
func (n *Node) FirstAtomValue() (string, bool) {
	if n == nil {
		return "", false
	}
	for _, c := range n.children {
		if c.IsAtom() {
			return c.Value(), true
		}
	}
	return "", false
}

// AtomValues returns the decoded values of every direct child that is
// an atom, in order.
func (n *Node) AtomValues() []string {
	if n == nil {
		return nil
	}
	var out []string
	for _, c := range n.children {
		if c.IsAtom() {
			out = append(out, c.Value())
		}
	}
	return out
}

// AtomAt returns the value of the child at index i, if it exists and
// is an atom.
func (n *Node) AtomAt(i int) (string, bool) {
	if n == nil || i < 0 || i >= len(n.children) {
		return "", false
	}
	c := n.children[i]
	if !c.IsAtom() {
		return "", false
	}
	return c.Value(), true
}

// Clone deep-copies n by serializing and re-parsing it: the canonical
// mechanism this package uses for deep copy, rather than recursive
// clone plumbing for the variant (spec.md §9's "deep copy via
// re-parse" note).
func (n *Node) Clone() (*Node, error) {
	if n == nil {
		return nil, nil
	}
	text := Write(n)
	clone, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// Equal reports whether n and other are structurally equivalent:
// same kind, same decoded atom value or same head name, and equal
// children recursively. Preserved lexemes are not compared — this is
// the "structural equivalence" notion spec.md's round-trip property
// calls for, not byte-identical serialization.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind {
		return false
	}
	if n.kind == KindAtom {
		return n.value == other.value
	}
	if n.head != other.head || len(n.children) != len(other.children) {
		return false
	}
	for i := range n.children {
		if !n.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}
