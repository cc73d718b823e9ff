package ast

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/olympiac-lang/olympiac/compiler/diag"
)

type (
	// Kind is the closed tag of a tree vertex.
	Kind int

	// Attr is one node attribute. Attrs keep insertion order so tree
	// dumps and exports stay stable between runs.
	Attr struct {
		Key string
		Val interface{}
	}

	Attrs []Attr

	// Node is the single generic tree vertex. Every construct is a
	// Node; the Kind tag and Attrs carry the per-construct payload.
	Node struct {
		ID       int     `json:"id" yaml:"id"`
		Kind     Kind    `json:"kind" yaml:"kind"`
		Content  string  `json:"content,omitempty" yaml:"content,omitempty"`
		Line     int     `json:"line" yaml:"line"`
		Attrs    Attrs   `json:"attrs,omitempty" yaml:"attrs,omitempty"`
		Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	}

	// Tree owns every node of one parse. Nodes[n.ID] == n for each
	// node it created, so per-node side data (decorations) lives in
	// plain slices indexed by ID instead of identity maps.
	// The tree also carries the syntax diagnostics of its parse.
	Tree struct {
		Root  *Node
		Nodes []*Node
		Diags diag.List
	}
)

const (
	Program Kind = iota
	Comment
	AthleteDecl
	ListDecl
	BulkLoad
	Conditional
	Else
	Loop
	LoopUntil
	Invocation
	Narrate
	Direct
	BinaryOp
	UnaryOp
	Number
	Name
	Symbol
	Close
	Match
	Race
	Routine
	Combat
	Result
	ResultExtra
	Tie
	ActionStub
	SyntaxError
	Unknown
)

var kindNames = []string{
	"Program", "Comment", "AthleteDecl", "ListDecl", "BulkLoad",
	"Conditional", "Else", "Loop", "LoopUntil", "Invocation", "Narrate",
	"Direct", "BinaryOp", "UnaryOp", "Number", "Name", "Symbol", "Close",
	"Match", "Race", "Routine", "Combat", "Result", "ResultExtra", "Tie",
	"ActionStub", "SyntaxError", "Unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// New returns a tree holding only the Program root.
func New() *Tree {
	t := &Tree{}
	t.Root = t.NewNode(Program, "", 0)

	return t
}

// NewNode allocates the next node in the arena.
func (t *Tree) NewNode(kind Kind, content string, line int) *Node {
	n := &Node{
		ID:      len(t.Nodes),
		Kind:    kind,
		Content: content,
		Line:    line,
	}

	t.Nodes = append(t.Nodes, n)

	return n
}

// Len is the arena size, the capacity needed by ID-indexed side data.
func (t *Tree) Len() int { return len(t.Nodes) }

// Add appends children, silently dropping nils so callers can pass
// results of parses that failed to produce a node.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}

	return n
}

// Set stores an attribute, replacing an existing value under the same key.
func (n *Node) Set(key string, val interface{}) *Node {
	n.Attrs = n.Attrs.Set(key, val)
	return n
}

// Attr returns the attribute value stored under key.
func (n *Node) Attr(key string) (interface{}, bool) {
	return n.Attrs.Get(key)
}

func (a Attrs) Set(key string, val interface{}) Attrs {
	for i := range a {
		if a[i].Key == key {
			a[i].Val = val
			return a
		}
	}

	return append(a, Attr{Key: key, Val: val})
}

func (a Attrs) Get(key string) (interface{}, bool) {
	for i := range a {
		if a[i].Key == key {
			return a[i].Val, true
		}
	}

	return nil, false
}

// MarshalJSON renders attrs as an object in insertion order.
func (a Attrs) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	b.WriteByte('{')

	for i, kv := range a {
		if i != 0 {
			b.WriteByte(',')
		}

		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(kv.Val)
		if err != nil {
			return nil, err
		}

		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}

	b.WriteByte('}')

	return b.Bytes(), nil
}

// MarshalYAML renders attrs as a mapping in insertion order.
func (a Attrs) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}

	for _, kv := range a {
		k := &yaml.Node{}
		if err := k.Encode(kv.Key); err != nil {
			return nil, err
		}

		v := &yaml.Node{}
		if err := v.Encode(kv.Val); err != nil {
			return nil, err
		}

		m.Content = append(m.Content, k, v)
	}

	return m, nil
}
