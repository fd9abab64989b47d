// Package schema defines the generator construct tree and its validating
// parser. Raw input (decoded JSON or YAML) parses into a closed set of five
// node variants: const, variable, function, repeat and cond. Positions that
// may legally hold a bare list or map parse as terms, which nest without
// bound.
package schema

import "github.com/leapstack-labs/randomjson/pkg/value"

// Term is one layer of a schema tree: a Node, a ListTerm or a MapTerm.
type Term interface {
	term() // Marker method to close the implementation set
}

// Node is one of the five generator constructs.
type Node interface {
	Term
	node() // Marker method to distinguish nodes from bare containers
}

// ListTerm is an ordered sequence of terms evaluated element-wise.
type ListTerm []Term

func (ListTerm) term() {}

// NamedTerm pairs a key with its term. It serves both map terms and
// function kwargs, which preserve declaration order.
type NamedTerm struct {
	Name string
	Term Term
}

// MapTerm is a string-keyed sequence of terms evaluated value-wise in key
// order.
type MapTerm []NamedTerm

func (MapTerm) term() {}

// Const yields its stored value verbatim.
type Const struct {
	Value value.Value
}

func (*Const) term() {}
func (*Const) node() {}

// Variable yields the value bound to Name in the variable table.
type Variable struct {
	Name string
}

func (*Variable) term() {}
func (*Variable) node() {}

// Function calls the named registered function. Args evaluate left to
// right, then Kwargs in declaration order, before the call.
type Function struct {
	Name   string
	Args   []Term
	Kwargs []NamedTerm
}

func (*Function) term() {}
func (*Function) node() {}

// Repeat evaluates Body Amount times, collecting each full result into a
// list. Amount is evaluated once, first.
type Repeat struct {
	Amount Node
	Body   Term
}

func (*Repeat) term() {}
func (*Repeat) node() {}

// CondArm is one [test, body] pair of a Cond.
type CondArm struct {
	Test Node
	Body Term
}

// Cond yields the body of the first arm whose test is truthy. With no arms
// or no match it yields the absent value.
type Cond struct {
	Arms []CondArm
}

func (*Cond) term() {}
func (*Cond) node() {}

// NamedNode pairs a top-level schema key with its parsed node.
type NamedNode struct {
	Key  string
	Node Node
}

// Document is a parsed top-level schema: keyed nodes in declaration order.
// Unlike nested positions, each top-level value must be a node on its own.
type Document []NamedNode
