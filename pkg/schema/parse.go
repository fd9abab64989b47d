package schema

import (
	"fmt"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// variantParsers lists the node variants in selection order. The order is
// part of the contract: Select reports rejections in this order. It is
// populated in init because the parsers refer back to Select through
// ParseTerm, which the compiler rejects as an initialization cycle in a
// package-level initializer.
var variantParsers []struct {
	name  string
	parse func(value.Value) (Node, error)
}

func init() {
	variantParsers = []struct {
		name  string
		parse func(value.Value) (Node, error)
	}{
		{"const", parseConst},
		{"variable", parseVariable},
		{"function", parseFunction},
		{"repeat", parseRepeat},
		{"cond", parseCond},
	}
}

// Select parses raw as a node, trying const, variable, function, repeat and
// cond in that order. The first variant to accept raw wins; if every
// variant refuses, the returned SelectError aggregates all rejections.
func Select(raw value.Value) (Node, error) {
	causes := make([]error, 0, len(variantParsers))
	for _, vp := range variantParsers {
		node, err := vp.parse(raw)
		if err == nil {
			return node, nil
		}
		causes = append(causes, err)
	}
	return nil, &SelectError{Raw: raw, Causes: causes}
}

// ParseTerm parses raw as a term. Lists parse element-wise and maps that
// are not nodes parse value-wise, recursing without bound, so templates can
// omit wrapping nodes at any depth.
func ParseTerm(raw value.Value) (Term, error) {
	if list, ok := raw.(value.List); ok {
		terms := make(ListTerm, len(list))
		for i, elem := range list {
			t, err := ParseTerm(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			terms[i] = t
		}
		return terms, nil
	}
	node, selErr := Select(raw)
	if selErr == nil {
		return node, nil
	}
	if obj, ok := raw.(*value.Map); ok {
		terms := make(MapTerm, 0, obj.Len())
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			t, err := ParseTerm(v)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			terms = append(terms, NamedTerm{Name: k, Term: t})
		}
		return terms, nil
	}
	return nil, selErr
}

// ParseDocument parses the top level of a schema: a map whose every value
// is a node.
func ParseDocument(raw value.Value) (Document, error) {
	obj, ok := raw.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("schema root must be a map, got %s", raw.Kind())
	}
	doc := make(Document, 0, obj.Len())
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		node, err := Select(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		doc = append(doc, NamedNode{Key: k, Node: node})
	}
	return doc, nil
}

// nodeObject validates the shared node shape: a map whose "type" field is
// the wanted variant name. Unknown extra fields are tolerated.
func nodeObject(raw value.Value, want string) (*value.Map, error) {
	obj, ok := raw.(*value.Map)
	if !ok {
		return nil, &InvalidNodeError{Want: want, Raw: raw}
	}
	typ, ok := obj.Get("type")
	if !ok {
		return nil, &InvalidNodeError{Want: want, Raw: raw}
	}
	name, ok := typ.(value.String)
	if !ok || string(name) != want {
		return nil, &InvalidNodeError{Want: want, Raw: raw}
	}
	return obj, nil
}

func parseConst(raw value.Value) (Node, error) {
	obj, err := nodeObject(raw, "const")
	if err != nil {
		return nil, err
	}
	v, ok := obj.Get("value")
	if !ok {
		return nil, &MissingFieldError{Type: "const", Field: "value"}
	}
	return &Const{Value: v}, nil
}

func parseVariable(raw value.Value) (Node, error) {
	obj, err := nodeObject(raw, "variable")
	if err != nil {
		return nil, err
	}
	name, err := stringField(obj, "variable", "name")
	if err != nil {
		return nil, err
	}
	return &Variable{Name: name}, nil
}

func parseFunction(raw value.Value) (Node, error) {
	obj, err := nodeObject(raw, "function")
	if err != nil {
		return nil, err
	}
	name, err := stringField(obj, "function", "name")
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: name}

	if rawArgs, ok := obj.Get("args"); ok {
		list, ok := rawArgs.(value.List)
		if !ok {
			return nil, &FieldTypeError{Type: "function", Field: "args", Want: "list", Got: rawArgs}
		}
		fn.Args = make([]Term, len(list))
		for i, elem := range list {
			t, err := ParseTerm(elem)
			if err != nil {
				return nil, fmt.Errorf("function args[%d]: %w", i, err)
			}
			fn.Args[i] = t
		}
	}

	if rawKwargs, ok := obj.Get("kwargs"); ok {
		kw, ok := rawKwargs.(*value.Map)
		if !ok {
			return nil, &FieldTypeError{Type: "function", Field: "kwargs", Want: "map", Got: rawKwargs}
		}
		fn.Kwargs = make([]NamedTerm, 0, kw.Len())
		for _, k := range kw.Keys() {
			v, _ := kw.Get(k)
			t, err := ParseTerm(v)
			if err != nil {
				return nil, fmt.Errorf("function kwargs[%s]: %w", k, err)
			}
			fn.Kwargs = append(fn.Kwargs, NamedTerm{Name: k, Term: t})
		}
	}
	return fn, nil
}

func parseRepeat(raw value.Value) (Node, error) {
	obj, err := nodeObject(raw, "repeat")
	if err != nil {
		return nil, err
	}
	rawAmount, ok := obj.Get("amount")
	if !ok {
		return nil, &MissingFieldError{Type: "repeat", Field: "amount"}
	}
	amount, err := Select(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("repeat amount: %w", err)
	}
	rawBody, ok := obj.Get("node")
	if !ok {
		return nil, &MissingFieldError{Type: "repeat", Field: "node"}
	}
	body, err := ParseTerm(rawBody)
	if err != nil {
		return nil, fmt.Errorf("repeat node: %w", err)
	}
	return &Repeat{Amount: amount, Body: body}, nil
}

func parseCond(raw value.Value) (Node, error) {
	obj, err := nodeObject(raw, "cond")
	if err != nil {
		return nil, err
	}
	rawBody, ok := obj.Get("body")
	if !ok {
		return nil, &MissingFieldError{Type: "cond", Field: "body"}
	}
	list, ok := rawBody.(value.List)
	if !ok {
		return nil, &FieldTypeError{Type: "cond", Field: "body", Want: "list", Got: rawBody}
	}
	cond := &Cond{Arms: make([]CondArm, 0, len(list))}
	for i, elem := range list {
		pair, ok := elem.(value.List)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("cond body[%d]: want a [test, body] pair, got %s", i, elem)
		}
		test, err := Select(pair[0])
		if err != nil {
			return nil, fmt.Errorf("cond body[%d] test: %w", i, err)
		}
		body, err := ParseTerm(pair[1])
		if err != nil {
			return nil, fmt.Errorf("cond body[%d]: %w", i, err)
		}
		cond.Arms = append(cond.Arms, CondArm{Test: test, Body: body})
	}
	return cond, nil
}

func stringField(obj *value.Map, nodeType, field string) (string, error) {
	v, ok := obj.Get(field)
	if !ok {
		return "", &MissingFieldError{Type: nodeType, Field: field}
	}
	s, ok := v.(value.String)
	if !ok {
		return "", &FieldTypeError{Type: nodeType, Field: field, Want: "string", Got: v}
	}
	return string(s), nil
}
