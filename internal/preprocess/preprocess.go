package preprocess

import (
	"log/slog"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// Processor rewrites macro tokens into node maps. A nil logger discards.
type Processor struct {
	logger *slog.Logger
}

// New returns a Processor.
func New(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{logger: logger}
}

// Process rewrites raw recursively. Strings may expand to const or variable
// nodes; lists headed by a function, repeat or cond token expand to the
// corresponding node; other lists process element-wise and maps value-wise,
// preserving order. The input is never mutated.
func (p *Processor) Process(raw value.Value) value.Value {
	switch t := raw.(type) {
	case value.String:
		return p.processString(t)
	case value.List:
		return p.processList(t)
	case *value.Map:
		out := value.NewMap()
		for _, k := range t.Keys() {
			v, _ := t.Get(k)
			out.Set(k, p.Process(v))
		}
		return out
	default:
		return raw
	}
}

func (p *Processor) processString(s value.String) value.Value {
	tok, ok := parseToken(string(s))
	if !ok {
		return s
	}
	switch tok.tag {
	case "const":
		switch len(tok.body) {
		case 1:
			// {{const|val}}: the value stays a string.
			return nodeMap("const", "value", value.String(tok.body[0]))
		case 2:
			// {{const|val|typ}}: coercion failure leaves the token alone.
			cast, err := value.Coerce(value.String(tok.body[0]), tok.body[1])
			if err != nil {
				p.logger.Debug("leaving const token unexpanded", "token", string(s), "error", err)
				return s
			}
			return nodeMap("const", "value", cast)
		}
	case "variable":
		if len(tok.body) == 1 {
			return nodeMap("variable", "name", value.String(tok.body[0]))
		}
	}
	p.logger.Debug("ignoring token", "token", string(s))
	return s
}

func (p *Processor) processList(list value.List) value.Value {
	if len(list) == 0 {
		return value.List{}
	}
	head, tail := list[0], list[1:]

	// shift processes every element, head included, so an unrecognized
	// head still expands element-wise.
	shift := func() value.Value {
		out := make(value.List, len(list))
		for i, elem := range list {
			out[i] = p.Process(elem)
		}
		return out
	}

	headStr, ok := head.(value.String)
	if !ok {
		return shift()
	}
	tok, ok := parseToken(string(headStr))
	if !ok {
		return shift()
	}

	switch tok.tag {
	case "function":
		if len(tok.body) == 1 {
			m := value.NewMap()
			m.Set("type", value.String("function"))
			m.Set("name", value.String(tok.body[0]))
			if len(tail) > 0 {
				args := make(value.List, len(tail))
				for i, elem := range tail {
					args[i] = p.Process(elem)
				}
				m.Set("args", args)
			}
			return m
		}
	case "repeat":
		if len(tok.body) == 0 && len(tail) == 2 {
			m := value.NewMap()
			m.Set("type", value.String("repeat"))
			m.Set("amount", p.Process(tail[0]))
			m.Set("node", p.Process(tail[1]))
			return m
		}
	case "cond":
		if len(tok.body) == 0 {
			if body, ok := p.condBody(tail); ok {
				m := value.NewMap()
				m.Set("type", value.String("cond"))
				m.Set("body", body)
				return m
			}
			p.logger.Debug("malformed cond arms", "list", list.String())
		}
	}
	p.logger.Debug("ignoring list head token", "token", string(headStr))
	return shift()
}

// condBody builds [[test, body], ...] arms. Any arm that is not a
// two-element list rejects the whole expansion.
func (p *Processor) condBody(tail value.List) (value.List, bool) {
	arms := make(value.List, 0, len(tail))
	for _, arm := range tail {
		pair, ok := arm.(value.List)
		if !ok || len(pair) != 2 {
			return nil, false
		}
		arms = append(arms, value.List{p.Process(pair[0]), p.Process(pair[1])})
	}
	return arms, true
}

func nodeMap(typ, field string, v value.Value) *value.Map {
	m := value.NewMap()
	m.Set("type", value.String(typ))
	m.Set(field, v)
	return m
}
