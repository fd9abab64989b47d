package eval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/randomjson/pkg/schema"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

// Evaluator walks a schema tree eagerly and sequentially: arguments left to
// right, repeat iterations index-ascending, map values in key order. Errors
// carry a breadcrumb of positions on their way out.
type Evaluator struct {
	env    *Environment
	logger *slog.Logger
}

// NewEvaluator returns an evaluator bound to env. A nil logger discards.
func NewEvaluator(env *Environment, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{env: env, logger: logger}
}

// Eval evaluates a term. Nodes dispatch by variant; bare lists evaluate
// element-wise and bare maps value-wise, preserving order.
func (e *Evaluator) Eval(ctx context.Context, term schema.Term) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch t := term.(type) {
	case *schema.Const:
		return t.Value, nil
	case *schema.Variable:
		return e.env.Variables.Get(t.Name)
	case *schema.Function:
		return e.evalFunction(ctx, t)
	case *schema.Repeat:
		return e.evalRepeat(ctx, t)
	case *schema.Cond:
		return e.evalCond(ctx, t)
	case schema.ListTerm:
		list := make(value.List, len(t))
		for i, elem := range t {
			v, err := e.Eval(ctx, elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list[i] = v
		}
		return list, nil
	case schema.MapTerm:
		m := value.NewMap()
		for _, entry := range t {
			v, err := e.Eval(ctx, entry.Term)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", entry.Name, err)
			}
			m.Set(entry.Name, v)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown term %T", term)
}

// EvalDocument evaluates each top-level node in declaration order and
// collects the results under their keys.
func (e *Evaluator) EvalDocument(ctx context.Context, doc schema.Document) (*value.Map, error) {
	out := value.NewMap()
	for _, kn := range doc {
		v, err := e.Eval(ctx, kn.Node)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", kn.Key, err)
		}
		out.Set(kn.Key, v)
	}
	return out, nil
}

func (e *Evaluator) evalFunction(ctx context.Context, fn *schema.Function) (value.Value, error) {
	// The lookup happens before argument evaluation so an unknown name
	// fails without running argument side effects.
	callable, err := e.env.Functions.Get(fn.Name)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(fn.Args))
	for i, term := range fn.Args {
		v, err := e.Eval(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("function %s arg[%d]: %w", fn.Name, i, err)
		}
		args[i] = v
	}

	kwargs := make([]value.Kwarg, len(fn.Kwargs))
	for i, entry := range fn.Kwargs {
		v, err := e.Eval(ctx, entry.Term)
		if err != nil {
			return nil, fmt.Errorf("function %s kwargs[%s]: %w", fn.Name, entry.Name, err)
		}
		kwargs[i] = value.Kwarg{Name: entry.Name, Value: v}
	}

	e.logger.Debug("calling function", "name", fn.Name, "args", len(args), "kwargs", len(kwargs))
	result, err := callable.Call(ctx, args, kwargs)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}
	return result, nil
}

func (e *Evaluator) evalRepeat(ctx context.Context, rep *schema.Repeat) (value.Value, error) {
	amount, err := e.Eval(ctx, rep.Amount)
	if err != nil {
		return nil, fmt.Errorf("repeat amount: %w", err)
	}
	n, ok := amount.(value.Int)
	if !ok {
		return nil, fmt.Errorf("repeat amount must be an int, got %s", amount.Kind())
	}
	if n <= 0 {
		return value.List{}, nil
	}

	// Iterations run strictly in order; each sees the side effects of the
	// previous one.
	var list value.List
	for i := int64(0); i < int64(n); i++ {
		v, err := e.Eval(ctx, rep.Body)
		if err != nil {
			return nil, fmt.Errorf("repeat [%d/%d]: %w", i, int64(n), err)
		}
		list = append(list, v)
	}
	return list, nil
}

func (e *Evaluator) evalCond(ctx context.Context, cond *schema.Cond) (value.Value, error) {
	for i, arm := range cond.Arms {
		test, err := e.Eval(ctx, arm.Test)
		if err != nil {
			// A failing test fails the whole cond rather than skipping
			// to the next arm.
			return nil, fmt.Errorf("cond[%d]: %w", i, err)
		}
		if !value.Truthy(test) {
			continue
		}
		body, err := e.Eval(ctx, arm.Body)
		if err != nil {
			return nil, fmt.Errorf("cond[%d]: %w", i, err)
		}
		return body, nil
	}
	return value.Absent{}, nil
}
