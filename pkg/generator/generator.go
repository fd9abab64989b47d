// Package generator wires preprocessing, schema parsing, function
// compilation and evaluation into the public document pipeline.
//
// A Generator owns its randomness and its builtin registry. Counter
// state therefore persists across Run calls on the same Generator and
// is never shared between two Generators, which is what makes batch
// generation with one Generator per document fully isolated.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/leapstack-labs/randomjson/internal/eval"
	"github.com/leapstack-labs/randomjson/internal/funcs"
	"github.com/leapstack-labs/randomjson/internal/preprocess"
	"github.com/leapstack-labs/randomjson/pkg/schema"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

// Provider compiles function source fragments into named callables.
// Callables compiled from one batch share state with each other.
type Provider interface {
	Compile(ctx context.Context, fragments []string) ([]value.Callable, error)
}

// Config configures a Generator. The zero value is usable: seed 0,
// discarded logs and the Starlark function provider.
type Config struct {
	// Seed fixes the random stream. Equal seeds replay equal draws.
	Seed uint64

	Logger *slog.Logger

	// Provider compiles the request's function fragments. Nil selects
	// the Starlark provider.
	Provider Provider
}

// Generator turns schema documents into concrete values.
type Generator struct {
	logger   *slog.Logger
	provider Provider
	pre      *preprocess.Processor
	builtins []*funcs.Builtin
}

// New builds a Generator from cfg.
func New(cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	provider := cfg.Provider
	if provider == nil {
		provider = funcs.NewStarlarkProvider(logger)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	return &Generator{
		logger:   logger,
		provider: provider,
		pre:      preprocess.New(logger),
		builtins: funcs.NewBuiltins(rng),
	}
}

// Preprocess expands string and list macros without evaluating.
func (g *Generator) Preprocess(v value.Value) value.Value {
	return g.pre.Process(v)
}

// Run executes one request: preprocess, parse, compile, evaluate,
// prune. With PreprocessOnly set it stops after the first stage and
// returns the expanded schema instead of a document.
func (g *Generator) Run(ctx context.Context, req *Request) (value.Value, error) {
	processed := g.pre.Process(req.Schema)
	if req.PreprocessOnly {
		return processed, nil
	}

	doc, err := schema.ParseDocument(processed)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	var compiled []value.Callable
	if len(req.Functions) > 0 {
		compiled, err = g.provider.Compile(ctx, req.Functions)
		if err != nil {
			return nil, fmt.Errorf("compile functions: %w", err)
		}
		g.logger.Debug("compiled functions", "fragments", len(req.Functions), "functions", len(compiled))
	}

	env := eval.NewEnvironment()
	if req.Variables != nil {
		for _, name := range req.Variables.Keys() {
			v, _ := req.Variables.Get(name)
			env.Variables.Set(name, v)
		}
	}
	for _, b := range g.builtins {
		env.Functions.Set(b.Name(), b)
	}
	// User functions shadow builtins of the same name.
	for _, fn := range compiled {
		env.Functions.Set(fn.Name(), fn)
	}

	out, err := eval.NewEvaluator(env, g.logger).EvalDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return eval.Vanish(out), nil
}

// BuiltinInfo describes one builtin function.
type BuiltinInfo struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Group     string `json:"group"`
	Doc       string `json:"doc"`
}

// Builtins lists the builtin functions every schema can call.
func (g *Generator) Builtins() []BuiltinInfo {
	infos := make([]BuiltinInfo, len(g.builtins))
	for i, b := range g.builtins {
		infos[i] = BuiltinInfo{Name: b.Name(), Signature: b.Signature(), Group: b.Group(), Doc: b.Doc()}
	}
	return infos
}
