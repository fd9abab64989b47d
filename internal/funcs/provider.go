// Package funcs compiles user function fragments with Starlark and
// hosts the builtin function registry available to every schema.
//
// Fragments are executed in order into one shared namespace, so a later
// fragment can call or redefine anything an earlier fragment bound.
// Every compiled function keeps using that namespace at call time,
// which is what lets siblings share mutated state between calls.
package funcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// fileOpts enables the non-core language features user fragments tend
// to rely on. Recursion and while loops make cancellation matter; see
// newThread.
var fileOpts = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// seeds are modules preloaded into every fragment namespace.
var seeds = starlark.StringDict{
	"json": starjson.Module,
	"math": starmath.Module,
	"time": startime.Module,
}

// CompileError reports a fragment that failed to parse or execute.
type CompileError struct {
	Fragment int
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("functions[%d]: %v", e.Fragment, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// StarlarkProvider compiles function fragments into callables.
type StarlarkProvider struct {
	logger *slog.Logger
}

// NewStarlarkProvider returns a provider. A nil logger discards output.
func NewStarlarkProvider(logger *slog.Logger) *StarlarkProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StarlarkProvider{logger: logger}
}

// Compile executes the fragments in order and returns the functions
// they defined, in sorted name order per fragment. A name defined by
// two fragments is returned once, bound when first seen; the later
// definition still wins for calls made from inside other functions
// because those resolve through the shared namespace.
func (p *StarlarkProvider) Compile(ctx context.Context, fragments []string) ([]value.Callable, error) {
	globals := make(starlark.StringDict, len(seeds))
	for name, mod := range seeds {
		globals[name] = mod
	}
	table := newSymbolTable(globals)

	var fns []value.Callable
	for i, src := range fragments {
		filename := fmt.Sprintf("functions[%d].star", i)

		f, err := fileOpts.Parse(filename, src, 0)
		if err != nil {
			return nil, &CompileError{Fragment: i, Err: err}
		}

		before := make(map[string]bool, len(globals))
		for name := range globals {
			before[name] = true
		}

		thread, stop := newThread(ctx, filename, p.logger)
		err = starlark.ExecREPLChunk(f, thread, globals)
		stop()
		if err != nil {
			var evalErr *starlark.EvalError
			if errors.As(err, &evalErr) {
				p.logger.Debug("fragment backtrace", "fragment", i, "backtrace", evalErr.Backtrace())
			}
			return nil, &CompileError{Fragment: i, Err: err}
		}

		// Keys() is sorted, so registration order is deterministic.
		for _, name := range globals.Keys() {
			if before[name] {
				continue
			}
			fn, ok := globals[name].(*starlark.Function)
			if !ok {
				continue
			}
			fns = append(fns, &starlarkFunc{name: name, fn: fn, table: table, logger: p.logger})
			p.logger.Debug("compiled function", "name", name, "fragment", i)
		}
	}
	return fns, nil
}

// starlarkFunc adapts one compiled function to the callable interface.
type starlarkFunc struct {
	name   string
	fn     *starlark.Function
	table  *symbolTable
	logger *slog.Logger
}

func (f *starlarkFunc) Name() string { return f.name }

// Call holds the namespace lock for the whole call so state mutated by
// the function is published to siblings only once the call completes.
func (f *starlarkFunc) Call(ctx context.Context, args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	release, err := f.table.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	sargs := make(starlark.Tuple, len(args))
	for i, arg := range args {
		sv, err := toStarlark(arg)
		if err != nil {
			return nil, fmt.Errorf("arg[%d]: %w", i, err)
		}
		sargs[i] = sv
	}
	skwargs := make([]starlark.Tuple, len(kwargs))
	for i, kw := range kwargs {
		sv, err := toStarlark(kw.Value)
		if err != nil {
			return nil, fmt.Errorf("kwargs[%s]: %w", kw.Name, err)
		}
		skwargs[i] = starlark.Tuple{starlark.String(kw.Name), sv}
	}

	thread, stop := newThread(ctx, f.name, f.logger)
	defer stop()

	res, err := starlark.Call(thread, f.fn, sargs, skwargs)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			f.logger.Debug("function backtrace", "function", f.name, "backtrace", evalErr.Backtrace())
		}
		return nil, err
	}
	out, err := fromStarlark(res)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	return out, nil
}

// newThread builds a thread whose prints go to the debug log and which
// is cancelled when ctx is. The returned stop func must be called once
// the thread is done with.
func newThread(ctx context.Context, name string, logger *slog.Logger) (*starlark.Thread, func()) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Debug("print", "thread", name, "msg", msg)
		},
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()
	return thread, func() { close(done) }
}
