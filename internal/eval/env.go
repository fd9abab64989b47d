// Package eval turns parsed schema trees into concrete values: an
// environment of variables and functions, the eager sequential evaluator,
// and the vanish pass that strips absent values before output.
package eval

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// VariableNotFoundError reports a variable node naming an unbound variable.
type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable %s not found", e.Name)
}

// FunctionNotFoundError reports a function node naming an unregistered
// function.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function %s not found", e.Name)
}

// VariableTable binds names to values. Set overwrites silently; shadowing
// is the intended way to override a binding.
type VariableTable struct {
	vars map[string]value.Value
}

// NewVariableTable returns an empty table.
func NewVariableTable() *VariableTable {
	return &VariableTable{vars: make(map[string]value.Value)}
}

// Set binds name to v, overwriting any existing binding.
func (t *VariableTable) Set(name string, v value.Value) {
	t.vars[name] = v
}

// Get returns the value bound to name.
func (t *VariableTable) Get(name string) (value.Value, error) {
	v, ok := t.vars[name]
	if !ok {
		return nil, &VariableNotFoundError{Name: name}
	}
	return v, nil
}

// Has reports whether name is bound.
func (t *VariableTable) Has(name string) bool {
	_, ok := t.vars[name]
	return ok
}

// Names returns the bound names, sorted.
func (t *VariableTable) Names() []string {
	names := make([]string, 0, len(t.vars))
	for name := range t.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FunctionTable binds names to callables. Set overwrites silently; user
// functions shadow builtins by registering last.
type FunctionTable struct {
	funcs map[string]value.Callable
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{funcs: make(map[string]value.Callable)}
}

// Set registers fn under name, overwriting any existing registration.
func (t *FunctionTable) Set(name string, fn value.Callable) {
	t.funcs[name] = fn
}

// Get returns the callable registered under name.
func (t *FunctionTable) Get(name string) (value.Callable, error) {
	fn, ok := t.funcs[name]
	if !ok {
		return nil, &FunctionNotFoundError{Name: name}
	}
	return fn, nil
}

// Has reports whether name is registered.
func (t *FunctionTable) Has(name string) bool {
	_, ok := t.funcs[name]
	return ok
}

// Names returns the registered names, sorted.
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Environment pairs the variable and function tables for one run.
type Environment struct {
	Variables *VariableTable
	Functions *FunctionTable
}

// NewEnvironment returns an environment with empty tables.
func NewEnvironment() *Environment {
	return &Environment{
		Variables: NewVariableTable(),
		Functions: NewFunctionTable(),
	}
}
