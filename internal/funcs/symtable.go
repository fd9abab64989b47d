package funcs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.starlark.net/starlark"
)

// CollisionError reports user symbols that shadow names reserved by the
// interpreter runtime.
type CollisionError struct {
	Names []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("cannot bind reserved names: %s", strings.Join(e.Names, ", "))
}

// symbolTable is the single namespace shared by every function compiled
// from one batch of fragments. Calls lock the table for their full
// duration, so state written by one function is visible to the next
// call and concurrent callers never interleave half-applied state.
type symbolTable struct {
	mu    sync.Mutex
	table starlark.StringDict
}

func newSymbolTable(globals starlark.StringDict) *symbolTable {
	return &symbolTable{table: globals}
}

// acquire locks the table and validates it against the reserved
// namespace. The returned release func must be called once the call
// finishes so sibling functions can observe any mutated state.
func (s *symbolTable) acquire() (func(), error) {
	s.mu.Lock()
	if clash := s.collisions(); len(clash) > 0 {
		s.mu.Unlock()
		return nil, &CollisionError{Names: clash}
	}
	return s.mu.Unlock, nil
}

// collisions lists table entries that shadow a universal builtin or
// rebind one of the preloaded modules to something else.
func (s *symbolTable) collisions() []string {
	var clash []string
	for name, v := range s.table {
		if _, ok := starlark.Universe[name]; ok {
			clash = append(clash, name)
			continue
		}
		if seed, ok := seeds[name]; ok && v != seed {
			clash = append(clash, name)
		}
	}
	sort.Strings(clash)
	return clash
}
