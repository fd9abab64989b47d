package schema_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSchemaImportsOnly verifies pkg/schema only imports allowed packages.
// The Golden Rule: pkg/schema imports ONLY pkg/value and stdlib.
func TestSchemaImportsOnly(t *testing.T) {
	// Allowed imports for pkg/schema
	allowedExternal := map[string]bool{
		"github.com/leapstack-labs/randomjson/pkg/value": true,
	}

	fset := token.NewFileSet()

	schemaDir := "."

	entries, err := os.ReadDir(schemaDir)
	if err != nil {
		t.Fatalf("Failed to read schema directory: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		// Skip test files
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(schemaDir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}

		for _, imp := range f.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)

			// Allow stdlib (no dots in path)
			if !strings.Contains(importPath, ".") {
				continue
			}

			if !allowedExternal[importPath] {
				t.Errorf("%s imports forbidden package: %s", entry.Name(), importPath)
			}
		}
	}
}

// TestSchemaDoesNotImportInternal verifies pkg/schema doesn't import any
// internal packages. The parser is pure: raw values in, nodes out.
func TestSchemaDoesNotImportInternal(t *testing.T) {
	fset := token.NewFileSet()
	schemaDir := "."

	entries, err := os.ReadDir(schemaDir)
	if err != nil {
		t.Fatalf("Failed to read schema directory: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(schemaDir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}

		for _, imp := range f.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)

			if strings.Contains(importPath, "/internal/") {
				t.Errorf("%s imports internal package: %s (schema must stay importable on its own)", entry.Name(), importPath)
			}
		}
	}
}
