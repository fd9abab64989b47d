//go:build governance

package value_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/randomjson"

// =============================================================================
// COHESION TEST - Value exports must be shared by multiple packages
// =============================================================================

// TestGovernance_ValueCohesion verifies that exported names in pkg/value are
// genuinely shared across multiple packages. Single-use names should be moved
// to their sole consumer to maintain cohesion.
func TestGovernance_ValueCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	// Find pkg/value and collect exported names
	valueDefs := make(map[types.Object]string)
	var valuePkg *packages.Package

	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/value" {
			valuePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				obj := scope.Lookup(name)
				if obj.Exported() {
					valueDefs[obj] = name
				}
			}
			break
		}
	}

	if valuePkg == nil {
		t.Fatal("Could not find pkg/value")
	}

	// Count usages: exported name -> set of importing packages
	usageMap := make(map[string]map[string]bool)
	for _, name := range valueDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"

	for _, p := range pkgs {
		// Skip value itself and test packages
		if p.PkgPath == valuePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") {
			continue
		}
		if p.TypesInfo == nil {
			continue
		}

		for _, info := range p.TypesInfo.Uses {
			if name, exists := valueDefs[info]; exists {
				importer := strings.TrimPrefix(p.PkgPath, base)
				usageMap[name][importer] = true
			}
		}
	}

	// Report violations
	for name, importers := range usageMap {
		if isCohesionAllowlisted(name) {
			continue
		}

		if len(importers) == 0 {
			t.Logf("WARNING: Unused value export: %s (consider deleting)", name)
		} else if len(importers) == 1 {
			var user string
			for k := range importers {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'value.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move it from pkg/value to %s.",
				name, user, user)
		}
	}
}

// isCohesionAllowlisted returns true for names allowed to have single usage.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		"Null":       true, // Scalar variant; documents mint nulls through decoding
		"Float":      true, // Scalar variant; only the arithmetic builtins construct it
		"Func":       true, // Public adapter for embedding callables in values
		"Equal":      true, // Comparison helpers sit behind the comparison builtins
		"Compare":    true,
		"DecodeJSON": true, // Process-boundary decoders, their callers live in the CLI
		"DecodeYAML": true,
	}
	return allowlist[name]
}

// =============================================================================
// PURITY TEST - No type alias re-exports of value kinds
// =============================================================================

// TestGovernance_NoValueAliasReexports ensures higher layers do not re-export
// value kinds or schema nodes as aliases. Consumers should name value.X and
// schema.X directly so every layer shares one vocabulary.
func TestGovernance_NoValueAliasReexports(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	// Packages that should NOT re-export lower-layer types as aliases
	forbiddenAliasPatterns := map[string][]string{
		modulePath + "/pkg/schema": {
			"Value", "Null", "Bool", "Int", "Float", "String",
			"List", "Map", "Absent", "Callable", "Kwarg", "Kind",
		},
		modulePath + "/pkg/generator": {
			"Value", "Null", "Bool", "Int", "Float", "String",
			"List", "Map", "Absent", "Callable", "Kwarg",
			"Node", "Term", "Document", "Const", "Variable",
			"Function", "Repeat", "Cond", "CondArm",
		},
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			continue
		}

		forbidden, isForbiddenPkg := forbiddenAliasPatterns[pkg.PkgPath]
		if !isForbiddenPkg {
			continue
		}

		forbiddenSet := make(map[string]bool)
		for _, name := range forbidden {
			forbiddenSet[name] = true
		}

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}

			if typeName, ok := obj.(*types.TypeName); ok {
				if typeName.IsAlias() && forbiddenSet[name] {
					t.Errorf("PURITY VIOLATION: Package '%s' re-exports type alias '%s'.\n"+
						"   Fix: Remove the alias. Consumers should use the defining package's %s directly.",
						strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), name, name)
				}
			}
		}
	}
}
