package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/randomjson/pkg/generator"
)

// generateFunctionDocs generates the builtin function reference from the
// live registry, so signatures and docs never drift from the code.
func generateFunctionDocs(outDir string) error {
	log.Printf("Generating function docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Builtin Functions", "Functions every schema can call without defining them")
	w.GeneratedMarker()

	w.Header(1, "Builtin Functions")
	w.Paragraph("Every schema can call these without defining them. " +
		"A user-defined Starlark function of the same name replaces the builtin for that request.")
	w.CodeBlock("json", `{"id": ["{{function|uuid}}"]}`)

	builtins := generator.New(generator.Config{}).Builtins()

	// Group in first-seen order, which follows registration order.
	var groups []string
	byGroup := make(map[string][]generator.BuiltinInfo)
	for _, b := range builtins {
		if _, ok := byGroup[b.Group]; !ok {
			groups = append(groups, b.Group)
		}
		byGroup[b.Group] = append(byGroup[b.Group], b)
	}

	titleCaser := cases.Title(language.English)
	for _, group := range groups {
		w.Header(2, titleCaser.String(group))
		headers := []string{"Function", "Description"}
		var rows [][]string
		for _, b := range byGroup[group] {
			rows = append(rows, []string{InlineCode(b.Signature), cleanDescription(b.Doc)})
		}
		w.Table(headers, rows)
	}

	filename := filepath.Join(outDir, "functions.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated functions.md")
	return nil
}
