package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/randomjson/internal/cli/output"
	"github.com/leapstack-labs/randomjson/pkg/generator"
)

// FunctionsOptions holds options for the functions command.
type FunctionsOptions struct {
	Group string
	JSON  bool
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	opts := &FunctionsOptions{}
	cmd := &cobra.Command{
		Use:   "functions [name]",
		Short: "List the built-in schema functions",
		Long: `Functions lists every builtin available to {{function|...}} nodes,
with its call signature and group. Pass a name to show a single builtin.`,
		Example: `  # All builtins as a table
  randomjson functions

  # Only the random group
  randomjson functions --group random

  # One builtin in detail
  randomjson functions rand

  # Machine-readable metadata
  randomjson functions --json`,
		Aliases:           []string{"builtins"},
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBuiltinNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runFunctions(cmd, name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Only list builtins in this group")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print builtin metadata as JSON")

	_ = cmd.RegisterFlagCompletionFunc("group", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return builtinGroups(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFunctions(cmd *cobra.Command, name string, opts *FunctionsOptions) error {
	cc := NewCommandContext(cmd)
	infos := generator.New(generator.Config{}).Builtins()

	if name != "" {
		for _, b := range infos {
			if b.Name == name {
				return showBuiltin(cc, b, opts.JSON)
			}
		}
		return fmt.Errorf("builtin %q not found", name)
	}

	if opts.Group != "" {
		var filtered []generator.BuiltinInfo
		for _, b := range infos {
			if b.Group == opts.Group {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no builtins in group %q", opts.Group)
		}
		infos = filtered
	}

	if opts.JSON {
		return cc.Renderer.JSON(infos)
	}
	return listBuiltinsTable(cc, infos)
}

func showBuiltin(cc *CommandContext, b generator.BuiltinInfo, asJSON bool) error {
	if asJSON {
		return cc.Renderer.JSON(b)
	}
	titleCaser := cases.Title(language.English)
	cc.Renderer.Header(1, b.Signature)
	cc.Renderer.Println(output.FormatKeyValue("Group", titleCaser.String(b.Group)))
	cc.Renderer.Println("")
	cc.Renderer.Println(b.Doc)
	return nil
}

// listBuiltinsTable renders the builtins in registry order, which keeps
// each group's functions together.
func listBuiltinsTable(cc *CommandContext, infos []generator.BuiltinInfo) error {
	titleCaser := cases.Title(language.English)

	t := table.NewWriter()
	t.SetOutputMirror(cc.Renderer.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Function", "Signature", "Group", "Description"})
	for _, b := range infos {
		t.AppendRow(table.Row{b.Name, b.Signature, titleCaser.String(b.Group), b.Doc})
	}
	t.Render()
	return nil
}

// builtinGroups returns the group names in first-appearance order.
func builtinGroups() []string {
	var groups []string
	seen := map[string]bool{}
	for _, b := range generator.New(generator.Config{}).Builtins() {
		if !seen[b.Group] {
			seen[b.Group] = true
			groups = append(groups, b.Group)
		}
	}
	return groups
}

func completeBuiltinNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	infos := generator.New(generator.Config{}).Builtins()
	names := make([]string, len(infos))
	for i, b := range infos {
		names[i] = b.Name
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
