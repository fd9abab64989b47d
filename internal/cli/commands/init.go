package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/randomjson/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new schema project",
		Long: `Initialize a new schema project.

This creates:
  - randomjson.yaml with a pinned seed and a function library entry
  - schemas/ with a starter request document
  - lib/helpers.star for shared Starlark functions

Use --example for a fuller project with several schemas showing
repeats, conditionals, counters and user-defined functions.`,
		Example: `  # Initialize in the current directory
  randomjson init

  # Initialize a new directory with the example project
  randomjson init my-project --example

  # Overwrite existing files
  randomjson init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			tmpl := "minimal"
			if example {
				tmpl = "example"
			}
			cc := NewCommandContext(cmd)
			return runInit(cc.Renderer, dir, tmpl, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create a fuller example project")

	return cmd
}

func runInit(r *output.Renderer, dir, tmpl string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "randomjson.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("randomjson.yaml already exists, use --force to overwrite")
	}

	created, err := copyTemplate(tmpl, dir, force)
	if err != nil {
		return fmt.Errorf("initialize project: %w", err)
	}

	groups := groupTemplateFiles(created)
	for _, group := range []string{"config", "schemas", "lib"} {
		if len(groups[group]) == 0 {
			continue
		}
		r.Muted(group)
		for _, f := range groups[group] {
			r.StatusLine(f, "success", "")
		}
	}

	r.Success("project initialized")
	r.Muted("")
	r.Muted("Next steps:")
	if tmpl == "example" {
		r.Muted("  randomjson generate schemas/users.json")
		r.Muted("  randomjson repl")
		r.Muted("  randomjson doctor")
	} else {
		r.Muted("  1. Put request documents in schemas/")
		r.Muted("  2. Add shared functions to lib/helpers.star")
		r.Muted("  3. Run 'randomjson generate schemas/example.json'")
	}

	return nil
}
