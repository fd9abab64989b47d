package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/randomjson/pkg/generator"
)

// PreprocessOptions holds options for the preprocess command.
type PreprocessOptions struct {
	Expr string
}

// NewPreprocessCommand creates the preprocess command.
func NewPreprocessCommand() *cobra.Command {
	opts := &PreprocessOptions{}
	cmd := &cobra.Command{
		Use:   "preprocess [request]",
		Short: "Expand schema macros without evaluating them",
		Long: `Preprocess expands the macro shorthand in a schema and prints the
canonical form that generate would evaluate.

String macros such as "{{const|3|int}}" and "{{variable|name}}" become
their node maps, and lists headed by "{{function|...}}", "{{repeat}}", or
"{{cond}}" become the matching node form. Plain values pass through
untouched. The output is itself a valid schema, so preprocessing twice
changes nothing.`,
		Example: `  # Show the canonical form of a request's schema
  randomjson preprocess request.json

  # Expand an inline schema
  randomjson preprocess -E '["{{repeat}}", "{{const|3|int}}", ["{{function|uuid}}"]]'`,
		Aliases: []string{"pre"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runPreprocess(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "E", "", "Inline schema JSON instead of a request file")

	return cmd
}

func runPreprocess(cmd *cobra.Command, path string, opts *PreprocessOptions) error {
	cc := NewCommandContext(cmd)

	req, err := loadRequest(cmd, path, opts.Expr)
	if err != nil {
		return err
	}
	req.PreprocessOnly = true

	gen := generator.New(generator.Config{Logger: cc.Logger})
	doc, err := gen.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	return cc.Renderer.Document(doc)
}
