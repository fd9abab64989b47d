package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/randomjson/internal/cli/output"
	"github.com/leapstack-labs/randomjson/pkg/generator"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	Vars []string
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Evaluate schemas interactively",
		Long: `Repl starts an interactive session that evaluates one schema per
input. The session keeps a single generator, so counters keep counting
across inputs, variables persist, and loaded function files stay
available until the session ends.`,
		Example: `  # Start a session with a pinned seed and a variable
  randomjson repl --seed 7 --var user=alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "Bind a variable as name=value (value parsed as JSON, else string)")

	return cmd
}

// replSession holds the state shared by all inputs of one session. The
// generator persists so counters keep counting across schemas, and
// loaded function sources compile into every following run.
type replSession struct {
	cc        *CommandContext
	seed      uint64
	gen       *generator.Generator
	vars      *value.Map
	functions []string
}

func newREPLSession(cc *CommandContext, opts *REPLOptions) (*replSession, error) {
	s := &replSession{
		cc:   cc,
		vars: value.NewMap(),
	}

	req := &generator.Request{Variables: s.vars}
	if err := applyVars(req, opts.Vars); err != nil {
		return nil, err
	}
	if err := prependConfigFunctions(cc.Cfg, req); err != nil {
		return nil, err
	}
	s.functions = req.Functions

	s.reset(cc.Cfg.EffectiveSeed())
	return s, nil
}

// reset replaces the session generator, clearing counters and randomness.
func (s *replSession) reset(seed uint64) {
	s.seed = seed
	s.gen = generator.New(generator.Config{Seed: seed, Logger: s.cc.Logger})
}

// eval runs one schema through the session generator.
func (s *replSession) eval(ctx context.Context, input string, preprocessOnly bool) error {
	schema, err := value.DecodeJSON([]byte(input))
	if err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	doc, err := s.gen.Run(ctx, &generator.Request{
		Schema:         schema,
		Variables:      s.vars,
		Functions:      s.functions,
		PreprocessOnly: preprocessOnly,
	})
	if err != nil {
		return err
	}
	return s.cc.Renderer.Document(doc)
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
	cc := NewCommandContext(cmd)

	session, err := newREPLSession(cc, opts)
	if err != nil {
		return err
	}

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "randomjson> ",
		HistoryFile:     historyFilePath(),
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "randomjson REPL (seed: %d)\n", session.seed)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("randomjson> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Handle dot-commands, but only at statement start so schemas
		// containing strings like ".5" keep accumulating
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if handled := session.handleDotCommand(cmd, trimmed); handled {
				if trimmed == ".quit" || trimmed == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate multi-line schemas until braces balance
		multiLineBuffer.WriteString(line)
		if !balancedInput(multiLineBuffer.String()) {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("       ...> ")
			continue
		}
		rl.SetPrompt("randomjson> ")

		input := multiLineBuffer.String()
		multiLineBuffer.Reset()

		if err := session.eval(cmd.Context(), input, false); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	return nil
}

// balancedInput reports whether every brace and bracket outside string
// literals is closed, meaning the buffered input forms a complete schema.
func balancedInput(s string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				depth++
			}
		case '}', ']':
			if !inString {
				depth--
			}
		}
	}
	return depth <= 0 && !inString
}

func (s *replSession) handleDotCommand(cmd *cobra.Command, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := s.cc.Renderer

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".seed":
		if len(parts) < 2 {
			r.Println(output.FormatKeyValue("seed", strconv.FormatUint(s.seed, 10)))
			return true
		}
		seed, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .seed [number]")
			return true
		}
		s.reset(seed)
		r.Muted(fmt.Sprintf("reseeded with %d, counters cleared", seed))
		return true

	case ".reset":
		s.reset(s.seed)
		r.Muted("generator reset, counters cleared")
		return true

	case ".vars":
		if s.vars.Len() == 0 {
			r.Muted("no variables bound")
			return true
		}
		for _, name := range s.vars.Keys() {
			v, _ := s.vars.Get(name)
			if data, err := value.EncodeJSON(v); err == nil {
				r.Println(output.FormatKeyValue(name, string(data)))
			}
		}
		return true

	case ".var":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .var name=value")
			return true
		}
		binding := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		req := &generator.Request{Variables: s.vars}
		if err := applyVars(req, []string{binding}); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".unset":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .unset name")
			return true
		}
		s.vars.Delete(parts[1])
		return true

	case ".load":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .load <file.star>")
			return true
		}
		sources, err := readFunctionSources(parts[1:])
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return true
		}
		s.functions = append(s.functions, sources...)
		r.Muted(fmt.Sprintf("loaded %d file(s), functions compile on next evaluation", len(sources)))
		return true

	case ".functions":
		if n := len(s.functions); n > 0 {
			r.Println(output.FormatKeyValue("loaded fragments", strconv.Itoa(n)))
		}
		names := make([]string, 0, 24)
		for _, b := range s.gen.Builtins() {
			names = append(names, b.Name)
		}
		r.Println(output.FormatKeyValue("builtins", strings.Join(names, ", ")))
		return true

	case ".preprocess":
		rest := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		if rest == "" {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .preprocess <schema>")
			return true
		}
		if err := s.eval(cmd.Context(), rest, true); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                Show this help message
  .vars                List bound variables
  .var name=value      Bind a variable (value parsed as JSON, else string)
  .unset name          Remove a variable
  .load <file.star>    Load Starlark functions for following evaluations
  .functions           List loaded fragments and builtins
  .preprocess <schema> Expand macros without evaluating
  .seed [number]       Show or set the seed (setting clears counters)
  .reset               Fresh generator with the same seed
  .clear               Clear the screen
  .quit / .exit        Exit the REPL

Tips:
  - Multi-line schemas are read until braces and brackets balance
  - Use arrow keys to navigate history
  - Counters keep counting across evaluations until .reset or .seed
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFilePath places the history next to the user's other dotfiles,
// falling back to the temp dir.
func historyFilePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".randomjson_history")
	}
	return filepath.Join(os.TempDir(), ".randomjson_history")
}

// newREPLCompleter creates a readline completer for dot-commands.
func newREPLCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".vars"),
		readline.PcItem(".var"),
		readline.PcItem(".unset"),
		readline.PcItem(".load"),
		readline.PcItem(".functions"),
		readline.PcItem(".preprocess"),
		readline.PcItem(".seed"),
		readline.PcItem(".reset"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	return readline.NewPrefixCompleter(items...)
}
