package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/randomjson/internal/cli/output"
	"github.com/leapstack-labs/randomjson/pkg/generator"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

// watchDebounce delays regeneration until editor write bursts settle.
const watchDebounce = 100 * time.Millisecond

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Expr           string
	Vars           []string
	Count          int
	PreprocessOnly bool
	Watch          bool
	Out            string
	OutDir         string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [request]",
		Short: "Generate a JSON document from a schema request",
		Long: `Generate evaluates a schema request and prints the resulting JSON document.

A request is a JSON or YAML map with a "schema" member and optional
"variables" and "functions" members. Pass it as a file path, or - to read
from stdin. With --expr the schema is given inline and no request file is
needed.

Each invocation draws a fresh random seed unless one is pinned with
--seed, the random_seed config key, or RANDOMJSON_RANDOM_SEED.`,
		Example: `  # Generate from a request file
  randomjson generate request.json

  # Inline schema with a pinned seed
  randomjson generate -E '{"users": ["{{repeat}}", "{{const|3|int}}", {"id": ["{{function|uuid}}"]}]}' --seed 7

  # A thousand documents into a directory, one file each
  randomjson generate request.yaml -n 1000 --out-dir out/

  # Regenerate on every change to the request file
  randomjson generate request.yaml --watch`,
		Aliases: []string{"gen"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runGenerate(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "E", "", "Inline schema JSON instead of a request file")
	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "Bind a variable as name=value (value parsed as JSON, else string)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "Number of documents to generate")
	cmd.Flags().BoolVar(&opts.PreprocessOnly, "preprocess-only", false, "Expand macros and print the schema without evaluating it")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch the request file and regenerate on change")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Write numbered documents to a directory")

	return cmd
}

func runGenerate(cmd *cobra.Command, path string, opts *GenerateOptions) error {
	if opts.Out != "" && opts.OutDir != "" {
		return errors.New("cannot combine --out and --out-dir")
	}
	if opts.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", opts.Count)
	}

	cc := NewCommandContext(cmd)

	if opts.Watch {
		return watchGenerate(cmd, cc, path, opts)
	}
	return generateOnce(cmd, cc, path, opts)
}

func generateOnce(cmd *cobra.Command, cc *CommandContext, path string, opts *GenerateOptions) error {
	req, err := loadRequest(cmd, path, opts.Expr)
	if err != nil {
		return err
	}
	if err := applyVars(req, opts.Vars); err != nil {
		return err
	}
	if err := prependConfigFunctions(cc.Cfg, req); err != nil {
		return err
	}
	if opts.PreprocessOnly {
		req.PreprocessOnly = true
	}

	seed := cc.Cfg.EffectiveSeed()
	cc.Logger.Debug("generating documents", "seed", seed, "count", opts.Count)

	if opts.Count == 1 {
		gen := generator.New(generator.Config{Seed: seed, Logger: cc.Logger})
		doc, err := gen.Run(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeSingle(cc, opts.Out, doc)
	}

	docs, err := generateBatch(cmd.Context(), cc, req, seed, opts.Count)
	if err != nil {
		return err
	}
	return writeBatch(cc, opts, docs)
}

// generateBatch evaluates the request count times concurrently. Each
// document gets its own generator seeded seed+i, so a fixed seed yields
// the same batch regardless of scheduling, and counters stay
// per-document.
func generateBatch(ctx context.Context, cc *CommandContext, req *generator.Request, seed uint64, count int) ([]value.Value, error) {
	docs := make([]value.Value, count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range docs {
		g.Go(func() error {
			gen := generator.New(generator.Config{Seed: seed + uint64(i), Logger: cc.Logger})
			doc, err := gen.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func writeSingle(cc *CommandContext, outPath string, doc value.Value) error {
	if outPath == "" {
		return cc.Renderer.Document(doc)
	}
	data, err := encodeDocument(cc.Renderer.EffectiveMode(), doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	cc.Renderer.Success(fmt.Sprintf("Wrote %s", outPath))
	return nil
}

func writeBatch(cc *CommandContext, opts *GenerateOptions, docs []value.Value) error {
	mode := cc.Renderer.EffectiveMode()

	switch {
	case opts.OutDir != "":
		if err := os.MkdirAll(opts.OutDir, 0750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		for i, doc := range docs {
			name := filepath.Join(opts.OutDir, fmt.Sprintf("doc_%04d.json", i+1))
			data, err := encodeDocument(mode, doc)
			if err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}
			if err := os.WriteFile(name, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			cc.Renderer.StatusLine(name, "success", fmt.Sprintf("%d bytes", len(data)))
		}
		cc.Renderer.Success(fmt.Sprintf("Wrote %d documents to %s", len(docs), opts.OutDir))
		return nil

	case opts.Out != "":
		var buf bytes.Buffer
		for i, doc := range docs {
			data, err := encodeDocument(mode, doc)
			if err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}
			buf.Write(data)
		}
		if err := os.WriteFile(opts.Out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.Out, err)
		}
		cc.Renderer.Success(fmt.Sprintf("Wrote %d documents to %s", len(docs), opts.Out))
		return nil

	default:
		for _, doc := range docs {
			if err := cc.Renderer.Document(doc); err != nil {
				return err
			}
		}
		return nil
	}
}

func encodeDocument(mode output.Mode, doc value.Value) ([]byte, error) {
	var data []byte
	var err error
	if mode == output.ModePretty {
		data, err = value.EncodeJSONIndent(doc)
	} else {
		data, err = value.EncodeJSON(doc)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// watchGenerate regenerates on every change to the request file. The
// parent directory is watched because editors typically replace files by
// rename, which drops per-file watches.
func watchGenerate(cmd *cobra.Command, cc *CommandContext, path string, opts *GenerateOptions) error {
	if path == "" || path == "-" {
		return errors.New("--watch requires a request file")
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	regenerate := func() {
		if err := generateOnce(cmd, cc, path, opts); err != nil {
			cc.Renderer.Error(err.Error())
		}
	}

	regenerate()
	cc.Renderer.Muted(fmt.Sprintf("Watching %s, press Ctrl+C to stop", path))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Debounce timer
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-sigChan:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Only handle write/create events for the request file
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, regenerate)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Renderer.Warning(fmt.Sprintf("watch error: %v", err))
		}
	}
}
