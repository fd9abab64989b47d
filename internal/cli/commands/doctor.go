package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/randomjson/internal/cli/config"
	"github.com/leapstack-labs/randomjson/internal/cli/output"
	"github.com/leapstack-labs/randomjson/internal/funcs"
	"github.com/leapstack-labs/randomjson/pkg/generator"
	"github.com/leapstack-labs/randomjson/pkg/schema"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	JSON bool
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [directory]",
		Short: "Check a schema project for problems",
		Long: `Check that a schema project is in working order.

The doctor verifies three things:
  - the project configuration loads and the seed policy is sound
  - every configured Starlark function file reads and compiles
  - every request document under the project parses

A request document is any .json, .yaml or .yml file that is not the
project configuration itself. Directories starting with "." or "_"
are skipped.`,
		Example: `  # Check the current directory
  randomjson doctor

  # Check another project, machine-readable
  randomjson doctor my-project --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runDoctor(cmd, opts, dir)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the report as JSON")

	return cmd
}

// HealthCheck is one verified property of the project.
type HealthCheck struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	Status string `json:"status"` // "pass", "warn", "fail", "skip"
	Detail string `json:"detail,omitempty"`
}

// DoctorReport is the JSON output for the doctor command.
type DoctorReport struct {
	Checks   []HealthCheck `json:"checks"`
	Problems int           `json:"problems"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions, dir string) error {
	cc := NewCommandContext(cmd)

	checks := collectDoctorChecks(cmd.Context(), cc, dir)

	problems := 0
	for _, c := range checks {
		if c.Status == "fail" {
			problems++
		}
	}
	report := &DoctorReport{Checks: checks, Problems: problems}

	if opts.JSON {
		if err := cc.Renderer.JSON(report); err != nil {
			return err
		}
	} else {
		renderDoctorText(cc.Renderer, report)
	}

	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	return nil
}

func collectDoctorChecks(ctx context.Context, cc *CommandContext, dir string) []HealthCheck {
	var checks []HealthCheck
	checks = append(checks, configChecks(cc.Cfg)...)
	checks = append(checks, functionChecks(ctx, cc)...)
	checks = append(checks, schemaChecks(cc, dir)...)
	return checks
}

func configChecks(cfg *config.Config) []HealthCheck {
	var checks []HealthCheck

	if file := config.GetConfigFileUsed(); file != "" {
		checks = append(checks, HealthCheck{
			Name: "config file", Group: "config", Status: "pass", Detail: file,
		})
	} else {
		checks = append(checks, HealthCheck{
			Name: "config file", Group: "config", Status: "warn",
			Detail: "no randomjson.yaml found, defaults in effect",
		})
	}

	if cfg.RandomSeed >= 0 {
		checks = append(checks, HealthCheck{
			Name: "seed", Group: "config", Status: "pass",
			Detail: fmt.Sprintf("pinned to %d", cfg.RandomSeed),
		})
	} else {
		checks = append(checks, HealthCheck{
			Name: "seed", Group: "config", Status: "warn",
			Detail: "not pinned, every invocation draws fresh entropy",
		})
	}

	return checks
}

func functionChecks(ctx context.Context, cc *CommandContext) []HealthCheck {
	if len(cc.Cfg.Functions) == 0 {
		return []HealthCheck{{
			Name: "function files", Group: "functions", Status: "skip",
			Detail: "none configured",
		}}
	}

	var checks []HealthCheck
	var sources []string
	readable := true
	for _, path := range cc.Cfg.Functions {
		data, err := os.ReadFile(path)
		if err != nil {
			checks = append(checks, HealthCheck{
				Name: path, Group: "functions", Status: "fail", Detail: err.Error(),
			})
			readable = false
			continue
		}
		checks = append(checks, HealthCheck{Name: path, Group: "functions", Status: "pass"})
		sources = append(sources, string(data))
	}
	if !readable {
		return checks
	}

	compiled, err := funcs.NewStarlarkProvider(cc.Logger).Compile(ctx, sources)
	if err != nil {
		checks = append(checks, HealthCheck{
			Name: "compile", Group: "functions", Status: "fail", Detail: err.Error(),
		})
		return checks
	}
	checks = append(checks, HealthCheck{
		Name: "compile", Group: "functions", Status: "pass",
		Detail: fmt.Sprintf("%d functions", len(compiled)),
	})
	return checks
}

func schemaChecks(cc *CommandContext, dir string) []HealthCheck {
	files, err := discoverRequestFiles(dir)
	if err != nil {
		return []HealthCheck{{
			Name: dir, Group: "schemas", Status: "fail", Detail: err.Error(),
		}}
	}
	if len(files) == 0 {
		return []HealthCheck{{
			Name: "request documents", Group: "schemas", Status: "warn",
			Detail: "none found",
		}}
	}

	gen := generator.New(generator.Config{Logger: cc.Logger})
	checks := make([]HealthCheck, 0, len(files))
	for _, file := range files {
		check := HealthCheck{Name: file, Group: "schemas", Status: "pass"}
		if err := checkRequestFile(gen, file); err != nil {
			check.Status = "fail"
			check.Detail = err.Error()
		}
		checks = append(checks, check)
	}
	return checks
}

// discoverRequestFiles walks dir for request documents, skipping hidden
// and underscore directories and the project configuration file.
func discoverRequestFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if name == "randomjson.yaml" || name == "randomjson.yml" {
			return nil
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// checkRequestFile verifies that one request document decodes and that
// its schema parses after macro expansion. Nothing is evaluated.
func checkRequestFile(gen *generator.Generator, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	raw, err := decodeRequestData(path, data)
	if err != nil {
		return err
	}
	req, err := generator.ParseRequest(raw)
	if err != nil {
		return err
	}
	// A preprocess-only request never parses its schema at run time,
	// so an unparseable schema is not a problem there.
	if req.PreprocessOnly {
		return nil
	}
	if _, err := schema.ParseDocument(gen.Preprocess(req.Schema)); err != nil {
		return err
	}
	return nil
}

func renderDoctorText(r *output.Renderer, report *DoctorReport) {
	styles := r.Styles()

	r.Header(1, "Project health")
	group := ""
	for _, check := range report.Checks {
		if check.Group != group {
			group = check.Group
			r.Muted(group)
		}
		switch check.Status {
		case "pass":
			r.StatusLine(check.Name, "success", check.Detail)
		case "fail":
			r.StatusLine(check.Name, "failed", check.Detail)
		case "skip":
			r.StatusLine(check.Name, "skipped", check.Detail)
		default:
			r.StatusLine(check.Name, styles.Warning.Render("!"), check.Detail)
		}
	}

	if report.Problems == 0 {
		r.Success("no problems found")
	}
}
