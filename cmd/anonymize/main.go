// Command anonymize applies column transforms to a CSV or Parquet table and
// optionally replaces its column names with opaque identifiers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/io/csvio"
	iox "github.com/wdm0006/anonymizer/pkg/io/ioutils"
	"github.com/wdm0006/anonymizer/pkg/io/parquetio"
	"github.com/wdm0006/anonymizer/pkg/logger"
	"github.com/wdm0006/anonymizer/pkg/pipeline"
	"github.com/wdm0006/anonymizer/pkg/profile"
)

var (
	version = "0.1.0-dev"
)

const summaryTopK = 5

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type app struct {
	configPath string
	delimiter  string
	summary    bool
	logLevel   string
	logFormat  string
	stages     map[string]*[]string

	logger *slog.Logger
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code: 0 on success,
// 2 for usage errors and 1 for everything else.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stages: map[string]*[]string{}}
	cmd := a.command()
	cmd.SetArgs(expandArgs(args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Error: %v\nRun '%s --help' for usage.\n", err, cmd.Name())
		return 2
	}
	if a.logger != nil {
		a.logger.Error("anonymize failed", "error", err)
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anonymize INPUT OUTPUT",
		Short: "Normalize and anonymize the columns of a table",
		Long: `anonymize reads INPUT, applies the requested stages in a fixed order
(remove, min-max-scale, binarize, categorize, fill, clamp, round), renames the
columns given to --feature-anonymize to 0, 1, 2... and writes OUTPUT with one
"# <stage> <args>" line per applied stage above the table.

Stage flags take every following value up to the next flag, so put INPUT and
OUTPUT first. Quote the wildcard: --feature-anonymize '*'.
Paths ending in .parquet are read and written as Parquet, .gz is compressed
and - means stdin or stdout.`,
		Example: `  anonymize people.csv out.csv --feature-round age 5 --feature-anonymize '*'
  anonymize people.csv out.csv --feature-clamp score 0 1 --feature-categorize dept
  anonymize --config run.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return usageError{fmt.Errorf("accepts at most 2 args, received %d", len(args))}
			}
			return nil
		},
		RunE: a.runE,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	f := cmd.Flags()
	f.StringVarP(&a.configPath, "config", "c", "", "config file (.json, .yaml, .yml or .toml)")
	f.StringVar(&a.delimiter, "delimiter", ",", "CSV field delimiter: a character, tab or auto")
	f.BoolVar(&a.summary, "summary", false, "print a per-column summary of the output to stderr")
	f.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (env ANONYMIZE_LOG_LEVEL)")
	f.StringVar(&a.logFormat, "log-format", "", "text or json (env ANONYMIZE_LOG_FORMAT)")
	for _, s := range stageFlags {
		v := new([]string)
		a.stages[s.key] = v
		f.StringArrayVar(v, s.flag, nil, s.usage)
	}
	return cmd
}

func (a *app) runE(cmd *cobra.Command, args []string) error {
	ec, err := loadEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		ec.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		ec.LogFormat = a.logFormat
	}
	level, err := logger.ParseLevel(ec.LogLevel)
	if err != nil {
		return usageError{err}
	}
	format, err := logger.ParseFormat(ec.LogFormat)
	if err != nil {
		return usageError{err}
	}
	a.logger = logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithAttr(slog.String("run_id", uuid.NewString())),
	)

	cfg, err := a.resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	delim, sniff, err := parseDelimiter(cfg.Delimiter)
	if err != nil {
		return usageError{err}
	}

	p, err := pipeline.Build(cfg.options(), pipeline.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.logger.Debug("pipeline built", "stages", p.Stages())

	f, outDelim, err := a.load(cfg.Input, delim, sniff)
	if err != nil {
		return err
	}
	a.logger.Info("loaded input", "path", cfg.Input, "rows", f.Rows(), "cols", f.Cols())

	res, err := p.Run(cmd.Context(), f)
	if err != nil {
		return err
	}

	if iox.Ext(cfg.Output) == ".parquet" {
		err = parquetio.WriteAll(cfg.Output, res.Frame, res.Log)
	} else {
		err = csvio.WriteAll(cfg.Output, res.Frame, csvio.WriterOptions{Delimiter: outDelim, Log: res.Log})
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	a.logger.Info("wrote output", "path", cfg.Output, "rows", res.Frame.Rows(), "cols", res.Frame.Cols(), "records", res.Log.Len())

	if cfg.Summary {
		fmt.Fprint(cmd.ErrOrStderr(), profile.Summarize(res.Frame, summaryTopK).Text())
	}
	return nil
}

// resolveConfig layers the config file, positional paths and flags that were
// set explicitly, in that order.
func (a *app) resolveConfig(cmd *cobra.Command, args []string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if a.configPath != "" {
		c, err := loadConfig(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}
	if cfg.Input == "" || cfg.Output == "" {
		return nil, usageError{errors.New("requires INPUT and OUTPUT paths")}
	}
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Delimiter = a.delimiter
	}
	if flags.Changed("summary") {
		cfg.Summary = a.summary
	}
	for _, s := range stageFlags {
		if flags.Changed(s.flag) {
			*cfg.stage(s.key) = *a.stages[s.key]
		}
	}
	return cfg, nil
}

// load reads the input and returns the delimiter to write CSV output with.
func (a *app) load(path string, delim rune, sniff bool) (*frame.Frame, rune, error) {
	if iox.Ext(path) == ".parquet" {
		f, lines, err := parquetio.Load(path)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", path, err)
		}
		if len(lines) > 0 {
			a.logger.Debug("input carries a transform log", "records", len(lines))
		}
		if sniff {
			delim = ','
		}
		return f, delim, nil
	}
	f, r, err := csvio.Load(path, csvio.ReaderOptions{Delimiter: delim, Sniff: sniff})
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if w := r.Warnings(); w != "" {
		a.logger.Warn("input had ragged rows", "path", path, "detail", w)
	}
	return f, r.Delimiter(), nil
}
