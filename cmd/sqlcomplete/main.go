package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/tentacle-scylla/sqlcomplete/internal/config"
	"github.com/tentacle-scylla/sqlcomplete/internal/logging"
	"github.com/tentacle-scylla/sqlcomplete/internal/lsp"
	"github.com/tentacle-scylla/sqlcomplete/pkg/analyze"
	"github.com/tentacle-scylla/sqlcomplete/pkg/complete"
	"github.com/tentacle-scylla/sqlcomplete/pkg/format"
	"github.com/tentacle-scylla/sqlcomplete/pkg/hover"
	"github.com/tentacle-scylla/sqlcomplete/pkg/lint"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

var version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "sqlcomplete",
		Usage:   "Context-aware SQL completion, linting and formatting",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Read settings from a YAML, JSON or TOML file",
				EnvVars: []string{"SQLCOMPLETE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error (overrides the config file)",
			},
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "Schema snapshot file (.json, .yaml, .yml, .sql, .ddl)",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Introspect the schema from a database: sqlite or postgres",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Connection string for --driver",
			},
		},
		Commands: []*cli.Command{
			completeCmd(),
			lintCmd(),
			analyzeCmd(),
			formatCmd(),
			parseCmd(),
			tokensCmd(),
			hoverCmd(),
			schemaCmd(),
			serveCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// settings loads the configuration and applies the global flags on top.
func settings(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if file := c.String("schema"); file != "" {
		cfg.Schema.File = file
	}
	if driver := c.String("driver"); driver != "" {
		cfg.Schema.Driver = driver
		cfg.Schema.DSN = c.String("dsn")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environment returns the settings, a logger and the schema snapshot.
func environment(c *cli.Context) (*config.Config, *zap.Logger, *schema.Schema, error) {
	cfg, err := settings(c)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	s, err := cfg.LoadSchema(context.Background())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading schema: %w", err)
	}
	logger.Debug("schema loaded",
		zap.String("file", cfg.Schema.File),
		zap.String("driver", cfg.Schema.Driver),
		zap.Int("tables", s.TableCount()))
	return cfg, logger, s, nil
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Read SQL from file",
	}
}

func positionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "line",
			Aliases: []string{"l"},
			Value:   -1,
			Usage:   "Cursor line, 0-based (default: end of input)",
		},
		&cli.IntFlag{
			Name:    "column",
			Aliases: []string{"c"},
			Value:   -1,
			Usage:   "Cursor column in characters, 0-based (default: end of line)",
		},
	}
}

func completeCmd() *cli.Command {
	return &cli.Command{
		Name:    "complete",
		Aliases: []string{"c"},
		Usage:   "List completion candidates at a cursor position",
		Flags: append([]cli.Flag{
			fileFlag(),
			&cli.BoolFlag{
				Name:  "jupyter",
				Usage: "Prefix insert text with the trigger character (JupyterLab mode)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the completion result as JSON",
			},
		}, positionFlags()...),
		Action: func(c *cli.Context) error {
			cfg, logger, s, err := environment(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			input, err := getInput(c)
			if err != nil {
				return err
			}

			opts := complete.DefaultOptions()
			opts.JupyterLabMode = cfg.JupyterLabMode || c.Bool("jupyter")
			opts.Logger = logger

			result, err := complete.CompleteWithOptions(input, cursor(c, input), s, opts)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return printJSON(result)
			}
			for _, item := range result.Candidates {
				fmt.Printf("%-10s %s", item.Kind, item.Label)
				if item.Detail != "" {
					fmt.Printf("  (%s)", item.Detail)
				}
				fmt.Println()
			}
			if result.Error != nil {
				fmt.Fprintf(os.Stderr, "%d:%d: %s\n", result.Error.Line, result.Error.Offset, result.Error.Detail)
			}
			return nil
		},
	}
}

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:    "lint",
		Aliases: []string{"check"},
		Usage:   "Validate SQL syntax",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only output errors, no success message",
			},
		},
		Action: func(c *cli.Context) error {
			input, err := getInput(c)
			if err != nil {
				return err
			}

			results := lint.AnalyzeMultiple(input)
			hasErrors := false
			validStatements := 0

			for _, r := range results {
				if r.IsValid {
					validStatements++
					continue
				}
				hasErrors = true
				for _, e := range r.Errors {
					fmt.Fprintf(os.Stderr, "%s\n", e.Error())
					if e.Suggestion != "" {
						fmt.Fprintf(os.Stderr, "  suggestion: %s\n", e.Suggestion)
					}
				}
			}

			if !c.Bool("quiet") {
				if hasErrors {
					fmt.Fprintf(os.Stderr, "\n%d/%d statements valid\n", validStatements, len(results))
				} else {
					fmt.Printf("OK: %d statements valid\n", len(results))
				}
			}

			if hasErrors {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Check SQL against the schema and report risky statements",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{
				Name:  "warn-select-star",
				Usage: "Warn about SELECT *",
			},
			&cli.BoolFlag{
				Name:  "warn-no-limit",
				Usage: "Warn about SELECT without LIMIT",
			},
			&cli.IntFlag{
				Name:  "large-limit",
				Usage: "Warn when LIMIT exceeds this value (0 disables)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the analysis results as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			_, logger, s, err := environment(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			input, err := getInput(c)
			if err != nil {
				return err
			}

			opts := analyze.DefaultOptions()
			opts.Schema = s
			opts.WarnOnSelectStar = c.Bool("warn-select-star")
			opts.WarnOnNoLimit = c.Bool("warn-no-limit")
			opts.LargeLimitThreshold = c.Int("large-limit")

			results := analyze.AnalyzeMultiple(input, opts)
			if c.Bool("json") {
				if err := printJSON(results); err != nil {
					return err
				}
			} else {
				printAnalysis(results)
			}

			for _, r := range results {
				if r.HasErrors() {
					return cli.Exit("", 1)
				}
			}
			return nil
		},
	}
}

func printAnalysis(results []*analyze.Result) {
	for i, r := range results {
		fmt.Printf("Statement %d: %s\n", i+1, r.Type)
		for _, e := range r.SyntaxErrors {
			fmt.Printf("  error: %s\n", e.Error())
		}
		for _, e := range r.SchemaErrors {
			fmt.Printf("  error: %s%s\n", locationPrefix(e.Location), e.Message)
			if e.Suggestion != "" {
				fmt.Printf("    suggestion: %s\n", e.Suggestion)
			}
		}
		for _, w := range r.Warnings {
			fmt.Printf("  %s: %s%s\n", w.Severity, locationPrefix(w.Location), w.Message)
			if w.Suggestion != "" {
				fmt.Printf("    suggestion: %s\n", w.Suggestion)
			}
		}
		if !r.HasErrors() && !r.HasWarnings() {
			fmt.Println("  OK")
		}
	}
}

func locationPrefix(loc *types.Location) string {
	if loc == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d: ", loc.Start.Line, loc.Start.Column)
}

func formatCmd() *cli.Command {
	return &cli.Command{
		Name:    "format",
		Aliases: []string{"fmt"},
		Usage:   "Format SQL statements",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "Output compact single-line format",
			},
			&cli.BoolFlag{
				Name:  "lowercase",
				Usage: "Keep keywords as written",
			},
			&cli.StringFlag{
				Name:  "indent",
				Value: "    ",
				Usage: "Indentation string",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write result back to file (requires -f)",
			},
		},
		Action: func(c *cli.Context) error {
			input, err := getInput(c)
			if err != nil {
				return err
			}

			opts := format.DefaultOptions()
			if c.Bool("compact") {
				opts = format.CompactOptions()
			} else {
				opts.IndentString = c.String("indent")
			}
			if c.Bool("lowercase") {
				opts.UppercaseKeywords = false
			}

			output, err := format.String(input, opts)
			if err != nil {
				if errs, ok := err.(types.Errors); ok {
					for _, e := range errs {
						fmt.Fprintf(os.Stderr, "%s\n", e.Error())
					}
					return fmt.Errorf("cannot format invalid SQL")
				}
				return err
			}

			if c.Bool("write") && c.String("file") != "" {
				return os.WriteFile(c.String("file"), []byte(output+"\n"), 0644)
			}

			fmt.Println(output)
			return nil
		},
	}
}

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:    "parse",
		Aliases: []string{"p"},
		Usage:   "Parse SQL statements",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the syntax trees as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			input, err := getInput(c)
			if err != nil {
				return err
			}

			results := parse.Multiple(input)

			if c.Bool("json") {
				type parsed struct {
					Type      string       `json:"type"`
					Statement any          `json:"statement,omitempty"`
					Errors    types.Errors `json:"errors,omitempty"`
				}
				out := make([]parsed, 0, len(results))
				for _, r := range results {
					out = append(out, parsed{Type: r.Type.String(), Statement: r.Statement, Errors: r.Errors})
				}
				return printJSON(out)
			}

			for i, r := range results {
				fmt.Printf("Statement %d:\n", i+1)
				fmt.Printf("  Type:  %s\n", r.Type)
				fmt.Printf("  Valid: %v\n", r.IsValid())
				if r.HasErrors() {
					fmt.Printf("  Errors:\n")
					for _, e := range r.Errors {
						fmt.Printf("    - %s\n", e.Error())
					}
				}
				if i < len(results)-1 {
					fmt.Println()
				}
			}

			return nil
		},
	}
}

func tokensCmd() *cli.Command {
	return &cli.Command{
		Name:    "tokens",
		Aliases: []string{"t"},
		Usage:   "Print classified tokens for syntax highlighting",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output tokens as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			_, logger, s, err := environment(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			input, err := getInput(c)
			if err != nil {
				return err
			}

			tokens := tokenize.Tokenize(input, tokenContext(s))
			if c.Bool("json") {
				return printJSON(tokens)
			}
			for _, tok := range tokens {
				fmt.Printf("%d:%d\t%-18s %s\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Text)
			}
			return nil
		},
	}
}

// tokenContext lists the schema names used to classify identifiers.
func tokenContext(s *schema.Schema) *tokenize.Context {
	ctx := &tokenize.Context{}
	for _, t := range s.Tables {
		ctx.Tables = append(ctx.Tables, t.TableName)
		ctx.Columns = append(ctx.Columns, t.ColumnNames()...)
	}
	for _, f := range s.Functions {
		ctx.Functions = append(ctx.Functions, f.Name)
	}
	return ctx
}

func hoverCmd() *cli.Command {
	return &cli.Command{
		Name:  "hover",
		Usage: "Describe the token at a cursor position",
		Flags: append([]cli.Flag{fileFlag()}, positionFlags()...),
		Action: func(c *cli.Context) error {
			_, logger, s, err := environment(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			input, err := getInput(c)
			if err != nil {
				return err
			}

			offset := len(complete.TrimAfterCursor(input, cursor(c, input)))
			info := hover.GetHoverInfo(&hover.HoverContext{Query: input, Position: offset, Schema: s})
			if info == nil {
				return cli.Exit("nothing to describe at cursor", 1)
			}
			fmt.Println(info.Content)
			return nil
		},
	}
}

func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the schema snapshot selected by --schema or --driver",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "yaml",
				Usage: "Output YAML instead of JSON",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the snapshot as JSON to a file",
			},
		},
		Action: func(c *cli.Context) error {
			_, logger, s, err := environment(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if path := c.String("output"); path != "" {
				if err := s.SaveToJSON(path); err != nil {
					return err
				}
				logger.Info("schema written", zap.String("path", path), zap.Int("tables", s.TableCount()))
				return nil
			}

			var data []byte
			if c.Bool("yaml") {
				data, err = s.ToYAML()
			} else {
				data, err = s.ToJSONIndent()
			}
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimRight(string(data), "\n"))
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the language server on stdio",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "jupyter",
				Usage: "Prefix insert text with the trigger character (JupyterLab mode)",
			},
			&cli.IntFlag{
				Name:  "trace",
				Usage: "Verbosity of the protocol trace written to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, s, err := environment(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			srv := lsp.NewServer(lsp.Options{
				Schema:         s,
				JupyterLabMode: cfg.JupyterLabMode || c.Bool("jupyter"),
				Logger:         logger,
				Version:        version,
				Verbosity:      c.Int("trace"),
			})
			return srv.RunStdio()
		},
	}
}

// cursor returns the position named by --line and --column, defaulting to
// the end of the input.
func cursor(c *cli.Context, input string) types.Position {
	lines := strings.Split(input, "\n")
	line := c.Int("line")
	if line < 0 || line >= len(lines) {
		line = len(lines) - 1
	}
	column := c.Int("column")
	if width := utf8.RuneCountInString(lines[line]); column < 0 || column > width {
		column = width
	}
	return types.Position{Line: line, Column: column}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func getInput(c *cli.Context) (string, error) {
	if file := c.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	}

	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	// Interactive mode - read until empty line or EOF
	fmt.Fprintln(os.Stderr, "Enter SQL (empty line or Ctrl+D to finish):")
	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return strings.Join(lines, "\n"), nil
}
