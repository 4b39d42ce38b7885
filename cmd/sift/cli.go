package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/filter"
	"github.com/hpungsan/sift/internal/ops"
	"github.com/hpungsan/sift/internal/store"
	"github.com/hpungsan/sift/internal/web"
)

// maxStdinBytes bounds a value piped via stdin.
const maxStdinBytes = 1 << 20

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st store.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "sift",
		Usage:   "String analysis store",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(),
			createCmd(st),
			getCmd(st),
			deleteCmd(st),
			listCmd(st),
			queryCmd(st),
			exportCmd(st, cfg),
			importCmd(st, cfg),
			serveCmd(st, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// analyzeCmd creates the analyze command.
func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Compute string properties without storing (reads stdin if VALUE is omitted)",
		ArgsUsage: "VALUE",
		Action: func(c *cli.Context) error {
			value, err := valueArg(c, true)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, ops.Analyze(ops.AnalyzeInput{Value: value}))
		},
	}
}

// createCmd creates the create command.
func createCmd(st store.Store) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Analyze and store a string (reads stdin if VALUE is omitted)",
		ArgsUsage: "VALUE",
		Action: func(c *cli.Context) error {
			value, err := valueArg(c, true)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Create(c.Context, st, ops.CreateInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// getCmd creates the get command.
func getCmd(st store.Store) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a stored string by exact value",
		ArgsUsage: "VALUE",
		Action: func(c *cli.Context) error {
			value, err := valueArg(c, false)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Fetch(c.Context, st, ops.FetchInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st store.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a stored string",
		ArgsUsage: "VALUE",
		Action: func(c *cli.Context) error {
			value, err := valueArg(c, false)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Delete(c.Context, st, ops.DeleteInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(st store.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored strings, optionally filtered",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "is-palindrome", Usage: "Palindromes only (--is-palindrome=false for non-palindromes)"},
			&cli.IntFlag{Name: "min-length", Usage: "Minimum length in characters"},
			&cli.IntFlag{Name: "max-length", Usage: "Maximum length in characters"},
			&cli.IntFlag{Name: "word-count", Usage: "Exact word count"},
			&cli.StringFlag{Name: "contains-character", Aliases: []string{"c"}, Usage: "Substring the value must contain (case-sensitive)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, st, ops.ListInput{Params: listParams(c)})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// listParams maps the list flags that were set to filter parameters.
func listParams(c *cli.Context) map[string]string {
	params := make(map[string]string)
	if c.IsSet("is-palindrome") {
		params[filter.ParamIsPalindrome] = strconv.FormatBool(c.Bool("is-palindrome"))
	}
	ints := map[string]string{
		"min-length": filter.ParamMinLength,
		"max-length": filter.ParamMaxLength,
		"word-count": filter.ParamWordCount,
	}
	for flag, param := range ints {
		if c.IsSet(flag) {
			params[param] = strconv.Itoa(c.Int(flag))
		}
	}
	if c.IsSet("contains-character") {
		params[filter.ParamContainsCharacter] = c.String("contains-character")
	}
	return params
}

// queryCmd creates the query command.
func queryCmd(st store.Store) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Filter stored strings with a natural-language query",
		ArgsUsage: "TEXT",
		Action: func(c *cli.Context) error {
			// Unquoted queries arrive as several args
			text := strings.Join(c.Args().Slice(), " ")

			output, err := ops.Query(c.Context, st, ops.QueryInput{Query: text})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all strings to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file path (default: <home>/exports/sift-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, st, cfg, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import strings from a JSONL export file",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("path is required"))
			}

			output, err := ops.Import(c.Context, st, cfg, ops.ImportInput{Path: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (default from config: 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config: 8080)"},
		},
		Action: func(c *cli.Context) error {
			bind, port := cfg.Bind, cfg.Port
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(st, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.SiftError
	if stderrors.As(err, &sErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// valueArg returns the first positional argument. With fromStdin, a missing
// argument is read from piped stdin instead.
func valueArg(c *cli.Context, fromStdin bool) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	if fromStdin && stdinHasData() {
		value, err := readStdin(maxStdinBytes)
		if err != nil {
			return "", errors.NewInvalidRequest(err.Error())
		}
		return value, nil
	}
	return "", errors.NewInvalidRequest("VALUE is required")
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin and drops one trailing newline.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
