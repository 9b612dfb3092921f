// Command mini is the CLI entry point for the mini-lang toolchain.
//
// Usage:
//
//	mini tokens <file>             Print tokens
//	mini tokens <file> --json      Write the token interchange file
//	mini parse  <file>             Print AST as JSON
//	mini parse  <file> --repr      Print the Go AST structure
//	mini run    <file>             Run a source file
//	mini run    <file> --tokens    Run a token interchange file
//	mini repl                      Start interactive REPL
//
// Global flags: --config <mini.yml>, --trace.
package main

import (
	"errors"
	"fmt"
	"mini-lang/internal/ast"
	"mini-lang/internal/config"
	"mini-lang/internal/diag"
	"mini-lang/internal/lexer"
	"mini-lang/internal/parser"
	"mini-lang/internal/runtime"
	"mini-lang/internal/token"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// errReported means the diagnostics were already printed; only the exit
// status is left to set.
var errReported = errors.New("errors reported")

func main() {
	app := &cli.App{
		Name:  "mini",
		Usage: "mini-lang toolchain",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the configuration file (default: ./" + config.DefaultFile + " if present)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print a stack trace with source for toolchain errors",
			},
		},
		ExitErrHandler: handleExitErr,
		Commands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "tokenize a source file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "write the token interchange file to stdout"},
				},
				Action: cmdTokens,
			},
			{
				Name:      "parse",
				Usage:     "parse a source file and print the AST",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "repr", Usage: "print the Go structure instead of JSON"},
				},
				Action: cmdParse,
			},
			{
				Name:      "run",
				Usage:     "run a source file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "tokens", Usage: "read a token interchange file instead of source"},
				},
				Action: cmdRun,
			},
			{
				Name:   "repl",
				Usage:  "start interactive REPL",
				Action: cmdRepl,
			},
		},
	}
	app.Run(os.Args)
}

func handleExitErr(c *cli.Context, err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		if c.Bool("trace") {
			tracerr.PrintSourceColor(err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	os.Exit(1)
}

func fileArg(c *cli.Context) (string, error) {
	filename := c.Args().First()
	if filename == "" {
		return "", tracerr.New("missing file argument")
	}
	return filename, nil
}

func readFile(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", tracerr.Wrap(fmt.Errorf("cannot read file %s: %w", filename, err))
	}
	return string(source), nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return cfg, nil
}

// ---- tokens command ----

func cmdTokens(c *cli.Context) error {
	filename, err := fileArg(c)
	if err != nil {
		return err
	}
	source, err := readFile(filename)
	if err != nil {
		return err
	}

	tokens, diags := lexer.New(source, filename).Tokenize()
	if c.Bool("json") {
		if err := token.WriteJSON(os.Stdout, tokens); err != nil {
			return tracerr.Wrap(err)
		}
		printDiagsText(diags)
	} else {
		printTokensText(tokens, diags)
	}

	if diag.HasErrors(diags) {
		return errReported
	}
	return nil
}

// ---- parse command ----

func cmdParse(c *cli.Context) error {
	filename, err := fileArg(c)
	if err != nil {
		return err
	}
	source, err := readFile(filename)
	if err != nil {
		return err
	}

	tokens, lexDiags := lexer.New(source, filename).Tokenize()
	program, parseDiags := parser.New(tokens).ParseProgram()
	allDiags := append(lexDiags, parseDiags...)

	if c.Bool("repr") {
		repr.Println(program)
		printDiagsText(allDiags)
	} else {
		output := map[string]interface{}{
			"ast":         ast.NodeToMap(program),
			"diagnostics": diagsToSlice(allDiags),
		}
		if err := printJSON(output); err != nil {
			return err
		}
	}

	if diag.HasErrors(allDiags) {
		return errReported
	}
	return nil
}

// ---- run command ----

func cmdRun(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	filename, err := fileArg(c)
	if err != nil {
		return err
	}

	var tokens []token.Token
	if c.Bool("tokens") {
		tokens, err = readTokenFile(filename)
		if err != nil {
			return err
		}
	} else {
		source, err := readFile(filename)
		if err != nil {
			return err
		}
		var lexDiags []diag.Diagnostic
		tokens, lexDiags = lexer.New(source, filename).Tokenize()
		if diag.HasErrors(lexDiags) {
			printDiagsText(lexDiags[:1])
			return errReported
		}
	}

	// Parse
	program, parseDiags := parser.New(tokens).ParseProgram()
	printDiagsText(parseDiags)
	if diag.HasErrors(parseDiags) {
		return errReported
	}

	// Interpret
	interp := runtime.NewInterpreterWithOptions(os.Stdout, cfg.Options())
	if err := interp.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errReported
	}
	return nil
}

func readTokenFile(filename string) ([]token.Token, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, tracerr.Wrap(fmt.Errorf("cannot read file %s: %w", filename, err))
	}
	defer file.Close()

	tokens, err := token.ReadJSON(file)
	if err != nil {
		return nil, tracerr.Wrap(fmt.Errorf("%s: %w", filename, err))
	}
	return tokens, nil
}
