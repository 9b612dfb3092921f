package main

import (
	"errors"
	"fmt"
	"io"
	"mini-lang/internal/diag"
	"mini-lang/internal/lexer"
	"mini-lang/internal/parser"
	"mini-lang/internal/runtime"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"
)

// ---- ANSI colors ----

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// palette applies ANSI colors, or nothing when color is off.
type palette bool

func (p palette) paint(color, s string) string {
	if !p {
		return s
	}
	return color + s + colorReset
}

// ---- repl command ----

func cmdRepl(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	pal := palette(cfg.Color())

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            pal.paint(colorGreen, "mini> "),
		HistoryFile:       cfg.HistoryFile(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		pal.paint(colorBold+colorCyan, "mini-lang REPL"),
		pal.paint(colorGray, "(type 'vars' to list variables, 'exit' or Ctrl+D to quit)"))

	interp := runtime.NewInterpreterWithOptions(rl.Stdout(), cfg.Options())
	var accumulated strings.Builder
	braceDepth := 0

	for {
		// Update prompt based on multi-line state
		if braceDepth > 0 {
			rl.SetPrompt(pal.paint(colorGray, "...   "))
		} else {
			rl.SetPrompt(pal.paint(colorGreen, "mini> "))
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s\n", pal.paint(colorGray, "(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return nil
			case "vars":
				printVars(rl.Stdout(), interp.Env(), pal)
				continue
			}
		}

		// Count braces for multi-line input
		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		evalChunk(rl, interp, source, pal)
	}
	return nil
}

// evalChunk runs one complete chunk of input against the session interpreter.
// Declarations persist across chunks.
func evalChunk(rl *readline.Instance, interp *runtime.Interpreter, source string, pal palette) {
	tokens, lexDiags := lexer.New(source, "<repl>").Tokenize()
	if diag.HasErrors(lexDiags) {
		printDiagsColored(rl.Stderr(), lexDiags, pal)
		return
	}

	program, parseDiags := parser.New(tokens).ParseProgram()
	printDiagsColored(rl.Stderr(), parseDiags, pal)
	if diag.HasErrors(parseDiags) {
		return
	}

	if err := interp.Run(program); err != nil {
		fmt.Fprintln(rl.Stderr(), pal.paint(colorRed, "error: "+err.Error()))
	}
}

// printVars lists the session variables with their types and values.
func printVars(w io.Writer, env *runtime.Environment, pal palette) {
	names := env.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, pal.paint(colorGray, "(no variables)"))
		return
	}
	for _, name := range names {
		v, _ := env.Lookup(name)
		value := runtime.FormatNumber(v.Value())
		if !v.Initialized {
			value += pal.paint(colorGray, " (uninitialized)")
		}
		fmt.Fprintf(w, "%s %s = %s\n", pal.paint(colorCyan, v.Type.String()), name, value)
	}
}

// printDiagsColored prints errors in red and warnings in yellow.
func printDiagsColored(w io.Writer, diags []diag.Diagnostic, pal palette) {
	for _, d := range diags {
		color := colorRed
		if d.Severity == diag.Warning {
			color = colorYellow
		}
		fmt.Fprintln(w, pal.paint(color, d.String()))
	}
}
