package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/driver"
	"github.com/3065190005/Zelo/pkg/interpreter"
	"github.com/3065190005/Zelo/pkg/lexer"
	"github.com/3065190005/Zelo/pkg/macro"
	"github.com/3065190005/Zelo/pkg/module"
	"github.com/3065190005/Zelo/pkg/parser"
	"github.com/3065190005/Zelo/pkg/zerr"
)

const cliVersion = "zelo 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runRepl()
	}

	switch args[0] {
	case "-h", "--help":
		printUsage()
		return 0
	case "-v", "--version":
		fmt.Fprintln(os.Stdout, cliVersion)
		return 0
	case "-c", "--check":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "zelo --check requires a file argument")
			return 1
		}
		return runCheck(args[1])
	case "-e", "--eval":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "zelo --eval requires a code argument")
			return 1
		}
		return runEval(args[1])
	default:
		return runFile(args[0])
	}
}

// newLoader builds a module loader for the current working directory,
// extending its search path with any git-sourced dependencies named
// in a zelo.yaml manifest found there. A missing manifest is not an
// error — most scripts run without one.
func newLoader() *module.Loader {
	l := module.New()
	manifestPath := "zelo.yaml"
	if _, err := os.Stat(manifestPath); err != nil {
		return l
	}
	m, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load zelo.yaml: %v\n", err)
		return l
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	cacheDir = filepath.Join(cacheDir, "zelo")
	paths, err := m.ResolveGitSearchPaths(cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not resolve zelo.yaml dependencies: %v\n", err)
		return l
	}
	l.SetExtraSearchPaths(paths)
	return l
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  zelo                 start the REPL")
	fmt.Fprintln(os.Stderr, "  zelo -h | --help     print this message")
	fmt.Fprintln(os.Stderr, "  zelo -v | --version  print the version")
	fmt.Fprintln(os.Stderr, "  zelo -c FILE         lex, macro-expand, and parse FILE only")
	fmt.Fprintln(os.Stderr, "  zelo -e CODE         evaluate CODE")
	fmt.Fprintln(os.Stderr, "  zelo FILE            evaluate FILE")
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		return 1
	}
	interp := interpreter.New(newLoader())
	if _, err := evalSource(string(source), interp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runEval(code string) int {
	interp := interpreter.New(newLoader())
	if _, err := evalSource(code, interp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCheck(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		return 1
	}
	if _, err := parseSource(string(source)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRepl() int {
	interp := interpreter.New(newLoader())
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stdout, cliVersion)
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return 0
		case "help":
			printUsage()
			continue
		case "clear":
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
			continue
		}
		if _, err := evalSource(line, interp); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func parseSource(source string) ([]ast.Stmt, error) {
	tokens := lexer.New(source).Tokenize()
	expanded, err := macro.New().Process(tokens)
	if err != nil {
		return nil, err
	}
	statements, errs := parser.New(expanded).Parse()
	if len(errs) > 0 {
		return nil, firstError(errs)
	}
	return statements, nil
}

func evalSource(source string, interp *interpreter.Interpreter) (any, error) {
	statements, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	return interp.Run(statements)
}

func firstError(errs []*zerr.Error) error {
	return errs[0]
}
