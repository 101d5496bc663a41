package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/spec"
	cspec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	report *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into a lexer automaton and LR(1) parsing tables",
		Example: `  lrgen compile calc.lr -o calc.json -r calc-report.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "report file path (no report when empty)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	var grmPath string
	sourceName := "stdin"
	if len(args) > 0 {
		grmPath = args[0]
		sourceName = grmPath
	}
	defer func() {
		if retErr != nil {
			setErrorSource(retErr, grmPath, sourceName)
		}
	}()

	if grmPath == "" {
		var err error
		tmpDirPath, err = os.MkdirTemp("", "lrgen-compile-*")
		if err != nil {
			return err
		}

		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		grmPath = filepath.Join(tmpDirPath, "stdin.lr")
		err = os.WriteFile(grmPath, src, 0600)
		if err != nil {
			return err
		}
	}

	cgram, report, err := compileGrammarFile(grmPath, *compileFlags.report != "")
	if err != nil {
		return err
	}

	err = writeJSON(cgram, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write the compiled grammar: %w", err)
	}
	if report != nil {
		err = writeJSON(report, *compileFlags.report)
		if err != nil {
			return fmt.Errorf("Cannot write the report: %w", err)
		}

		overlaps := 0
		for _, s := range report.States {
			overlaps += len(s.Overlaps)
		}
		if overlaps > 0 {
			pterm.Warning.Println(fmt.Sprintf("%v shift/reduce overlaps resolved by shifting", overlaps))
		}
	}

	return nil
}

// compileGrammarFile reads, builds and compiles a grammar. The grammar is named after its file.
func compileGrammarFile(path string, reporting bool) (*cspec.CompiledGrammar, *cspec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, nil, err
	}

	b := grammar.GrammarBuilder{
		AST:  ast,
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	gram, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("grammar %v: %v terminals, %v non-terminals", gram.Name, len(gram.Terminals), len(gram.NonTerminals))

	var opts []grammar.CompileOption
	if reporting {
		opts = append(opts, grammar.EnableReporting())
	}
	return grammar.Compile(gram, opts...)
}

// setErrorSource lets spec errors quote the offending line of the grammar file.
func setErrorSource(err error, path, sourceName string) {
	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		for _, e := range specErrs {
			e.FilePath = path
			e.SourceName = sourceName
		}
		return
	}
	var specErr *verr.SpecError
	if errors.As(err, &specErr) {
		specErr.FilePath = path
		specErr.SourceName = sourceName
	}
}

// writeJSON writes v to a file, or to the stdout when the path is empty.
func writeJSON(v interface{}, path string) error {
	var w io.Writer
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}
