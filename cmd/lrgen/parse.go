package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/lrgen/driver"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source      *string
	interactive *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <compiled grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | lrgen parse calc.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.interactive = cmd.Flags().BoolP("interactive", "i", false, "parse lines read interactively")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	if *parseFlags.interactive {
		return repl(cgram)
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	tree, synErrs, err := parse(cgram, src)
	if err != nil {
		return err
	}
	if len(synErrs) > 0 {
		for _, synErr := range synErrs {
			pterm.Error.Println(formatSyntaxError(synErr))
		}
		return fmt.Errorf("%v syntax errors", len(synErrs))
	}
	driver.PrintTree(os.Stdout, tree)
	return nil
}

// repl parses each line as a separate input until EOF.
func repl(cgram *spec.CompiledGrammar) error {
	rl, err := readline.New(cgram.Name + "> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("Quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}

		tree, synErrs, err := parse(cgram, strings.NewReader(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if len(synErrs) > 0 {
			for _, synErr := range synErrs {
				pterm.Error.Println(formatSyntaxError(synErr))
			}
			continue
		}
		var b strings.Builder
		driver.PrintTree(&b, tree)
		pterm.Println(b.String())
	}
	return nil
}

func parse(cgram *spec.CompiledGrammar, src io.Reader) (*driver.Node, []*driver.SyntaxError, error) {
	treeAct := driver.NewSyntaxTreeActionSet(cgram)
	p, err := driver.NewParser(cgram, src, driver.SemanticAction(treeAct))
	if err != nil {
		return nil, nil, err
	}
	err = p.Parse()
	if err != nil {
		return nil, nil, err
	}
	if synErrs := p.SyntaxErrors(); len(synErrs) > 0 {
		return nil, synErrs, nil
	}
	return treeAct.CST(), nil, nil
}

func formatSyntaxError(synErr *driver.SyntaxError) string {
	tok := synErr.Token

	var msg string
	switch {
	case tok.EOF:
		msg = "<eof>"
	case tok.Invalid:
		msg = fmt.Sprintf("'%v' (<invalid>)", tok.Text)
	default:
		msg = fmt.Sprintf("'%v'", tok.Text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v: %v: %v", synErr.Row+1, synErr.Col+1, synErr.Message, msg)
	if len(synErr.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(synErr.ExpectedTerminals, ", "))
	}
	return b.String()
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}
