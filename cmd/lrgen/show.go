package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	tree *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  lrgen show calc-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.tree = cmd.Flags().Bool("tree", false, "print the states as a tree")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}
	names := newReportNames(report)

	pterm.DefaultSection.Println("Terminals")
	if err := pterm.DefaultTable.WithHasHeader().WithData(terminalTable(report)).Render(); err != nil {
		return err
	}
	pterm.DefaultSection.Println("Non-terminals")
	if err := pterm.DefaultTable.WithHasHeader().WithData(nonTerminalTable(report, names)).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("States")
	if *showFlags.tree {
		return pterm.DefaultTree.WithRoot(stateTree(report, names)).Render()
	}
	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

type reportNames struct {
	report   *spec.Report
	terms    map[int]string
	nonTerms map[int]string
}

func newReportNames(report *spec.Report) *reportNames {
	n := &reportNames{
		report:   report,
		terms:    map[int]string{},
		nonTerms: map[int]string{},
	}
	for _, t := range report.Terminals {
		n.terms[t.Num] = t.Name
	}
	for _, nt := range report.NonTerminals {
		n.nonTerms[nt.Num] = nt.Name
	}
	return n
}

func (n *reportNames) term(col int) string {
	if col == spec.EndmarkColumn {
		return "<endmark>"
	}
	return fmt.Sprintf("'%v'", n.terms[col])
}

func (n *reportNames) nonTerm(num int) string {
	return n.nonTerms[num]
}

func (n *reportNames) rhsSymbol(sym int) string {
	if sym > 0 {
		return n.term(sym)
	}
	return n.nonTerm(-sym)
}

func (n *reportNames) rule(num int) string {
	r := n.report.Rules[num]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", n.nonTerm(r.LHS))
	if len(r.RHS) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range r.RHS {
		fmt.Fprintf(&b, " %v", n.rhsSymbol(sym))
	}
	if r.Action != "" {
		fmt.Fprintf(&b, " & %v", r.Action)
	}
	return b.String()
}

func (n *reportNames) item(item *spec.Item) string {
	r := n.report.Rules[item.Rule]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", n.nonTerm(r.LHS))
	for i, sym := range r.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", n.rhsSymbol(sym))
	}
	if item.Dot >= len(r.RHS) {
		fmt.Fprintf(&b, " ・")
	}
	fmt.Fprintf(&b, ", %v", n.term(item.Lookahead))
	return b.String()
}

func (n *reportNames) termList(cols []int) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = n.term(c)
	}
	return strings.Join(names, " ")
}

func terminalTable(report *spec.Report) pterm.TableData {
	data := pterm.TableData{
		{"Num", "Name", "Type", "Action", "Patterns"},
	}
	for _, t := range report.Terminals {
		data = append(data, []string{
			fmt.Sprint(t.Num),
			t.Name,
			t.Type,
			t.Action,
			strings.Join(t.Patterns, " "),
		})
	}
	return data
}

func nonTerminalTable(report *spec.Report, names *reportNames) pterm.TableData {
	data := pterm.TableData{
		{"Num", "Name", "Type", "Nullable", "FIRST", "FOLLOW"},
	}
	for _, nt := range report.NonTerminals {
		data = append(data, []string{
			fmt.Sprint(nt.Num),
			nt.Name,
			nt.Type,
			fmt.Sprint(nt.Nullable),
			names.termList(nt.First),
			names.termList(nt.Follow),
		})
	}
	return data
}

func stateTree(report *spec.Report, names *reportNames) pterm.TreeNode {
	root := pterm.TreeNode{
		Text: report.Name,
	}
	for _, s := range report.States {
		state := pterm.TreeNode{
			Text: fmt.Sprintf("state %v", s.Num),
		}
		for _, item := range s.Kernel {
			state.Children = append(state.Children, pterm.TreeNode{
				Text: names.item(item),
			})
		}
		for _, line := range stateActionLines(s, names) {
			state.Children = append(state.Children, pterm.TreeNode{
				Text: line,
			})
		}
		root.Children = append(root.Children, state)
	}
	return root
}

func stateActionLines(s *spec.StateReport, names *reportNames) []string {
	var lines []string
	for _, a := range s.Shift {
		lines = append(lines, fmt.Sprintf("shift  %4v on %v", a.State, names.term(a.Terminal)))
	}
	for _, a := range s.Reduce {
		lines = append(lines, fmt.Sprintf("reduce %4v on %v", a.Rule, names.term(a.Terminal)))
	}
	if s.Accept {
		lines = append(lines, fmt.Sprintf("accept      on %v", names.term(spec.EndmarkColumn)))
	}
	if s.DefaultReduce != spec.DefaultReduceNil {
		lines = append(lines, fmt.Sprintf("reduce %4v by default", s.DefaultReduce))
	}
	for _, g := range s.GoTo {
		lines = append(lines, fmt.Sprintf("goto   %4v on %v", g.State, names.nonTerm(g.NonTerminal)))
	}
	for _, o := range s.Overlaps {
		lines = append(lines, fmt.Sprintf("shift/reduce overlap on %v: shift adopted over reducing by rule %v", names.term(o.Terminal), o.Rule))
	}
	return lines
}

const reportTemplate = `# Overlaps

{{ printOverlapSummary . }}

# Rules

{{ range $i, $r := .Rules -}}
{{ printRule $i }}
{{ end }}
# States
{{ range .States }}
## State {{ .Num }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range printActions . -}}
{{ . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	names := newReportNames(report)

	fns := template.FuncMap{
		"printOverlapSummary": func(report *spec.Report) string {
			count := 0
			for _, s := range report.States {
				count += len(s.Overlaps)
			}
			switch count {
			case 0:
				return "No overlap"
			case 1:
				return "1 shift/reduce overlap resolved by shifting."
			}
			return fmt.Sprintf("%v shift/reduce overlaps resolved by shifting.", count)
		},
		"printRule": func(num int) string {
			return fmt.Sprintf("%4v %v", num, names.rule(num))
		},
		"printItem": func(item *spec.Item) string {
			return fmt.Sprintf("%4v %v", item.Rule, names.item(item))
		},
		"printActions": func(s *spec.StateReport) []string {
			return stateActionLines(s, names)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
