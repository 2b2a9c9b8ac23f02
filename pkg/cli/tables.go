package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/evaluator"
)

const maxExpressionWidth = 60

// now is replaced in tests.
var now = time.Now

func newTable() table.Writer {
	tw := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	return tw
}

// RuleList is a list of rules with a table layout in text output.
type RuleList []*rules.Rule

// RenderText implements TextRenderer.
func (l RuleList) RenderText() string {
	if len(l) == 0 {
		return "No rules stored."
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Name", "Conditions", "Expression", "Created"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMax: maxExpressionWidth},
	})
	for _, r := range l {
		tw.AppendRow(table.Row{r.ID, r.Name, r.Conditions(), r.Expression, humanize.RelTime(r.CreatedAt, now(), "ago", "from now")})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d rule(s)", len(l))})
	return tw.Render()
}

// RuleDetail shows a single rule with its tree.
type RuleDetail struct {
	*rules.Rule
}

// RenderText implements TextRenderer.
func (d RuleDetail) RenderText() string {
	tw := newTable()
	tw.AppendRow(table.Row{"ID", d.ID})
	tw.AppendRow(table.Row{"Name", d.Name})
	tw.AppendRow(table.Row{"Expression", d.Expression})
	tw.AppendRow(table.Row{"Tree", d.Tree.String()})
	tw.AppendRow(table.Row{"Conditions", d.Conditions()})
	if len(d.Sources) > 0 {
		tw.AppendRow(table.Row{"Combined from", fmt.Sprint(d.Sources)})
	}
	tw.AppendRow(table.Row{"Created", humanize.RelTime(d.CreatedAt, now(), "ago", "from now")})
	if !d.UpdatedAt.Equal(d.CreatedAt) {
		tw.AppendRow(table.Row{"Updated", humanize.RelTime(d.UpdatedAt, now(), "ago", "from now")})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: maxExpressionWidth}})
	return tw.Render()
}

// EvaluationResult is the outcome of an eval command.
type EvaluationResult struct {
	RuleID string                 `json:"rule_id,omitempty"`
	Result bool                   `json:"result"`
	Trace  []evaluator.TraceEntry `json:"trace,omitempty"`
}

// RenderText implements TextRenderer.
func (r EvaluationResult) RenderText() string {
	out := fmt.Sprintf("Result: %t", r.Result)
	if len(r.Trace) == 0 {
		return out
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"Attribute", "Op", "Expected", "Actual", "Matched"})
	for _, e := range r.Trace {
		actual := fmt.Sprint(e.Actual)
		if e.Missing {
			actual = "(missing)"
		}
		tw.AppendRow(table.Row{e.Attribute, string(e.Operator), fmt.Sprint(e.Expected), actual, boolMark(e.Matched)})
	}
	return out + "\n" + tw.Render()
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
