package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/expedition"
)

// showCommand prints the status of every mountain.
func (c *CLI) showCommand() *cobra.Command {
	var at string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <document>",
		Short: "Show mountains, goals and the latest value of every indicator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := c.parseAt(at)
			if err != nil {
				return err
			}
			doc, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status := doc.exp.Status(now)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}
			printStatus(status)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "show the state at this date (default: now)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")

	return cmd
}

func printStatus(s expedition.Status) {
	fmt.Println(StyleTitle.Render(s.Name))
	if len(s.Mountains) == 0 {
		printInfo("No mountains yet")
		return
	}

	for _, m := range s.Mountains {
		printNewline()
		fmt.Println(StyleHighlight.Bold(true).Render("▲ " + m.Name))
		if m.Reason != "" {
			printDetail("%s", m.Reason)
		}
		if len(m.Indicators) > 0 {
			fmt.Println(renderTable(indicatorHeaders, indicatorRows(m.Indicators)))
		}
		for _, g := range m.Goals {
			fmt.Println("  " + StyleValue.Render("◆ "+g.Caption))
			if g.Description != "" {
				printDetail("%s", g.Description)
			}
			if len(g.Criteria) > 0 {
				fmt.Println(renderTable(indicatorHeaders, indicatorRows(g.Criteria)))
			}
		}
	}
}

var indicatorHeaders = []string{"Indicator", "Metric", "Last", "Ok", "Good", "State"}

func indicatorRows(indicators []expedition.IndicatorStatus) [][]string {
	rows := make([][]string, 0, len(indicators))
	for _, i := range indicators {
		metric, last, state := "—", "—", ""
		if i.Metric != nil {
			metric = i.Metric.Caption
			if n := len(i.Metric.Data); n > 0 {
				d := i.Metric.Data[n-1]
				last = formatNumber(d.Value) + StyleDim.Render(" "+formatDay(d.At))
				state = judge(d.Value, i.Ok, i.Good)
			}
			if i.Metric.Due {
				state += StyleWarning.Render(" due")
			}
		}
		rows = append(rows, []string{i.Caption, metric, last, formatOptional(i.Ok), formatOptional(i.Good), state})
	}
	return rows
}

// judge rates value against the thresholds. When good is below ok, lower
// values are better.
func judge(value float64, ok, good *float64) string {
	better := func(a, b float64) bool { return a >= b }
	if ok != nil && good != nil && *good < *ok {
		better = func(a, b float64) bool { return a <= b }
	}
	switch {
	case good != nil && better(value, *good):
		return StyleSuccess.Render(iconSuccess + " good")
	case ok != nil && better(value, *ok):
		return StyleValue.Render("ok")
	case ok != nil || good != nil:
		return styleIconError.Render(iconError + " below")
	}
	return ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return "—"
	}
	return formatNumber(*f)
}

func formatDay(t time.Time) string {
	return t.Format(time.DateOnly)
}
