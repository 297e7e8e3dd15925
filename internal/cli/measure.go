package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/expedition"
)

// measureCommand records a fact on a measured metric.
func (c *CLI) measureCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "measure <document> [metric] <value>",
		Short: "Record a value for a metric",
		Long: `Record a value for a metric.

Without a metric caption an interactive picker lists every metric of the
document, starting at the first one that is due.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := c.parseAt(at)
			if err != nil {
				return err
			}
			raw := args[len(args)-1]
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return invalidInput("value must be a number, got %q", raw)
			}

			ctx := cmd.Context()
			doc, err := c.load(ctx, args[0])
			if err != nil {
				return err
			}

			var metric *expedition.Measured
			if len(args) == 3 {
				metric, err = measuredMetric(doc.exp, args[1])
			} else {
				metric, err = pickMetric(doc.exp.Metrics(), when)
				if err == nil && metric == nil {
					printInfo("Nothing recorded")
					return nil
				}
			}
			if err != nil {
				return err
			}

			metric.Measure(when, value)
			if err := c.save(ctx, doc); err != nil {
				return err
			}
			printSuccess("Recorded %s for %s on %s", StyleNumber.Render(formatNumber(value)),
				StyleHighlight.Render(metric.Caption.Get()), formatDay(when))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "date of the measurement (default: now)")

	return cmd
}

// measuredMetric finds the measured metric with caption.
func measuredMetric(exp *expedition.Expedition, caption string) (*expedition.Measured, error) {
	metric, ok := exp.FindMetric(caption)
	if !ok {
		return nil, invalidInput("no metric named %q", caption)
	}
	measured, ok := metric.(*expedition.Measured)
	if !ok {
		return nil, invalidInput("%q is a %s metric and is computed, not measured", caption, metric.TypeName())
	}
	return measured, nil
}
