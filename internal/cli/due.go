package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/expedition"
)

// dueCommand lists the metrics that need a new measurement.
func (c *CLI) dueCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "due <document>",
		Short: "List metrics that are due for a measurement",
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

			due := doc.exp.DueMetrics(now)
			if len(due) == 0 {
				printSuccess("Nothing is due")
				return nil
			}
			printInfo("%d metrics due", len(due))
			for _, m := range due {
				printKeyValue(m.Info().Caption.Get(), lastSeen(m))
			}
			printNewline()
			printNextStep("Record a value", appName+" measure "+args[0]+" <metric> <value>")
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "check due metrics at this date (default: now)")

	return cmd
}

// lastSeen describes when m was last measured.
func lastSeen(m expedition.Metric) string {
	measured, ok := m.(*expedition.Measured)
	if !ok {
		return ""
	}
	last, ok := measured.Last()
	if !ok {
		return StyleDim.Render("never measured")
	}
	return StyleDim.Render("last " + formatNumber(last.Value.Get()) + " on " + formatDay(last.At.Get()))
}
