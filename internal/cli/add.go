package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/expedition"
	"github.com/matzehuels/expedition/pkg/model"
)

// addCommand groups the commands that grow a document.
func (c *CLI) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add mountains, goals and indicators to a document",
	}

	cmd.AddCommand(c.addMountainCommand())
	cmd.AddCommand(c.addGoalCommand())
	cmd.AddCommand(c.addIndicatorCommand())

	return cmd
}

func (c *CLI) addMountainCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "mountain <document> <name>",
		Short: "Add a mountain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.load(ctx, args[0])
			if err != nil {
				return err
			}
			if _, ok := findMountain(doc.exp, args[1]); ok {
				return invalidInput("mountain %q already exists", args[1])
			}
			doc.exp.Mountains.Add().Create(func(m *expedition.Mountain) {
				m.Name.Set(args[1])
				if reason != "" {
					m.Reason.Set(reason)
				}
			})
			if err := c.save(ctx, doc); err != nil {
				return err
			}
			printSuccess("Added mountain %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the mountain is worth climbing")

	return cmd
}

func (c *CLI) addGoalCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "goal <document> <mountain> <caption>",
		Short: "Add a goal to a mountain",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.load(ctx, args[0])
			if err != nil {
				return err
			}
			m, ok := findMountain(doc.exp, args[1])
			if !ok {
				return invalidInput("no mountain named %q", args[1])
			}
			m.Goals.Add().Create(func(g *expedition.Goal) {
				g.Caption.Set(args[2])
				if description != "" {
					g.Description.Set(description)
				}
			})
			if err := c.save(ctx, doc); err != nil {
				return err
			}
			printSuccess("Added goal %s to %s", StyleHighlight.Render(args[2]), args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "goal description")

	return cmd
}

// indicatorOpts holds the flags of "add indicator".
type indicatorOpts struct {
	metric  string        // caption of the metric; reused when it exists
	goal    string        // add as a criterion of this goal instead
	every   time.Duration // measurement frequency for new metrics
	url     string        // website source for new metrics
	ok      float64
	good    float64
	hasOk   bool
	hasGood bool
}

func (c *CLI) addIndicatorCommand() *cobra.Command {
	var opts indicatorOpts

	cmd := &cobra.Command{
		Use:   "indicator <document> <mountain> <caption>",
		Short: "Add an indicator backed by a measured metric",
		Long: `Add an indicator backed by a measured metric.

If a metric with the given caption already exists anywhere in the document,
the indicator points at that metric instead of creating a new one, and both
indicators share its facts.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasOk = cmd.Flags().Changed("ok")
			opts.hasGood = cmd.Flags().Changed("good")
			if opts.url != "" {
				if err := errs.ValidateURL(opts.url); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			doc, err := c.load(ctx, args[0])
			if err != nil {
				return err
			}
			shared, err := addIndicator(doc.exp, args[1], args[2], opts)
			if err != nil {
				return err
			}
			if err := c.save(ctx, doc); err != nil {
				return err
			}

			printSuccess("Added indicator %s", StyleHighlight.Render(args[2]))
			if shared {
				printDetail("Shares the existing metric %q", metricCaption(opts, args[2]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.metric, "metric", "", "metric caption (default: the indicator caption)")
	cmd.Flags().StringVar(&opts.goal, "goal", "", "add as a criterion of this goal")
	cmd.Flags().DurationVar(&opts.every, "every", 0, "how often the metric should be measured (e.g. 24h)")
	cmd.Flags().StringVar(&opts.url, "url", "", "website the metric is read from")
	cmd.Flags().Float64Var(&opts.ok, "ok", 0, "threshold for an acceptable value")
	cmd.Flags().Float64Var(&opts.good, "good", 0, "threshold for a good value")

	return cmd
}

func metricCaption(opts indicatorOpts, caption string) string {
	if opts.metric != "" {
		return opts.metric
	}
	return caption
}

// addIndicator adds an indicator to a mountain or one of its goals and
// reports whether it reuses an existing metric.
func addIndicator(exp *expedition.Expedition, mountain, caption string, opts indicatorOpts) (bool, error) {
	m, ok := findMountain(exp, mountain)
	if !ok {
		return false, invalidInput("no mountain named %q", mountain)
	}

	list := m.Indicators
	if opts.goal != "" {
		g, ok := findGoal(m, opts.goal)
		if !ok {
			return false, invalidInput("mountain %q has no goal %q", mountain, opts.goal)
		}
		list = g.Criteria
	}

	metricName := metricCaption(opts, caption)
	existing, shared := exp.FindMetric(metricName)

	ind := list.Add().Create(func(i *expedition.Indicator) {
		i.Caption.Set(caption)
		if opts.hasOk {
			i.Ok.Set(opts.ok)
		}
		if opts.hasGood {
			i.Good.Set(opts.good)
		}
	})

	if shared {
		ind.Metric.Point(existing)
		return true, nil
	}

	_, err := ind.Metric.CreateAs(expedition.MeasuredType.Name(), func(metric expedition.Metric) {
		measured := metric.(*expedition.Measured)
		measured.Caption.Set(metricName)
		if opts.every > 0 {
			measured.SetFrequency(opts.every)
		}
		if opts.url != "" {
			measured.Source.Set(newWebsite(opts.url))
		}
	})
	return false, err
}

func newWebsite(url string) *expedition.Website {
	w := expedition.WebsiteType.Create()
	w.URL.Set(url)
	return w
}

func findMountain(exp *expedition.Expedition, name string) (*expedition.Mountain, bool) {
	for _, m := range model.Objects(exp.Mountains) {
		if strings.EqualFold(m.Name.Get(), name) {
			return m, true
		}
	}
	return nil, false
}

func findGoal(m *expedition.Mountain, caption string) (*expedition.Goal, bool) {
	for _, g := range model.Objects(m.Goals) {
		if strings.EqualFold(g.Caption.Get(), caption) {
			return g, true
		}
	}
	return nil, false
}
