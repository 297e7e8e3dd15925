package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/codec"
	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/expedition"
	"github.com/matzehuels/expedition/pkg/wire"
)

// validateCommand checks that a document loads, survives a round trip
// unchanged and has usable sources.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Check that a document loads and round-trips unchanged",
		Long: `Check that a document loads and round-trips unchanged.

The document is inflated, deflated again and compared with the stored tree.
A difference means the document is not in canonical form (run fmt) or
holds data the schema drops. With --strict, unknown fields are errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := c.raw(ctx, args[0])
			if err != nil {
				return err
			}

			var opts []codec.Option
			if strict {
				opts = append(opts, codec.DisallowUnknownFields())
			}
			problems, err := validateDocument(data, opts...)
			if errs.IsDocumentError(err) {
				printError("%s does not load", args[0])
			}
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				for _, p := range problems {
					printWarning("%s", p)
				}
				return invalidInput("%s has %d problems", args[0], len(problems))
			}
			printSuccess("%s is valid", StyleHighlight.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat unknown fields as errors")

	return cmd
}

// validateDocument returns the problems found in data. Documents that do
// not load at all return an error instead.
func validateDocument(data []byte, opts ...codec.Option) ([]string, error) {
	tree, err := wire.Unmarshal(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedDocument, err, "invalid JSON")
	}
	exp, err := codec.InflateObject(tree, expedition.ExpeditionType, opts...)
	if err != nil {
		return nil, err
	}

	var problems []string
	if diff, same := wire.Diff(tree, codec.DeflateObject(exp)); !same {
		problems = append(problems, "round trip changes the document at "+diff)
	}

	captions := map[string]int{}
	for _, m := range exp.Metrics() {
		caption := m.Info().Caption.Get()
		captions[strings.ToLower(caption)]++
		if caption == "" {
			problems = append(problems, fmt.Sprintf("a %s metric has no caption", m.TypeName()))
		}
		if expedition.ReadsItself(m) {
			problems = append(problems, fmt.Sprintf("metric %q reads itself through its inputs", caption))
		}
		measured, ok := m.(*expedition.Measured)
		if !ok {
			continue
		}
		measured.Source.IfThere(func(s expedition.Source) {
			if w, ok := s.(*expedition.Website); ok {
				if err := errs.ValidateURL(w.URL.Get()); err != nil {
					problems = append(problems, fmt.Sprintf("metric %q: %s", caption, errs.UserMessage(err)))
				}
			}
		})
	}
	for caption, n := range captions {
		if n > 1 && caption != "" {
			problems = append(problems, fmt.Sprintf("%d distinct metrics are captioned %q", n, caption))
		}
	}
	return problems, nil
}
