package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/io"
)

// fmtCommand rewrites a document in canonical form.
func (c *CLI) fmtCommand() *cobra.Command {
	var check, stdout bool

	cmd := &cobra.Command{
		Use:   "fmt <document>",
		Short: "Rewrite a document in canonical form",
		Long: `Rewrite a document in canonical form: two-space indented JSON, fields in
schema order and shared objects numbered in first-reuse order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ref := args[0]

			before, err := c.raw(ctx, ref)
			if err != nil {
				return err
			}
			doc, err := c.load(ctx, ref)
			if err != nil {
				return err
			}
			after, err := io.Marshal(doc.exp)
			if err != nil {
				return err
			}

			switch {
			case stdout:
				_, err := cmd.OutOrStdout().Write(after)
				return err
			case bytes.Equal(before, after):
				printSuccess("%s is already formatted", ref)
				return nil
			case check:
				return invalidInput("%s is not formatted", ref)
			}

			if err := c.save(ctx, doc); err != nil {
				return err
			}
			printSuccess("Formatted %s", StyleHighlight.Render(ref))
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "fail instead of rewriting when the document is not formatted")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the formatted document instead of saving it")

	return cmd
}
