package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/expedition"
)

// initCommand creates a new, empty expedition document.
func (c *CLI) initCommand() *cobra.Command {
	var name string
	var force bool

	cmd := &cobra.Command{
		Use:   "init <document>",
		Short: "Create a new expedition document",
		Long: `Create a new expedition document.

The document is a store name (e.g. "health") or a path to a JSON file
(e.g. ./health.json).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ref := args[0]

			if !force {
				exists, err := c.exists(ctx, ref)
				if err != nil {
					return err
				}
				if exists {
					return invalidInput("%s already exists (use --force to replace it)", ref)
				}
			}

			if name == "" {
				name = ref
			}
			doc := newDocument(ref, expedition.New(name))
			if err := c.save(ctx, doc); err != nil {
				return err
			}

			printSuccess("Created %s", StyleHighlight.Render(ref))
			printNextStep("Add a mountain", appName+" add mountain "+ref+" <name>")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "expedition name (default: the document name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing document")

	return cmd
}
