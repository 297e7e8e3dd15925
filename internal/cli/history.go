package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// listCommand lists the documents in the configured store.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			names, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No documents in the %s store", s.Backend())
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// historyCommand lists the saved revisions of a document.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "List the saved revisions of a document, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isFileRef(args[0]) {
				return invalidInput("history is kept for store documents only, not files")
			}
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			revs, err := s.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				printInfo("No revisions of %s", args[0])
				return nil
			}
			if limit > 0 && len(revs) > limit {
				revs = revs[:limit]
			}

			rows := make([][]string, len(revs))
			for i, r := range revs {
				rows[i] = []string{
					r.SavedAt.Local().Format(time.DateTime),
					r.ID.String()[:8],
					r.Hash[:12],
					fmt.Sprintf("%d B", r.Size),
				}
			}
			fmt.Println(renderTable([]string{"Saved", "Revision", "Hash", "Size"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n revisions")

	return cmd
}
