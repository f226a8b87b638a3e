package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvidhall/wellnessflow/internal/editor"
)

var listPublic bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sessions, or the public ones with --public",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()

		var sessions []editor.SessionDocument
		var err error
		if listPublic {
			sessions, err = client.ListPublished(cmd.Context())
		} else {
			sessions, err = client.ListMySessions(cmd.Context())
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tUPDATED\tAUTHOR")
		for _, s := range sessions {
			author := ""
			if s.Author != nil {
				author = s.Author.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Title, s.Status, s.UpdatedAt.Format(time.RFC3339), author)
		}
		return w.Flush()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete one of your sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listPublic, "public", false, "list published sessions from all authors")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}
