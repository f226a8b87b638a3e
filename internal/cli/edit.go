package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arvidhall/wellnessflow/internal/editor"
)

var editCmd = &cobra.Command{
	Use:   "edit [session-id]",
	Short: "Open a session in the interactive auto-saving editor",
	Long: `Opens a new buffer, or hydrates one from an existing session when an id is
given. Commands:

  title <text>     set the title
  content <text>   set the content (URL or inline JSON)
  tag <name>       add a tag
  untag <name>     remove a tag
  status           show buffer and sync state
  save             save now
  publish          publish and exit
  quit             exit without waiting for a save

Everything else auto-saves in the background exactly like the web editor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := newAPIClient()

	var buffer *editor.Buffer
	if len(args) == 1 {
		loaded, err := client.LoadBuffer(ctx, args[0])
		if err != nil {
			return err
		}
		buffer = loaded
		fmt.Printf("Editing %q (%s)\n", buffer.Title, buffer.SessionID)
	} else {
		buffer = editor.NewBuffer()
		fmt.Println("Editing a new draft")
	}

	ctrl := editor.NewController(buffer, client,
		editor.WithStatusListener(func(status editor.SyncStatus) {
			fmt.Printf("[%s]\n", status)
		}),
	)
	go ctrl.Run(ctx)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case "":
		case "title":
			ctrl.SetTitle(rest)
		case "content":
			ctrl.SetContent(rest)
		case "tag":
			ctrl.AddTag(rest)
		case "untag":
			ctrl.RemoveTag(rest)
		case "status":
			doc := ctrl.Document()
			fmt.Printf("id=%s title=%q tags=%v status=%s dirty=%t sync=%s\n",
				ctrl.SessionID(), doc.Title, doc.Tags, doc.Status, ctrl.Dirty(), ctrl.Status())
		case "save":
			if err := ctrl.Save(ctx); err != nil {
				fmt.Println("save failed:", err)
			}
		case "publish":
			if err := ctrl.Publish(ctx); err != nil {
				fmt.Println("publish failed:", err)
				continue
			}
			fmt.Println("Published", ctrl.SessionID())
			return nil
		case "quit":
			return nil
		default:
			fmt.Println("unknown command:", command)
		}
	}
}
