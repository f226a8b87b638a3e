// Package cli implements the wellnessflow command line client. It drives the
// editor sync controller against a running API server, which makes it both a
// demo front end and a handy smoke-test tool.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arvidhall/wellnessflow/internal/editor"
)

var (
	apiBaseURL string
	apiToken   string
)

var rootCmd = &cobra.Command{
	Use:   "wellnessflow",
	Short: "Client for the WellnessFlow session API",
	Long: `Wellnessflow registers and logs in users, lists sessions, and opens an
interactive editor whose auto-save behavior matches the web client: edits
are debounced for 5 seconds, a periodic save runs every 30 seconds, and
save/publish act immediately.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "http://localhost:8080", "base URL of the API server")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token (defaults to $WELLNESSFLOW_TOKEN)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newAPIClient() *editor.Client {
	token := apiToken
	if token == "" {
		token = os.Getenv("WELLNESSFLOW_TOKEN")
	}
	return editor.NewClient(apiBaseURL, editor.WithToken(token))
}
