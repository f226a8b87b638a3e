package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string

	loginEmail    string
	loginPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and print its token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		account, err := client.Register(cmd.Context(), registerName, registerEmail, registerPassword)
		if err != nil {
			return err
		}

		fmt.Printf("Registered %s <%s>\n", account.User.Name, account.User.Email)
		fmt.Printf("export WELLNESSFLOW_TOKEN=%s\n", account.Token)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		account, err := client.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s <%s>\n", account.User.Name, account.User.Email)
		fmt.Printf("export WELLNESSFLOW_TOKEN=%s\n", account.Token)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address (required)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password, at least 6 characters (required)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
}
