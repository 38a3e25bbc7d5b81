package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/inovacc/countrydesk/internal/session"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginJobTitle string
	whoamiJSON    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save your profile without the interactive form",
	Long: `Validate and save the username and job title the welcome form asks for.

The username may only contain letters; the job title letters and spaces.

Examples:
  countrydesk login --username john --job-title "Software Developer"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(func(env *environment) error {
			if err := env.gate().Login(loginUsername, loginJobTitle, nil); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s (%s)\n", loginUsername, loginJobTitle)

			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(func(env *environment) error {
			env.gate().Logout(nil)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")

			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the saved profile and session state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(func(env *environment) error {
			gate := env.gate()
			p := gate.Profile()
			out := cmd.OutOrStdout()

			if whoamiJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(struct {
					Username string `json:"username"`
					JobTitle string `json:"jobTitle"`
					State    string `json:"state"`
				}{p.Username, p.JobTitle, gate.State().String()})
			}

			if gate.State() != session.LoggedIn {
				_, _ = fmt.Fprintln(out, "Not logged in. Run 'countrydesk login' or open the dashboard.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Username:  %s\nJob title: %s\n", p.Username, p.JobTitle)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Username (letters only)")
	loginCmd.Flags().StringVar(&loginJobTitle, "job-title", "", "Job title (letters and spaces)")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("job-title")

	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Output as JSON")
}
