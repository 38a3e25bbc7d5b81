package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect the durable key/value storage",
	Long: `Read and edit the raw entries behind saved values. The profile lives under
the key "user" as JSON.

Examples:
  countrydesk storage keys
  countrydesk storage get user
  countrydesk storage set user '{"username":"john","jobTitle":"Developer"}'
  countrydesk storage rm user`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var storageGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the stored text for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(env *environment) error {
			v, ok, err := env.store.Get(args[0])
			if err != nil {
				return err
			}

			if !ok {
				return fmt.Errorf("no entry for key %q", args[0])
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)

			return nil
		})
	},
}

var storageSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store text under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return withEnv(func(env *environment) error {
			return env.store.Set(args[0], args[1])
		})
	},
}

var storageRmCmd = &cobra.Command{
	Use:     "rm KEY",
	Aliases: []string{"remove"},
	Short:   "Delete the entry for a key",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withEnv(func(env *environment) error {
			return env.store.Remove(args[0])
		})
	},
}

var storageKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored keys",
	Long: `List every stored key. Keys backing a value countrydesk manages, like the
profile, are marked "(managed)"; editing those by hand must keep them valid JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(func(env *environment) error {
			keys, err := env.store.Keys()
			if err != nil {
				return err
			}

			managed := env.registry.Keys()

			for _, k := range keys {
				if slices.Contains(managed, k) {
					k += " (managed)"
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), k)
			}

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)
	storageCmd.AddCommand(storageGetCmd, storageSetCmd, storageRmCmd, storageKeysCmd)
}
