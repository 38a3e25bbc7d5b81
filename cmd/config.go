package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/inovacc/countrydesk/internal/config"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage countrydesk configuration",
	Long: `Commands for managing the countrydesk TOML configuration file.

Available Commands:
  show    Print the effective configuration
  init    Write a config file with the defaults
  path    Print the config file location`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (file merged over defaults)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := cfg.Encode()
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}

			path = p
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := config.WriteFile(path, config.Default()); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)

		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, path, err := loadConfig()
		if path == "" {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configPathCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}
