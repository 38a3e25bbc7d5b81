package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inovacc/countrydesk/internal/application"
	"github.com/inovacc/countrydesk/internal/cli"
	"github.com/inovacc/countrydesk/internal/config"
	"github.com/inovacc/countrydesk/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configPath  string
	rootCountry string
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Browse the countries of the world from your terminal or browser",
	Long: `countrydesk asks who you are once, remembers it, and then shows a dashboard of
every country with its capital and languages. Select a country to see its
native name, currency and languages.

Run without a command to open the terminal dashboard. Use 'countrydesk web'
for the browser version; both share the same saved profile.`,
	Version:       application.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the command tree with a context cancelled on Ctrl+C or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default <config dir>/countrydesk/config.toml)")
	rootCmd.Flags().StringVar(&rootCountry, "country", "", "Open the dashboard with this country's details (ISO code)")
}

// loadConfig reads the config file named by --config, or the default one.
func loadConfig() (config.Config, string, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, "", err
		}

		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, err
	}

	return cfg, path, nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the dashboard needs an interactive terminal, try 'countrydesk countries list' or 'countrydesk web'")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	// the renderer owns the terminal, so logs go to a file
	logger, closer, err := tuiLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	env, err := openEnv(cfg, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	return cli.Run(cmd.Context(), cli.Options{
		Profile: env.profile,
		Source:  env.source,
		Country: rootCountry,
		Logger:  logger,
	})
}

func tuiLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	path, err := application.Path(application.AppName + ".log")
	if err != nil {
		return logging.Discard(), io.NopCloser(nil), nil
	}

	return logging.SetupFile(path, cfg.Log)
}
