package cmd

import (
	"fmt"
	"os"

	"github.com/google/gops/agent"
	"github.com/inovacc/countrydesk/internal/config"
	"github.com/inovacc/countrydesk/internal/web"
	"github.com/spf13/cobra"
)

var (
	webPort      int
	webNoBrowser bool
	webGops      bool
)

func init() {
	rootCmd.AddCommand(webCmd)

	webCmd.Flags().IntVarP(&webPort, "port", "p", 0, "Port to run the web server on (default from config, 8080)")
	webCmd.Flags().BoolVar(&webNoBrowser, "no-browser", false, "Don't automatically open the browser")
	webCmd.Flags().BoolVar(&webGops, "gops", false, "Start a gops diagnostics agent")
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser dashboard",
	Long: `Start a local web server with the same welcome form and dashboard as the
terminal app. The profile is shared with every other countrydesk command.

Examples:
  countrydesk web                    # Start on the configured port
  countrydesk web --port 9000        # Start on custom port
  countrydesk web --no-browser       # Don't auto-open browser
  countrydesk web --gops             # Expose runtime diagnostics to 'gops'`,
	RunE: runWeb,
}

func webConfig(cfg config.Config) web.Config {
	wc := web.DefaultConfig()
	wc.Host = cfg.Web.Host
	wc.Port = cfg.Web.Port
	wc.OpenBrowser = cfg.Web.OpenBrowser

	return wc
}

func runWeb(cmd *cobra.Command, _ []string) error {
	if webGops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			return fmt.Errorf("start gops agent: %w", err)
		}
		defer agent.Close()
	}

	return withEnv(func(env *environment) error {
		wc := webConfig(env.cfg)
		if webPort != 0 {
			wc.Port = webPort
		}

		if webNoBrowser {
			wc.OpenBrowser = false
		}

		server, err := web.New(wc, env.profile, env.source, env.logger)
		if err != nil {
			return fmt.Errorf("failed to create web server: %w", err)
		}

		server.SetHealthCheck(env.store.Ping)

		stop := env.watchSession()
		defer stop()

		_, _ = fmt.Fprintf(os.Stdout, "Starting web server on http://%s\n", wc.Addr())
		_, _ = fmt.Fprintln(os.Stdout, "Press Ctrl+C to stop")

		return server.Start(cmd.Context())
	})
}
