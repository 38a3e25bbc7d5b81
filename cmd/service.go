package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/inovacc/countrydesk/internal/application"
	"github.com/inovacc/countrydesk/internal/web"
	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var (
	serviceStart     bool
	serviceStop      bool
	serviceInstall   bool
	serviceUninstall bool
	serviceStatus    bool
	serviceRun       bool
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the web dashboard as a system service",
	Long: `Install, uninstall, start, stop, or check the status of the countrydesk web
dashboard as a system service.

On Windows, this creates/manages a Windows Service.
On Linux/macOS, this creates/manages a systemd/launchd service.

The bolt backend locks its file; use the sqlite backend when the service and
the terminal app run at the same time.`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.Flags().BoolVar(&serviceStart, "start", false, "Start the service")
	serviceCmd.Flags().BoolVar(&serviceStop, "stop", false, "Stop the service")
	serviceCmd.Flags().BoolVar(&serviceInstall, "install", false, "Install the web dashboard as a system service")
	serviceCmd.Flags().BoolVar(&serviceUninstall, "uninstall", false, "Uninstall the system service")
	serviceCmd.Flags().BoolVar(&serviceStatus, "status", false, "Check service status")
	serviceCmd.Flags().BoolVar(&serviceRun, "run", false, "Run under the service manager")
	_ = serviceCmd.Flags().MarkHidden("run")
}

// program hosts the web server for the service manager.
type program struct {
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(s service.Service) error {
	// Start should not block
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)

	go func() {
		p.done <- p.run(ctx)
	}()

	return nil
}

func (p *program) run(ctx context.Context) error {
	err := withEnv(func(env *environment) error {
		wc := webConfig(env.cfg)
		wc.OpenBrowser = false

		server, err := web.New(wc, env.profile, env.source, env.logger)
		if err != nil {
			return err
		}

		server.SetHealthCheck(env.store.Ping)

		stop := env.watchSession()
		defer stop()

		return server.Start(ctx)
	})
	if err != nil {
		_ = service.ConsoleLogger.Errorf("web server exited with error: %v", err)
	}

	return err
}

func (p *program) Stop(s service.Service) error {
	if p.cancel == nil {
		return nil
	}

	p.cancel()

	return <-p.done
}

func runService(_ *cobra.Command, _ []string) error {
	flagCount := 0

	for _, set := range []bool{serviceStart, serviceStop, serviceInstall, serviceUninstall, serviceStatus, serviceRun} {
		if set {
			flagCount++
		}
	}

	if flagCount == 0 {
		return errors.New("please specify one of: --start, --stop, --install, --uninstall, --status")
	}

	if flagCount > 1 {
		return errors.New("please specify only one operation at a time")
	}

	args := []string{"service", "--run"}
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return err
		}

		args = append(args, "--config", abs)
	}

	svcConfig := &service.Config{
		Name:        application.ServiceName,
		DisplayName: "countrydesk web dashboard",
		Description: "Serves the countrydesk browser dashboard on localhost",
		Arguments:   args,
	}

	s, err := service.New(&program{}, svcConfig)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	switch {
	case serviceRun:
		return s.Run()
	case serviceInstall:
		return installService(s)
	case serviceUninstall:
		return uninstallService(s)
	case serviceStart:
		return startService(s)
	case serviceStop:
		return stopService(s)
	case serviceStatus:
		return statusService(s)
	}

	return nil
}

func installService(s service.Service) error {
	fmt.Println("Installing countrydesk web service...")

	if err := s.Install(); err != nil {
		return fmt.Errorf("failed to install service: %w", err)
	}

	fmt.Println("✓ Service installed successfully!")
	fmt.Println("\nTo start the service, run:")
	fmt.Println("  countrydesk service --start")

	return nil
}

func uninstallService(s service.Service) error {
	fmt.Println("Uninstalling countrydesk web service...")

	// Try to stop first
	_ = s.Stop()

	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("failed to uninstall service: %w", err)
	}

	fmt.Println("✓ Service uninstalled successfully!")

	return nil
}

func startService(s service.Service) error {
	fmt.Println("Starting countrydesk web service...")

	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	fmt.Println("✓ Service started successfully!")

	if cfg, _, err := loadConfig(); err == nil {
		fmt.Printf("\nDashboard: http://%s\n", webConfig(cfg).Addr())
	} else {
		slog.Warn("could not read config to print the dashboard address", "error", err)
	}

	return nil
}

func stopService(s service.Service) error {
	fmt.Println("Stopping countrydesk web service...")

	if err := s.Stop(); err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	fmt.Println("✓ Service stopped successfully!")

	return nil
}

func statusService(s service.Service) error {
	status, err := s.Status()
	if err != nil {
		return fmt.Errorf("failed to get service status: %w", err)
	}

	fmt.Printf("Service Status: ")

	switch status {
	case service.StatusRunning:
		fmt.Println("Running ✓")
	case service.StatusStopped:
		fmt.Println("Stopped")
	case service.StatusUnknown:
		fmt.Println("Unknown")
	default:
		fmt.Printf("%v\n", status)
	}

	return nil
}
