package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/instance"
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Bring the running daemon's window to the front",
	Long: `Ask a running wordbubbled to show its control window. This sends the same
message a second launch of wordbubbled sends.`,
	Args: cobra.NoArgs,
	RunE: runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
}

func loadDaemonConfig() (*config.DaemonConfig, error) {
	path := globalOpts.configPath
	if path == "" {
		path = config.DaemonConfigPath()
	}
	cfg, err := config.LoadDaemonConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runActivate(cmd *cobra.Command, args []string) error {
	cfg, err := loadDaemonConfig()
	if err != nil {
		return err
	}

	timeout := cfg.Instance.ConnectTimeout.Duration()
	ep := instance.NewEndpoint(cfg.Instance.Backend, cfg.Instance.Name, timeout, logger)
	coord := instance.NewCoordinator(ep, logger)
	defer coord.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
	defer cancel()

	if err := coord.SendActivate(ctx); err != nil {
		return fmt.Errorf("wordbubbled does not appear to be running: %w", err)
	}
	return nil
}
