// Package main is the entry point for the HC3 QuickApp Manager desktop application.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"

	"github.com/hc3-tools/quickapp-manager/internal/app"
	"github.com/hc3-tools/quickapp-manager/internal/config"
	"github.com/hc3-tools/quickapp-manager/internal/health"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/updater"
	"github.com/hc3-tools/quickapp-manager/internal/version"
)

//go:embed all:frontend/dist
var assets embed.FS

// cli holds flag values and the dependencies tests replace.
type cli struct {
	settingsPath string
	resourceDir  string
	homeDir      string
	debug        bool
	probe        bool

	env    config.Environment
	runner app.Runner
}

func main() {
	c := &cli{env: config.OSEnvironment{}, runner: wails.Run}
	if err := c.rootCommand().Execute(); err != nil {
		logging.Error("quickapp-manager failed", "error", err)
		os.Exit(1)
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "quickapp-manager",
		Short:         version.ProductName,
		Long:          `Desktop manager for Fibaro HC3 QuickApps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}

	root.PersistentFlags().StringVarP(&c.settingsPath, "settings", "s", "", "settings file path (YAML)")
	root.PersistentFlags().StringVar(&c.resourceDir, "resource-dir", "", "directory holding the bundled .env (default: next to the executable)")
	root.PersistentFlags().StringVar(&c.homeDir, "home-dir", "", "directory holding the user .env (default: home directory)")
	root.Flags().BoolVar(&c.debug, "debug", false, "enable the diagnostic log sink")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load the .env layers and report which HC3 settings are present",
		RunE:  c.runConfigCheck,
	}
	checkCmd.Flags().BoolVar(&c.probe, "probe", false, "also contact the HC3 controller with the resolved settings")
	configCmd.AddCommand(checkCmd)
	root.AddCommand(configCmd)

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update commands",
	}
	updateCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check if a newer release is available",
		RunE:  c.runUpdateCheck,
	})
	root.AddCommand(updateCmd)

	return root
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(c.settingsPath)
	if err != nil {
		return err
	}

	dist, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		return fmt.Errorf("frontend assets: %w", err)
	}

	a, err := app.New(app.Options{
		Settings:    settings,
		ResourceDir: c.resourceDir,
		HomeDir:     c.homeDir,
		Debug:       c.debug,
		Env:         c.env,
		Assets:      dist,
	})
	if err != nil {
		return err
	}
	return a.Run(c.runner)
}

func (c *cli) runConfigCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	resourceDir := c.resourceDir
	if resourceDir == "" {
		dir, err := app.ResourceDir()
		if err != nil {
			fmt.Fprintf(out, "resource directory unavailable: %v\n", err)
		}
		resourceDir = dir
	}
	homeDir := c.homeDir
	if homeDir == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(out, "home directory unavailable: %v\n", err)
		}
		homeDir = dir
	}

	report := config.LoadLayers(c.env, config.DefaultSources(resourceDir, homeDir))
	printLayers(out, report)

	presence := config.Presence(c.env)
	fmt.Fprintln(out, "Variables:")
	for _, name := range config.Variables {
		status := "NOT SET"
		if presence[name] {
			status = "set"
		}
		fmt.Fprintf(out, "  %-13s %s\n", name, status)
	}

	hc3, err := config.NewResolver(c.env).Resolve()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Configuration is complete")

	if !c.probe {
		return nil
	}
	return c.runProbe(cmd, hc3)
}

func (c *cli) runProbe(cmd *cobra.Command, hc3 config.HC3) error {
	settings, err := config.LoadSettings(c.settingsPath)
	if err != nil {
		return err
	}

	checkers := health.ForHC3(hc3, health.Options{InsecureSkipVerify: settings.HTTP.InsecureSkipVerify})
	results := health.Run(cmd.Context(), checkers)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Probe:")
	for i, r := range results {
		status := "ok"
		if !r.Healthy {
			status = "FAILED"
		}
		fmt.Fprintf(out, "  %-4s %-6s %s (%s)\n", checkers[i].Type(), status, r.Message, r.Latency.Round(time.Millisecond))
		if !r.Healthy {
			return fmt.Errorf("%s probe failed: %s", checkers[i].Type(), r.Error)
		}
	}
	return nil
}

func printLayers(out io.Writer, report config.LoadReport) {
	fmt.Fprintln(out, "Layers:")
	for _, l := range report.Layers {
		fmt.Fprintf(out, "  %-9s %-8s %s\n", l.Source.Name, l.Status, l.Source.Path)
		if l.Err != nil {
			fmt.Fprintf(out, "            %v\n", l.Err)
		}
	}
}

func (c *cli) runUpdateCheck(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(c.settingsPath)
	if err != nil {
		return err
	}

	u, err := updater.New(settings.Updater)
	if err != nil {
		return fmt.Errorf("create updater: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	info, err := u.CheckForUpdate(ctx)
	if err != nil {
		if errors.Is(err, updater.ErrDisabled) {
			fmt.Fprintln(out, "Update checks are disabled.")
			return nil
		}
		return fmt.Errorf("check for update: %w", err)
	}

	if !info.Available {
		fmt.Fprintf(out, "Current version %s is up to date.\n", info.CurrentVersion)
		return nil
	}

	fmt.Fprintf(out, "Update available!\n")
	fmt.Fprintf(out, "  Current version: %s\n", info.CurrentVersion)
	fmt.Fprintf(out, "  New version:     %s\n", info.NewVersion)
	fmt.Fprintf(out, "  Published:       %s\n", info.PublishedAt.Format(time.RFC1123))
	fmt.Fprintf(out, "  Release URL:     %s\n", info.ReleaseURL)
	return nil
}
