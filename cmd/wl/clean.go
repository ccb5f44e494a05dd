package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wl/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the token cache",
	Long:  "Remove every cached token stream of the project at [path] (or the user cache outside a project).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	settings, err := loadProjectSettings(base)
	if err != nil {
		return err
	}
	cache, err := driver.OpenTokenCache(settings.cacheDir())
	if err != nil {
		return fmt.Errorf("failed to open token cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", cache.Dir(), err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", settings.displayPath(cache.Dir()))
	return nil
}
