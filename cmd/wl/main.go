package main

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "wl",
	Short:             "wl lexical front-end",
	Long:              `wl turns source files into positioned token streams and reports lexical diagnostics`,
	SilenceUsage:      true,
	PersistentPreRunE: startInstrumentation,
	PersistentPostRun: func(*cobra.Command, []string) { finishRun() },
}

var setupOnce sync.Once

// setupRoot registers subcommands and persistent flags.
func setupRoot() *cobra.Command {
	setupOnce.Do(func() {
		rootCmd.Version = version.Version

		rootCmd.AddCommand(tokenizeCmd)
		rootCmd.AddCommand(versionCmd)
		rootCmd.AddCommand(initCmd)
		rootCmd.AddCommand(cleanCmd)

		rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
		rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
		rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
		rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
		rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, *.ndjson for JSON lines)")
		rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
		rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the file")
		rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the file on exit")
		rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to the file")
	})
	return rootCmd
}

// main executes the root command. Any error exits with status 1.
func main() {
	err := setupRoot().Execute()
	// PersistentPostRun is skipped when RunE fails
	finishRun()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// stdoutFile returns the command's stdout when it is a real file.
func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}

// useColor resolves --color against the stream it applies to.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return f != nil && isTerminal(f)
	}
}
