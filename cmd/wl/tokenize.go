package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wl/internal/diag"
	"wl/internal/diagfmt"
	"wl/internal/driver"
	"wl/internal/lexer"
	"wl/internal/observ"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.wl|dir|->",
	Short: "Tokenize a source file, a directory or stdin",
	Long: `Tokenize breaks source text into tokens and prints each token with its range.
A directory is walked for source files (see [lexer].extensions in wl.toml)
and tokenized in parallel. "-" reads from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

var errLexical = errors.New("lexical errors found")

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "token output format (pretty|json|none)")
	tokenizeCmd.Flags().String("diag-format", "pretty", "diagnostic output format (pretty|json|short)")
	tokenizeCmd.Flags().String("path-mode", "auto", "path display in diagnostics (auto|absolute|relative|basename)")
	tokenizeCmd.Flags().Bool("keep-trivia", false, "also print whitespace and comment tokens")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel files in directory mode (0=auto)")
	tokenizeCmd.Flags().String("cache", "auto", "token cache (auto|on|off); auto follows [cache].enabled")
	tokenizeCmd.Flags().String("ui", "auto", "progress UI in directory mode (auto|on|off)")
	tokenizeCmd.Flags().StringSlice("keywords", nil, "override the keyword set")
	tokenizeCmd.Flags().Int("max-token-length", 0, "cap a single token in characters (0=config or default)")
	tokenizeCmd.Flags().Bool("nfc", false, "normalize sources to Unicode NFC")
	tokenizeCmd.Flags().Bool("normalize-newlines", false, "drop a UTF-8 BOM and turn CRLF into LF")
	tokenizeCmd.Flags().Bool("strict-utf8", false, "reject sources that are not valid UTF-8")
}

type tokenizeFlags struct {
	format     string
	diagFormat string
	pathMode   diagfmt.PathMode
	keepTrivia bool
	cache      string
	ui         uiMode
	quiet      bool
	timings    bool
}

func readTokenizeFlags(cmd *cobra.Command) (tokenizeFlags, error) {
	var f tokenizeFlags
	var err error
	flags := cmd.Flags()

	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "none":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return f, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch f.diagFormat {
	case "pretty", "json", "short":
	default:
		return f, fmt.Errorf("unknown diag-format: %s", f.diagFormat)
	}
	modeStr, err := flags.GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return f, fmt.Errorf("unknown path-mode: %s", modeStr)
	}
	f.pathMode = mode
	if f.keepTrivia, err = flags.GetBool("keep-trivia"); err != nil {
		return f, fmt.Errorf("failed to get keep-trivia flag: %w", err)
	}
	if f.cache, err = flags.GetString("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	switch f.cache {
	case "auto", "on", "off":
	default:
		return f, fmt.Errorf("invalid --cache value %q (expected auto|on|off)", f.cache)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return f, nil
}

// buildDriverOptions layers command-line overrides over wl.toml settings.
func buildDriverOptions(cmd *cobra.Command, settings projectSettings, cacheMode string) (driver.Options, error) {
	opts := driver.OptionsFromConfig(settings.config)
	flags := cmd.Flags()

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if flags.Changed("keywords") {
		if opts.Lexer.Keywords, err = flags.GetStringSlice("keywords"); err != nil {
			return opts, fmt.Errorf("failed to get keywords flag: %w", err)
		}
		if opts.Lexer.Keywords == nil {
			opts.Lexer.Keywords = []string{}
		}
	}
	if flags.Changed("max-token-length") {
		if opts.Lexer.MaxTokenLength, err = flags.GetInt("max-token-length"); err != nil {
			return opts, fmt.Errorf("failed to get max-token-length flag: %w", err)
		}
	}
	if flags.Changed("nfc") {
		if opts.NFC, err = flags.GetBool("nfc"); err != nil {
			return opts, fmt.Errorf("failed to get nfc flag: %w", err)
		}
	}
	if flags.Changed("normalize-newlines") {
		if opts.NormalizeNewlines, err = flags.GetBool("normalize-newlines"); err != nil {
			return opts, fmt.Errorf("failed to get normalize-newlines flag: %w", err)
		}
	}
	if flags.Changed("strict-utf8") {
		if opts.StrictUTF8, err = flags.GetBool("strict-utf8"); err != nil {
			return opts, fmt.Errorf("failed to get strict-utf8 flag: %w", err)
		}
	}

	useCache := cacheMode == "on" || (cacheMode == "auto" && settings.config.Cache.Enabled)
	if useCache {
		cache, err := driver.OpenTokenCache(settings.cacheDir())
		if err != nil {
			return opts, fmt.Errorf("failed to open token cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]

	tf, err := readTokenizeFlags(cmd)
	if err != nil {
		return err
	}
	settings, err := loadProjectSettings(target)
	if err != nil {
		return err
	}
	opts, err := buildDriverOptions(cmd, settings, tf.cache)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		results []driver.TokenizeResult
		isDir   bool
	)
	switch {
	case target == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res, err := driver.TokenizeString(ctx, "<stdin>", string(data), opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		results = []driver.TokenizeResult{*res}
	default:
		st, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		if st.IsDir() {
			isDir = true
			results, err = tokenizeDir(ctx, target, opts, shouldUseTUI(tf.ui) && !tf.quiet)
		} else {
			var res *driver.TokenizeResult
			res, err = driver.Tokenize(ctx, target, opts)
			if res != nil {
				results = []driver.TokenizeResult{*res}
			}
		}
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	}

	if err := writeTokens(cmd.OutOrStdout(), results, tf, isDir); err != nil {
		return err
	}

	bag := mergeBags(results, opts.MaxDiagnostics)
	if err := writeDiagnostics(cmd, bag, results, tf, settings.baseDir); err != nil {
		return err
	}

	if tf.timings {
		var report observ.Report
		for _, r := range results {
			report = report.Merge(r.Timing)
		}
		fmt.Fprint(cmd.ErrOrStderr(), report.Summary())
	}

	if bag.HasErrors() {
		return errLexical
	}
	return nil
}

func tokenizeDir(ctx context.Context, dir string, opts driver.Options, withUI bool) ([]driver.TokenizeResult, error) {
	if !withUI {
		return driver.TokenizeDir(ctx, dir, opts)
	}
	files, err := driver.ListSourceFiles(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	return runTokenizeDirWithUI(ctx, "tokenize "+dir, files, dir, opts)
}

func significantItems(items []lexer.Item, keepTrivia bool) []lexer.Item {
	if keepTrivia {
		return items
	}
	out := make([]lexer.Item, 0, len(items))
	for _, it := range items {
		if !lexer.IsTrivia(it.Token.Kind) {
			out = append(out, it)
		}
	}
	return out
}

func writeTokens(w io.Writer, results []driver.TokenizeResult, tf tokenizeFlags, isDir bool) error {
	switch tf.format {
	case "none":
		return nil
	case "json":
		outputs := make([]diagfmt.TokensOutput, 0, len(results))
		for _, r := range results {
			if r.Reader == nil {
				continue
			}
			outputs = append(outputs, diagfmt.BuildTokensOutput(r.Path, significantItems(r.Items, tf.keepTrivia), r.Reader.Buffer()))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if !isDir && len(outputs) == 1 {
			return enc.Encode(outputs[0])
		}
		return enc.Encode(outputs)
	default:
		for _, r := range results {
			if r.Reader == nil {
				continue
			}
			if isDir {
				fmt.Fprintf(w, "== %s ==\n", r.Path)
			}
			if err := diagfmt.FormatTokensPretty(w, significantItems(r.Items, tf.keepTrivia), r.Reader.Buffer()); err != nil {
				return err
			}
		}
		return nil
	}
}

func mergeBags(results []driver.TokenizeResult, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		bag.Merge(r.Bag)
	}
	bag.Sort()
	bag.Dedup()
	return bag
}

func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag, results []driver.TokenizeResult, tf tokenizeFlags, baseDir string) error {
	if bag.Len() == 0 {
		return nil
	}
	if tf.quiet && !bag.HasErrors() {
		return nil
	}

	srcs := make(diagfmt.Sources, len(results))
	for _, r := range results {
		if r.Reader != nil {
			srcs.Add(r.Reader)
		}
	}

	out := cmd.ErrOrStderr()
	if tf.diagFormat == "short" {
		_, err := io.WriteString(out, diag.FormatShortDiagnostics(bag.Items()))
		return err
	}
	if tf.diagFormat == "json" {
		return diagfmt.JSON(out, bag, srcs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         tf.pathMode,
			BaseDir:          baseDir,
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(out, bag, srcs, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   2,
		PathMode:  tf.pathMode,
		BaseDir:   baseDir,
		ShowNotes: true,
	})
	if !tf.quiet {
		noun := "diagnostics"
		if bag.Len() == 1 {
			noun = "diagnostic"
		}
		fmt.Fprintf(out, "%d %s\n", bag.Len(), noun)
	}
	return nil
}
