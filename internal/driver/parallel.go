package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"wl/internal/diag"
	"wl/internal/project"
	"wl/internal/source"
	"wl/internal/trace"
)

// ListSourceFiles returns the sorted list of files under dir whose
// extension is in exts. Hidden directories are skipped, and so are paths
// matched by a .gitignore at the top of dir.
func ListSourceFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = project.DefaultExtensions
	}

	var ignore *gitignore.GitIgnore
	ignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignorePath); err == nil {
		if ignore, err = gitignore.CompileIgnoreFile(ignorePath); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ignorePath, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !slices.Contains(exts, filepath.Ext(path)) {
			return nil
		}
		if ignore != nil {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(filepath.ToSlash(rel)) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// deterministic order
	slices.Sort(files)
	return files, nil
}

// TokenizeDir tokenizes every source file under dir in parallel.
// Results are in ListSourceFiles order. A file that cannot be loaded gets
// a result with a nil Reader and an IOLoadFileError diagnostic; only
// cancellation and walk failures abort the run.
func TokenizeDir(ctx context.Context, dir string, opts Options) ([]TokenizeResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "tokenize-dir", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	files, err := ListSourceFiles(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// every goroutine owns results[i]
	results := make([]TokenizeResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	gctx = trace.WithSpanContext(gctx, trace.SpanContext{SpanID: span.ID()})

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := Tokenize(gctx, path, opts)
			if err == nil {
				results[i] = *res
				return nil
			}

			var ioErr *source.IOError
			if !errors.As(err, &ioErr) {
				return err
			}
			clean := filepath.ToSlash(filepath.Clean(path))
			bag := diag.NewBag(opts.MaxDiagnostics)
			bag.Add(diag.NewError(diag.IOLoadFileError, clean, fileStart,
				"failed to load file: "+ioErr.Err.Error()))
			results[i] = TokenizeResult{Path: clean, Bag: bag}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
