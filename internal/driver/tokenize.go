package driver

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"wl/internal/diag"
	"wl/internal/lexer"
	"wl/internal/observ"
	"wl/internal/project"
	"wl/internal/source"
	"wl/internal/token"
	"wl/internal/trace"
)

// Options configure a tokenize run.
type Options struct {
	// Lexer configures the tokenizer; its Reporter is replaced per file.
	Lexer lexer.Options
	NFC   bool
	// NormalizeNewlines drops a BOM and turns CRLF into LF on load.
	NormalizeNewlines bool
	StrictUTF8        bool
	MaxDiagnostics    int
	// Jobs bounds TokenizeDir parallelism; 0 means GOMAXPROCS.
	Jobs int
	// Extensions selects files in TokenizeDir; nil means project.DefaultExtensions.
	Extensions []string
	// Cache is optional.
	Cache    *TokenCache
	Observer PhaseObserver
}

// OptionsFromConfig maps wl.toml settings onto Options.
func OptionsFromConfig(cfg project.Config) Options {
	return Options{
		Lexer: lexer.Options{
			Keywords:       cfg.Lexer.Keywords,
			MaxTokenLength: cfg.Lexer.MaxTokenLength,
		},
		NFC:               cfg.Lexer.NFC,
		NormalizeNewlines: cfg.Lexer.NormalizeNewlines,
		StrictUTF8:        cfg.Lexer.StrictUTF8,
		Extensions:        cfg.Lexer.Extensions,
	}
}

func (o Options) readerOptions() []source.Option {
	return []source.Option{
		source.WithNFC(o.NFC),
		source.WithStrictUTF8(o.StrictUTF8),
		source.WithNormalizeNewlines(o.NormalizeNewlines),
	}
}

// Source is a reader whose text can be shared with output formatters.
type Source interface {
	source.Reader
	Buffer() *source.Buffer
	Hash() [32]byte
}

type TokenizeResult struct {
	Path string
	// Reader is nil when the file could not be loaded.
	Reader Source
	Items  []lexer.Item
	Bag    *diag.Bag
	Timing observ.Report
	Cached bool
}

const (
	// ctxCheckEvery is how many tokens pass between cancellation checks.
	ctxCheckEvery = 4096
	// uncappedDiagnostics is the largest bag diag.NewBag allows.
	uncappedDiagnostics = math.MaxUint16
)

// fileStart anchors diagnostics about a whole file at 1:1.
var fileStart = source.NewRange(source.StartPos(), 0)

// Tokenize loads path and runs the reference tokenizer over it.
// Load failures are returned as *source.IOError.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+path, trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	timer := observ.NewTimer()

	opts.Observer.start("load", path)
	idx := timer.Begin("load")
	r, err := source.Open(path, opts.readerOptions()...)
	opts.Observer.end("load", path, timer.End(idx, ""), err != nil)
	if err != nil {
		span.WithExtra("error", err.Error())
		return nil, err
	}
	span.WithExtra("chars", strconv.Itoa(r.Len()))

	res := &TokenizeResult{
		Path:   r.Path(),
		Reader: r,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	// cache warnings never enter the cached payload
	warnings := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: warnings, Path: res.Path}

	key := CacheKey(r.Hash(), opts.Lexer)
	if opts.Cache != nil {
		idx = timer.Begin("cache")
		var payload TokenPayload
		hit, err := opts.Cache.Get(key, &payload)
		lookup := timer.End(idx, "lookup")
		if err != nil {
			diag.ReportWarning(reporter, diag.IOCacheError, fileStart,
				fmt.Sprintf("ignoring token cache entry: %v", err)).Emit()
		}
		if hit {
			// a hit replaces the tokenize phase
			opts.Observer.start("cache", path)
			opts.Observer.end("cache", path, lookup, false)
			res.Items = payload.restore(res.Path, res.Bag)
			res.Bag.AddAll(warnings)
			res.Cached = true
			res.Timing = timer.Report()
			span.WithExtra("cache", "hit")
			return res, nil
		}
	}

	opts.Observer.start("tokenize", path)
	idx = timer.Begin("tokenize")
	lexOpts := opts.Lexer
	// the full diagnostic list is cached; MaxDiagnostics applies per run
	lexBag := diag.NewBag(uncappedDiagnostics)
	lexOpts.Reporter = diag.NewDedupReporter(diag.BagReporter{Bag: lexBag, Path: res.Path})
	items, err := collect(ctx, r, lexer.NewBasic(lexOpts), tracer, span.ID())
	elapsed := timer.End(idx, strconv.Itoa(len(items))+" tokens")
	opts.Observer.end("tokenize", path, elapsed, err != nil)
	if err != nil {
		return nil, err
	}
	res.Items = items
	span.WithExtra("tokens", strconv.Itoa(len(items)))

	if opts.Cache != nil {
		idx = timer.Begin("cache")
		if err := opts.Cache.Put(key, newTokenPayload(res.Path, items, lexBag)); err != nil {
			diag.ReportWarning(reporter, diag.IOCacheError, fileStart,
				fmt.Sprintf("cannot write token cache: %v", err)).Emit()
		}
		timer.End(idx, "store")
	}
	res.Bag.AddAll(lexBag)
	res.Bag.AddAll(warnings)

	res.Timing = timer.Report()
	return res, nil
}

// TokenizeString runs the tokenizer over in-memory text such as stdin.
// name labels diagnostics. The cache is not consulted.
func TokenizeString(ctx context.Context, name, text string, opts Options) (*TokenizeResult, error) {
	r, err := source.NewStringReader(name, text, opts.readerOptions()...)
	if err != nil {
		return nil, err
	}
	timer := observ.NewTimer()
	res := &TokenizeResult{
		Path:   name,
		Reader: r,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	lexOpts := opts.Lexer
	lexOpts.Reporter = diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag, Path: name})

	idx := timer.Begin("tokenize")
	res.Items, err = collect(ctx, r, lexer.NewBasic(lexOpts), trace.FromContext(ctx), trace.CurrentSpan(ctx).SpanID)
	timer.End(idx, strconv.Itoa(len(res.Items))+" tokens")
	if err != nil {
		return nil, err
	}
	res.Timing = timer.Report()
	return res, nil
}

func collect(ctx context.Context, r source.Reader, tz token.Tokenizer, tracer trace.Tracer, parent uint64) ([]lexer.Item, error) {
	debug := tracer.Level().ShouldEmit(trace.ScopeToken)
	var items []lexer.Item
	err := lexer.Drive(r, tz, func(tok token.Token, rng source.Range) error {
		if len(items)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if debug {
			trace.Point(tracer, trace.ScopeToken, lexer.KindName(tok.Kind), rng.String(), parent)
		}
		items = append(items, lexer.Item{Token: tok, Range: rng})
		return nil
	})
	return items, err
}
