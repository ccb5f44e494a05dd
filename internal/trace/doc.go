// Package trace is the structured event log of the wl toolchain.
//
// It tracks driver operations, pipeline passes and per-file work so slow or
// stuck runs can be diagnosed.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	wl tokenize --trace=- --trace-level=detail src/
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr), text or NDJSON
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only errors
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything including single tokens
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopePass: Pipeline passes (load, tokenize, cache)
//   - ScopeFile: Per-file processing
//   - ScopeToken: Single tokens
//
// # Context Propagation
//
// Tracers are propagated through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "tokenize", parentID)
//	defer span.End("")
package trace
