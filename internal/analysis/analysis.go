// Package analysis coordinates the per-keystroke analysis surface: parse
// plus decode-or-validate on document change, completion and context info on
// cursor move. Every entry point is a pure function of the document and the
// snapshot active at call time, so callers may run them on background
// goroutines; results carry a generation stamp so a caller that fires on
// every keystroke can discard superseded results instead of cancelling
// in-flight work.
package analysis

import (
	"sync/atomic"

	"github.com/stashlight/stashlight/internal/complete"
	"github.com/stashlight/stashlight/internal/contextinfo"
	"github.com/stashlight/stashlight/internal/diag"
	"github.com/stashlight/stashlight/internal/log"
	"github.com/stashlight/stashlight/internal/parser"
	"github.com/stashlight/stashlight/internal/registry"
	"github.com/stashlight/stashlight/internal/validate"
)

// Analyzer owns the registry handle and stamps analysis generations.
type Analyzer struct {
	reg    *registry.Registry
	logger *log.Logger

	generation atomic.Int64

	// onDiagnostics, when set, receives every non-stale check result.
	onDiagnostics func(CheckResult)
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithLogger sets the analyzer's logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithDiagnosticsHandler sets a callback invoked with each check result
// that is still the latest when the check completes.
func WithDiagnosticsHandler(fn func(CheckResult)) Option {
	return func(a *Analyzer) {
		a.onDiagnostics = fn
	}
}

// New creates an analyzer over the given registry.
func New(reg *registry.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		reg:    reg,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckResult is the outcome of analyzing one document state.
type CheckResult struct {
	// OK is true when the document parsed; Diagnostics then holds semantic
	// warnings. When false, Diagnostics holds decoded syntax errors.
	OK          bool              `json:"ok"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`

	// Generation identifies this analysis pass; see Analyzer.IsCurrent.
	Generation int64 `json:"-"`
}

// Check parses the document; on failure it decodes the parser's report, on
// success it validates the tree against the active snapshot. The diagnostic
// list is never nil.
func (a *Analyzer) Check(source string) CheckResult {
	gen := a.generation.Add(1)
	snap := a.reg.Current()

	cfg, failure := parser.Parse(source)
	if failure != nil {
		result := CheckResult{
			OK:          false,
			Diagnostics: parser.Decode(failure, source),
			Generation:  gen,
		}
		a.logger.Debug("parse failed: %d diagnostics", len(result.Diagnostics))
		a.notify(result)
		return result
	}

	diags := validate.New(snap).Validate(cfg, source)
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	result := CheckResult{OK: true, Diagnostics: diags, Generation: gen}
	a.notify(result)
	return result
}

// CompletionAt computes completions against the snapshot active right now.
func (a *Analyzer) CompletionAt(source string, pos int) complete.Result {
	return complete.At(a.reg.Current(), source, pos)
}

// ContextAt computes the sidebar payload against the active snapshot.
func (a *Analyzer) ContextAt(source string, pos int) contextinfo.Info {
	return contextinfo.At(a.reg.Current(), source, pos)
}

// IsCurrent reports whether gen is still the newest analysis generation.
// Callers that analyze on every keystroke drop results for which this
// returns false.
func (a *Analyzer) IsCurrent(gen int64) bool {
	return a.generation.Load() == gen
}

// Versions lists the registry's available schema versions.
func (a *Analyzer) Versions() []string {
	return a.reg.Versions()
}

// ActiveVersion returns the version of the active snapshot.
func (a *Analyzer) ActiveVersion() string {
	return a.reg.CurrentVersion()
}

// SwitchVersion activates another schema version. The active snapshot is
// unchanged on error.
func (a *Analyzer) SwitchVersion(version string) error {
	if err := a.reg.Use(version); err != nil {
		a.logger.Warn("schema switch to %q failed: %v", version, err)
		return err
	}
	a.logger.WithField("version", version).Info("schema switched")
	return nil
}

func (a *Analyzer) notify(result CheckResult) {
	if a.onDiagnostics == nil {
		return
	}
	if !a.IsCurrent(result.Generation) {
		a.logger.Debug("discarding stale analysis generation %d", result.Generation)
		return
	}
	a.onDiagnostics(result)
}
