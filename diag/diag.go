// Package diag implements the compiler's structured diagnostics: typed
// error values carrying a source span, a stable code, and optional notes,
// aggregated into a Report the CLI renders and exits on.
package diag

import (
	"fmt"
	"sort"

	"github.com/neuro-lang/neuroc/sourcemap"
)

// Severity orders diagnostics for sort-by-severity and exit-code decisions.
type Severity int

const (
	Hint Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported condition. Span is nil when a diagnostic is not
// tied to a specific source location (rare — e.g. a runtime failure while
// the eval path interprets an expression).
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     *sourcemap.Span
	Code     string
	Notes    []string
	Related  []Diagnostic
}

func (d *Diagnostic) Error() string {
	return d.Message
}

// Render prints "severity: message [code] at file:line:col; note: ..." in
// a fixed rendering format. sm may be nil if d.Span is nil.
func (d *Diagnostic) Render(sm *sourcemap.Map) string {
	s := fmt.Sprintf("%s: %s", d.Severity, d.Message)
	if d.Code != "" {
		s += fmt.Sprintf(" [%s]", d.Code)
	}
	if d.Span != nil && sm != nil {
		s += fmt.Sprintf(" at %s", sm.Format(*d.Span))
	}
	for _, n := range d.Notes {
		s += fmt.Sprintf("; note: %s", n)
	}
	return s
}

// Report aggregates diagnostics from every stage of one compilation.
type Report struct {
	diagnostics []Diagnostic
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// All returns every diagnostic recorded so far, in insertion order.
func (r *Report) All() []Diagnostic {
	return r.diagnostics
}

// First returns the earliest-recorded diagnostic, or nil if the report is empty.
func (r *Report) First() *Diagnostic {
	if len(r.diagnostics) == 0 {
		return nil
	}
	d := r.diagnostics[0]
	return &d
}

// CountBySeverity tallies diagnostics of each severity.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, d := range r.diagnostics {
		counts[d.Severity]++
	}
	return counts
}

// HasErrors reports whether any Error-severity diagnostic was recorded —
// the signal that gates entry into the next pipeline stage.
func (r *Report) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Merge appends another report's diagnostics onto this one, preserving the
// source-order-within-stage / stage-order-across-stages guarantee when the
// caller merges stages in pipeline order.
func (r *Report) Merge(other *Report) {
	r.diagnostics = append(r.diagnostics, other.diagnostics...)
}

// SortBySeverity orders diagnostics most-severe first, stable on original order.
func (r *Report) SortBySeverity() {
	sort.SliceStable(r.diagnostics, func(i, j int) bool {
		return r.diagnostics[i].Severity > r.diagnostics[j].Severity
	})
}

// Render renders every diagnostic, one per line, via sm.
func (r *Report) Render(sm *sourcemap.Map) []string {
	lines := make([]string, 0, len(r.diagnostics))
	for i := range r.diagnostics {
		lines = append(lines, r.diagnostics[i].Render(sm))
	}
	return lines
}

// Error code prefixes, one per compiler stage.
const (
	CodeLex  = "LEX"
	CodeSyn  = "PARSE"
	CodeSem  = "SEM"
	CodeLLVM = "LLVM"
)
