package diag

import (
	"strings"
	"testing"

	"github.com/neuro-lang/neuroc/sourcemap"
)

func TestRenderWithSpanAndNotes(t *testing.T) {
	sm := sourcemap.New("x.nr", "fn main() {}\n")
	span := sourcemap.Span{Start: 3, End: 7}
	d := Diagnostic{
		Severity: Error,
		Message:  "type mismatch",
		Span:     &span,
		Code:     CodeSem + "010",
		Notes:    []string{"expected i32"},
	}
	got := d.Render(sm)
	want := "error: type mismatch [SEM010] at x.nr:1:4; note: expected i32"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderWithoutSpan(t *testing.T) {
	d := Diagnostic{Severity: Warning, Message: "tool not found"}
	if got := d.Render(nil); got != "warning: tool not found" {
		t.Errorf("Render = %q", got)
	}
}

func TestReportCountsAndGating(t *testing.T) {
	var r Report
	r.Add(Diagnostic{Severity: Warning, Message: "w"})
	if r.HasErrors() {
		t.Fatal("warnings alone must not gate the pipeline")
	}
	r.Add(Diagnostic{Severity: Error, Message: "e"})
	r.Add(Diagnostic{Severity: Hint, Message: "h"})
	if !r.HasErrors() {
		t.Fatal("expected HasErrors after an error")
	}
	counts := r.CountBySeverity()
	if counts[Warning] != 1 || counts[Error] != 1 || counts[Hint] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if r.First() == nil || r.First().Message != "w" {
		t.Errorf("First() = %+v, want the earliest diagnostic", r.First())
	}
}

func TestMergePreservesOrderAndSortIsStable(t *testing.T) {
	var a, b Report
	a.Add(Diagnostic{Severity: Warning, Message: "lex warning"})
	b.Add(Diagnostic{Severity: Error, Message: "parse error"})
	b.Add(Diagnostic{Severity: Warning, Message: "parse warning"})
	a.Merge(&b)

	var got []string
	for _, d := range a.All() {
		got = append(got, d.Message)
	}
	want := "lex warning,parse error,parse warning"
	if strings.Join(got, ",") != want {
		t.Errorf("merged order = %q, want %q", strings.Join(got, ","), want)
	}

	a.SortBySeverity()
	if a.All()[0].Message != "parse error" {
		t.Errorf("sort put %q first", a.All()[0].Message)
	}
	if a.All()[1].Message != "lex warning" || a.All()[2].Message != "parse warning" {
		t.Errorf("sort was not stable: %+v", a.All())
	}
}
