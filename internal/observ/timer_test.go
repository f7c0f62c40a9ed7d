package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("compile")
	tm.End(idx, "infix")
	if err := tm.Measure("eval", func() error { return errors.New("boom") }); err == nil {
		t.Fatalf("Measure must return fn error")
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Note != "infix" || rep.Phases[1].Note != "failed" {
		t.Fatalf("unexpected notes %+v", rep.Phases)
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:", "compile", "// infix", "total"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	tm.End(idx, "")
	if err := tm.Measure("y", func() error { return nil }); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}

func TestEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if tm.Report().TotalMS != 0 {
		t.Fatalf("no phases expected")
	}
}
