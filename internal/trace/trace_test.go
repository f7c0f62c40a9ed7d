package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if lvl.String() != name {
			t.Fatalf("round trip %q -> %q", name, lvl)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopeCompile, false},
		{LevelDetail, ScopeEval, true},
		{LevelDetail, ScopeCall, false},
		{LevelError, ScopeCompile, true},
		{LevelDebug, ScopeCall, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	root := Begin(tr, ScopeCompile, "compile", 0)
	child := Begin(tr, ScopeEval, "eval", root.ID())
	child.WithExtra("values", "1").WithExtra("depth", "0").End("ok")
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "→ compile:compile") {
		t.Fatalf("unexpected begin line %q", lines[0])
	}
	if !strings.Contains(lines[2], "  ← eval:eval (ok) {depth=0, values=1}") {
		t.Fatalf("unexpected end line %q", lines[2])
	}
}

func TestStreamFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopeEval, "eval", 0)
	if span.ID() != 0 {
		t.Fatalf("filtered span must have zero id")
	}
	span.End("")
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written, got %q", buf.String())
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeCall, "call", 7, "f")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("bad json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "call" || got["detail"] != "f" {
		t.Fatalf("unexpected event %v", got)
	}
	if got["parent_id"] != float64(7) {
		t.Fatalf("parent_id = %v", got["parent_id"])
	}
}

func TestRingWrapsAndDumps(t *testing.T) {
	ring := NewRingTracer(3, LevelDetail)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeEval, name, 0, "")
	}
	if ring.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ring.Len())
	}
	snap := ring.Snapshot()
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "c,d,e" {
		t.Fatalf("snapshot order %v", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give Nop, got %v %v", tr, err)
	}

	tr, err = New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := RingOf(tr); !ok {
		t.Fatalf("error level must store into a ring, got %T", tr)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeCompile, "x", 0, "")
	ring, ok := RingOf(tr)
	if !ok || ring.Len() != 1 {
		t.Fatalf("both mode must keep the ring")
	}
	if buf.Len() == 0 {
		t.Fatalf("both mode must stream")
	}
}

func TestContextStart(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopeCompile, "outer")
	_, inner := Start(ctx, ScopeEval, "inner")
	inner.End("")
	outer.End("")

	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must give Nop")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ndjson: %v %v", f, err)
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Fatalf("chrome is not supported")
	}
}
