package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"calc/internal/diag"
	"calc/internal/source"
	"calc/internal/token"
	"calc/internal/vm"
)

func TestColumnsWideRunes(t *testing.T) {
	text := "中文 & x"
	// "x" starts at byte 9: two 3-byte runes, space, '&', space
	col, width := Columns(text, source.Span{Start: 9, End: 10})
	if col != 7 || width != 1 {
		t.Fatalf("Columns = %d,%d, want 7,1", col, width)
	}
	col, width = Columns(text, source.Span{Start: 0, End: 6})
	if col != 0 || width != 4 {
		t.Fatalf("Columns = %d,%d, want 0,4", col, width)
	}
	// пустой span всё равно даёт одну каретку
	if _, width := Columns("ab", source.Span{Start: 2, End: 2}); width != 1 {
		t.Fatalf("empty span width = %d", width)
	}
}

func TestPrettyCompileError(t *testing.T) {
	err := &diag.Error{Diagnostic: diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LexBadNumber,
		Message:  "hex literal needs digits",
		Primary:  source.Span{Start: 0, End: 2},
	}, Total: 2}

	var buf bytes.Buffer
	Error(&buf, "0x + 1", err, PrettyOpts{})
	want := "ERROR LEX1004: hex literal needs digits\n  0x + 1\n  ^^\n(and 1 more)\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyEvalError(t *testing.T) {
	err := &vm.Error{Code: vm.CodeUnknownSymbol, Symbol: "x", Span: source.Span{Start: 4, End: 5}}
	var buf bytes.Buffer
	Error(&buf, "1 & x", err, PrettyOpts{})
	want := "error: unknown symbol: \"x\"\n  1 & x\n      ^\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}

	buf.Reset()
	Error(&buf, "1", errors.New("plain"), PrettyOpts{})
	if buf.String() != "error: plain\n" {
		t.Fatalf("plain error: %q", buf.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnmatchedBracket,
		Message:  "bracket never closed",
		Primary:  source.Span{Start: 0, End: 1},
		Notes:    []diag.Note{{Span: source.Span{Start: 2, End: 3}, Msg: "expected here"}},
	}
	var buf bytes.Buffer
	Pretty(&buf, source.NewExpr("(1 "), []diag.Diagnostic{d}, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "note: expected here\n") {
		t.Fatalf("missing note:\n%s", buf.String())
	}
}

func TestFormatTokens(t *testing.T) {
	toks := []token.Token{
		{Kind: token.DecNumber, Text: "1", Span: source.Span{Start: 0, End: 1}},
		{Kind: token.Operator, Text: "&", Span: source.Span{Start: 2, End: 3}},
		{Kind: token.Symbol, Text: "中", Span: source.Span{Start: 4, End: 7}},
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows:\n%s", buf.String())
	}
	// колонка SPAN выровнена для широкого символа
	if column(lines[1], "0-1") != column(lines[3], "4-7") {
		t.Fatalf("span column misaligned:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[2].Kind != token.Symbol.String() || out[2].Span.End != 7 {
		t.Fatalf("json tokens: %+v", out)
	}
}

func column(line, sub string) int {
	return runewidth.StringWidth(line[:strings.Index(line, sub)])
}
