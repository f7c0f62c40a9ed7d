package lexer_test

import (
	"fmt"
	"testing"

	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/source"
	"calc/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

var boolOps = []string{"~", "not", "^", "xor", "!=", "=", "<=>", "eq", "iff", "=>", "implies", "|", "or", "&", "and"}

func lex(t *testing.T, input string, ops ...string) ([]token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	toks := lexer.Tokenize(source.NewExpr(input), lexer.Options{Reporter: rep, Operators: ops})
	return toks, rep
}

func describe(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tk := range toks {
		out[i] = fmt.Sprintf("%s:%s", tk.Kind, tk.Text)
	}
	return out
}

func expectTokens(t *testing.T, got []token.Token, want ...string) {
	t.Helper()
	d := describe(got)
	if len(d) != len(want) {
		t.Fatalf("token count: got %v, want %v", d, want)
	}
	for i := range want {
		if d[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (all: %v)", i, d[i], want[i], d)
		}
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123", "DecNumber:123"},
		{"1_000", "DecNumber:1000"},
		{"3.25", "DecNumber:3.25"},
		{"0", "DecNumber:0"},
		{"0x1F", "HexNumber:1F"},
		{"0b1010", "BinNumber:1010"},
		{"017", "OctNumber:17"},
		{"36#ZZ", "QuotedNumber:36#ZZ"},
		{"60#'59'1", "QuotedNumber:60#'59'1"},
		{"0x1.8", "HexNumber:1.8"},
	}
	for _, c := range cases {
		toks, rep := lex(t, c.in)
		if len(rep.diagnostics) != 0 {
			t.Fatalf("%q: unexpected diagnostics %v", c.in, rep.codes())
		}
		expectTokens(t, toks, c.want)
	}
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"0x", "0b12", "12ab"} {
		toks, rep := lex(t, in)
		if len(toks) != 1 || toks[0].Kind != token.Invalid {
			t.Fatalf("%q: expected single invalid token, got %v", in, describe(toks))
		}
		if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: expected LexBadNumber, got %v", in, rep.codes())
		}
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	toks, _ := lex(t, "1<=>0=>1=0", boolOps...)
	expectTokens(t, toks,
		"DecNumber:1", "Operator:<=>", "DecNumber:0", "Operator:=>",
		"DecNumber:1", "Operator:=", "DecNumber:0")
}

func TestWordOperatorsVsSymbols(t *testing.T) {
	toks, _ := lex(t, "a and b android or_x not", boolOps...)
	expectTokens(t, toks,
		"Symbol:a", "Operator:and", "Symbol:b", "Symbol:android", "Symbol:or_x", "Operator:not")
}

func TestBracketsAndCalls(t *testing.T) {
	toks, _ := lex(t, "f(a, [b]) {}", boolOps...)
	expectTokens(t, toks,
		"Symbol:f", "LeftBracket:(", "Symbol:a", "Separator:,", "LeftBracket:[",
		"Symbol:b", "RightBracket:]", "RightBracket:)", "LeftBracket:{", "RightBracket:}")
}

func TestSymbolWithArgs(t *testing.T) {
	toks, _ := lex(t, "dup@2 dup@,4 f@1,2 g@ $ans")
	expectTokens(t, toks,
		"SymbolWithArgs:dup@2", "SymbolWithArgs:dup@,4", "SymbolWithArgs:f@1,2",
		"SymbolWithArgs:g@", "Symbol:$ans")
}

func TestStrings(t *testing.T) {
	toks, rep := lex(t, `"a\"b" 'c\n' "\x41é"`)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", rep.codes())
	}
	expectTokens(t, toks, "String:a\"b", "String:c\n", "String:Aé")
}

func TestStringErrors(t *testing.T) {
	toks, rep := lex(t, `"abc`)
	if len(toks) != 1 || toks[0].Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", describe(toks))
	}
	if c := rep.codes(); len(c) != 1 || c[0] != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string, got %v", c)
	}

	_, rep = lex(t, `"\q\x4"`)
	if c := rep.codes(); len(c) != 2 || c[0] != diag.LexBadEscape || c[1] != diag.LexBadEscape {
		t.Fatalf("expected two bad escapes, got %v", c)
	}
}

func TestUnknownCharContinues(t *testing.T) {
	toks, rep := lex(t, "1 § 0", boolOps...)
	expectTokens(t, toks, "DecNumber:1", "Invalid:§", "DecNumber:0")
	if c := rep.codes(); len(c) != 1 || c[0] != diag.LexUnknownChar {
		t.Fatalf("expected one unknown char, got %v", c)
	}
	if sp := toks[1].Span; sp.Len() != uint32(len("§")) {
		t.Fatalf("unknown char must span the whole rune, got %v", sp)
	}
}

func TestModifiers(t *testing.T) {
	rep := &testReporter{}
	toks := lexer.Tokenize(source.NewExpr("#x"), lexer.Options{Reporter: rep, Modifiers: []string{"#"}})
	expectTokens(t, toks, "Modifier:#", "Symbol:x")
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New(source.NewExpr("a b"), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek: %v", p)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek: %v", n)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second: %v", n)
	}
	for range 2 {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("expected sticky EOF, got %v", n)
		}
	}
}

func TestSpans(t *testing.T) {
	toks, _ := lex(t, "  0x10 & a", boolOps...)
	if sp := toks[0].Span; sp.Start != 2 || sp.End != 6 {
		t.Fatalf("hex span covers prefix: %v", sp)
	}
	if sp := toks[2].Span; sp.Start != 9 || sp.End != 10 {
		t.Fatalf("symbol span: %v", sp)
	}
}
