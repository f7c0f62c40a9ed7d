package token_test

import (
	"testing"

	"calc/internal/token"
)

func TestKindFlagsTable(t *testing.T) {
	type row struct {
		value, number, symbol, terminator bool
	}
	want := map[token.Kind]row{
		token.DecNumber:      {value: true, number: true},
		token.HexNumber:      {value: true, number: true},
		token.OctNumber:      {value: true, number: true},
		token.BinNumber:      {value: true, number: true},
		token.QuotedNumber:   {value: true, number: true},
		token.String:         {value: true},
		token.Symbol:         {symbol: true},
		token.SymbolWithArgs: {symbol: true},
		token.Operator:       {},
		token.LeftBracket:    {},
		token.Separator:      {terminator: true},
		token.RightBracket:   {terminator: true},
		token.Modifier:       {},
	}
	kinds := token.Kinds()
	if len(kinds) != len(want) {
		t.Fatalf("expected %d kinds, got %d", len(want), len(kinds))
	}
	for _, k := range kinds {
		w, ok := want[k]
		if !ok {
			t.Fatalf("kind %v missing from table", k)
		}
		got := row{k.IsValue(), k.IsNumber(), k.IsSymbol(), k.IsTerminator()}
		if got != w {
			t.Fatalf("%v: got %+v, want %+v", k, got, w)
		}
		// повторный вызов обязан вернуть то же самое
		if again := (row{k.IsValue(), k.IsNumber(), k.IsSymbol(), k.IsTerminator()}); again != got {
			t.Fatalf("%v: flags changed between calls", k)
		}
	}
}

func TestNextOpUnary(t *testing.T) {
	unary := []token.Kind{token.Operator, token.LeftBracket, token.Separator, token.Modifier}
	for _, k := range unary {
		if !k.IsNextOpUnary() {
			t.Fatalf("%v should put next operator in prefix position", k)
		}
		if !token.New(k, "x").IsNextOpUnary() {
			t.Fatalf("token of kind %v must agree with its kind", k)
		}
	}
	binary := []token.Kind{token.DecNumber, token.String, token.Symbol, token.RightBracket}
	for _, k := range binary {
		if k.IsNextOpUnary() || token.New(k, "x").IsNextOpUnary() {
			t.Fatalf("%v must NOT put next operator in prefix position", k)
		}
	}
}

func TestTokenRadix(t *testing.T) {
	cases := map[token.Kind]int{
		token.DecNumber:    10,
		token.HexNumber:    16,
		token.OctNumber:    8,
		token.BinNumber:    2,
		token.QuotedNumber: 0,
		token.Symbol:       0,
	}
	for k, want := range cases {
		if got := token.New(k, "1").Radix(); got != want {
			t.Fatalf("%v: radix %d, want %d", k, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.SymbolWithArgs.String() != "SymbolWithArgs" {
		t.Fatalf("unexpected name %q", token.SymbolWithArgs.String())
	}
	if token.Kind(200).String() != "Kind(?)" {
		t.Fatalf("out of range kind must not panic")
	}
	if token.Kind(200).IsValue() {
		t.Fatalf("out of range kind has no flags")
	}
}
