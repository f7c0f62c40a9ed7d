package bigint

import (
	"errors"
	"math/big"
	"testing"

	"calc/internal/domain"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/token"
	"calc/internal/vm"
)

func mustDomain(t *testing.T, opts Options) *Domain {
	t.Helper()
	d, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestParseLiteral(t *testing.T) {
	d := mustDomain(t, Options{})
	cases := []struct {
		tok  token.Token
		want string
	}{
		{token.New(token.DecNumber, "123456789012345678901234567890"), "123456789012345678901234567890"},
		{token.New(token.HexNumber, "ff"), "255"},
		{token.New(token.OctNumber, "17"), "15"},
		{token.New(token.BinNumber, "1010"), "10"},
		{token.New(token.QuotedNumber, "36#zz"), "1295"},
		{token.New(token.QuotedNumber, "36#ZZ"), "1295"},
		{token.New(token.QuotedNumber, "60#'59'1"), "3541"},
		{token.New(token.QuotedNumber, "3#\"2\"1"), "7"},
	}
	for _, c := range cases {
		v, err := d.ParseLiteral(c.tok)
		if err != nil {
			t.Fatalf("%v: %v", c.tok, err)
		}
		if v.String() != c.want {
			t.Fatalf("%v: got %s, want %s", c.tok, v, c.want)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	d := mustDomain(t, Options{})
	for _, tok := range []token.Token{
		token.New(token.DecNumber, "1.5"),
		token.New(token.String, "12"),
		token.New(token.QuotedNumber, "2#102"),
		token.New(token.QuotedNumber, "1#0"),
		token.New(token.QuotedNumber, "10#'5"),
		token.New(token.OctNumber, "9"),
	} {
		if _, err := d.ParseLiteral(tok); !errors.Is(err, domain.ErrMalformedLiteral) {
			t.Fatalf("%v: expected malformed literal, got %v", tok, err)
		}
	}
}

func TestRendering(t *testing.T) {
	v := big.NewInt(-255)
	if got := mustDomain(t, Options{}).Str(v); got != "-255" {
		t.Fatalf("dec: %s", got)
	}
	if got := mustDomain(t, Options{Radix: 16}).Str(v); got != "-0xff" {
		t.Fatalf("hex: %s", got)
	}
	if got := mustDomain(t, Options{Radix: 36}).Str(big.NewInt(1295)); got != "36#zz" {
		t.Fatalf("36: %s", got)
	}
	if got := mustDomain(t, Options{Radix: 2}).Repr(v); got != "-255" {
		t.Fatalf("repr must stay decimal: %s", got)
	}
	if _, err := New(Options{Radix: 40}); err == nil {
		t.Fatalf("radix 40 accepted")
	}
}

func apply(t *testing.T, dict *ops.Dictionary[*big.Int], text string, a, b int64) (*big.Int, error) {
	t.Helper()
	op, ok := dict.Binary(text)
	if !ok {
		t.Fatalf("missing operator %s", text)
	}
	return op.Apply(big.NewInt(a), big.NewInt(b))
}

func TestOperators(t *testing.T) {
	dict := ops.NewDictionary[*big.Int]()
	if err := mustDomain(t, Options{}).Operators(dict); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		text string
		a, b int64
		want string
	}{
		{"+", 2, 3, "5"},
		{"-", 2, 3, "-1"},
		{"*", -4, 3, "-12"},
		{"/", -7, 2, "-3"},
		{"%", -7, 2, "-1"},
		{"**", 2, 100, "1267650600228229401496703205376"},
		{"<<", 1, 70, "1180591620717411303424"},
		{">>", 1024, 3, "128"},
		{"&", 12, 10, "8"},
		{"|", 12, 10, "14"},
		{"^", 12, 10, "6"},
	}
	for _, c := range cases {
		v, err := apply(t, dict, c.text, c.a, c.b)
		if err != nil || v.String() != c.want {
			t.Fatalf("%d %s %d = %v (%v), want %s", c.a, c.text, c.b, v, err, c.want)
		}
	}
	for _, text := range []string{"/", "%"} {
		if _, err := apply(t, dict, text, 1, 0); !errors.Is(err, vm.ErrDomain) {
			t.Fatalf("%s by zero: %v", text, err)
		}
	}
	if _, err := apply(t, dict, "**", 2, -1); !errors.Is(err, vm.ErrDomain) {
		t.Fatalf("negative exponent: %v", err)
	}
	if _, err := apply(t, dict, "<<", 1, MaxShift+1); !errors.Is(err, vm.ErrDomain) {
		t.Fatalf("huge shift: %v", err)
	}
	if op, _ := dict.Binary("**"); op.Assoc != ops.AssocRight {
		t.Fatalf("** must be right-associative")
	}
	neg, _ := dict.Unary("-")
	if v, _ := neg.Apply(big.NewInt(5)); v.Int64() != -5 {
		t.Fatalf("unary minus: %v", v)
	}
	not, _ := dict.Unary("~")
	if v, _ := not.Apply(big.NewInt(0)); v.Int64() != -1 {
		t.Fatalf("~0: %v", v)
	}
}

func TestOperandsNotMutated(t *testing.T) {
	dict := ops.NewDictionary[*big.Int]()
	_ = mustDomain(t, Options{}).Operators(dict)
	a, b := big.NewInt(6), big.NewInt(7)
	op, _ := dict.Binary("*")
	if _, err := op.Apply(a, b); err != nil {
		t.Fatal(err)
	}
	if a.Int64() != 6 || b.Int64() != 7 {
		t.Fatalf("operands mutated: %s %s", a, b)
	}
}

func TestAccumulators(t *testing.T) {
	g := symbols.NewGlobal[vm.Binding[*big.Int]]()
	if err := mustDomain(t, Options{}).Globals(g); err != nil {
		t.Fatal(err)
	}
	run := func(name string, args vm.Count, vals ...int64) string {
		t.Helper()
		f := vm.NewFrame(g)
		for _, v := range vals {
			f.Stack().Push(big.NewInt(v))
		}
		b, ok := g.Get(name)
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if err := f.Invoke(name, b.Callable(), args, vm.Unspecified); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return f.Stack().Pop().String()
	}
	if got := run("sum", vm.Unspecified, 1, 2); got != "3" {
		t.Fatalf("sum default: %s", got)
	}
	if got := run("sum", vm.Exactly(4), 1, 2, 3, 4); got != "10" {
		t.Fatalf("sum 4: %s", got)
	}
	if got := run("max", vm.Exactly(3), 5, -1, 9); got != "9" {
		t.Fatalf("max: %s", got)
	}
	if got := run("min", vm.Exactly(3), 5, -1, 9); got != "-1" {
		t.Fatalf("min: %s", got)
	}
	if got := run("avg", vm.Exactly(3), 1, 2, 6); got != "3" {
		t.Fatalf("avg: %s", got)
	}
	if got := run("sum", vm.Exactly(0)); got != "0" {
		t.Fatalf("empty sum is the null value: %s", got)
	}
	if got := run("gcd", vm.Unspecified, 12, -18); got != "6" {
		t.Fatalf("gcd: %s", got)
	}
	if got := run("abs", vm.Unspecified, -3); got != "3" {
		t.Fatalf("abs: %s", got)
	}
	if got := run("sgn", vm.Exactly(1), -3); got != "-1" {
		t.Fatalf("sgn: %s", got)
	}
}

func TestQuotedRadixHasNoUpperBound(t *testing.T) {
	d := mustDomain(t, Options{})
	v, err := d.ParseLiteral(token.New(token.QuotedNumber, "100#'99'\"1\""))
	if err != nil || v.String() != "9901" {
		t.Fatalf("100#'99'\"1\" = %v (%v)", v, err)
	}
	if _, err := d.ParseLiteral(token.New(token.QuotedNumber, "100#'100'")); !errors.Is(err, domain.ErrMalformedLiteral) {
		t.Fatalf("digit equal to radix accepted: %v", err)
	}
}

func TestBitAndModularBuiltins(t *testing.T) {
	g := symbols.NewGlobal[vm.Binding[*big.Int]]()
	if err := mustDomain(t, Options{Rand: func() int64 { return 42 }}).Globals(g); err != nil {
		t.Fatal(err)
	}
	run := func(name string, vals ...int64) (string, error) {
		t.Helper()
		f := vm.NewFrame(g)
		for _, v := range vals {
			f.Stack().Push(big.NewInt(v))
		}
		b, ok := g.Get(name)
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if err := f.Invoke(name, b.Callable(), vm.Unspecified, vm.Unspecified); err != nil {
			return "", err
		}
		return f.Stack().Pop().String(), nil
	}
	cases := []struct {
		name string
		args []int64
		want string
	}{
		{"modpow", []int64{4, 13, 497}, "445"},
		{"modpow", []int64{3, -1, 7}, "5"},
		{"get", []int64{5, 0}, "1"},
		{"get", []int64{5, 1}, "0"},
		{"get", []int64{-1, 100}, "1"},
		{"set", []int64{5, 1}, "7"},
		{"clear", []int64{5, 2}, "1"},
		{"flip", []int64{5, 0}, "4"},
		{"flip", []int64{5, 3}, "13"},
		{"rand", nil, "42"},
	}
	for _, c := range cases {
		got, err := run(c.name, c.args...)
		if err != nil || got != c.want {
			t.Fatalf("%s%v = %s (%v), want %s", c.name, c.args, got, err, c.want)
		}
	}
	for _, bad := range [][]int64{{2, 3, 0}, {2, 3, -5}, {2, -1, 4}} {
		if _, err := run("modpow", bad...); !errors.Is(err, vm.ErrDomain) {
			t.Fatalf("modpow%v: %v", bad, err)
		}
	}
	if _, err := run("set", 1, -1); !errors.Is(err, vm.ErrDomain) {
		t.Fatalf("negative bit index: %v", err)
	}
	if _, err := run("get", 1, MaxShift+1); !errors.Is(err, vm.ErrDomain) {
		t.Fatalf("huge bit index: %v", err)
	}
}

func TestUnaryPlusIsIdentity(t *testing.T) {
	dict := ops.NewDictionary[*big.Int]()
	if err := mustDomain(t, Options{}).Operators(dict); err != nil {
		t.Fatal(err)
	}
	plus, ok := dict.Unary("+")
	if !ok {
		t.Fatalf("missing unary +")
	}
	if v, err := plus.Apply(big.NewInt(-7)); err != nil || v.Int64() != -7 {
		t.Fatalf("+(-7) = %v (%v)", v, err)
	}
}
