// Package boolean is the two-valued domain: literals 0 and 1, logical operators.
package boolean

import (
	"math/rand/v2"

	"calc/internal/domain"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/token"
	"calc/internal/vm"
)

const Name = "bool"

// Binary operator precedences.
const (
	PrecAnd   = 4
	PrecOr    = 3
	PrecLogic = 2 // xor, iff, implies
)

type Options struct {
	// NumericBool renders Str as 1/0 instead of true/false. Repr is unaffected.
	NumericBool bool
	// Rand backs the rand global; nil uses math/rand/v2.
	Rand func() bool
}

type Domain struct {
	opts Options
}

var _ domain.Domain[bool] = (*Domain)(nil)

func New(opts Options) *Domain {
	if opts.Rand == nil {
		opts.Rand = func() bool { return rand.IntN(2) == 1 }
	}
	return &Domain{opts: opts}
}

func (*Domain) Name() string { return Name }

func (*Domain) ParseLiteral(tok token.Token) (bool, error) {
	domain.RequireValue(Name, tok)
	if !tok.IsNumber() {
		return false, domain.Malformed(Name, tok, "only numeric literals are booleans")
	}
	switch tok.Text {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, domain.Malformed(Name, tok, "expected 0 or 1")
}

func (d *Domain) Str(v bool) string {
	if d.opts.NumericBool {
		if v {
			return "1"
		}
		return "0"
	}
	return d.Repr(v)
}

func (*Domain) Repr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func (*Domain) Null() bool { return false }

func (*Domain) Operators(d *ops.Dictionary[bool]) error {
	not := func(a bool) (bool, error) { return !a, nil }
	and := func(a, b bool) (bool, error) { return a && b, nil }
	or := func(a, b bool) (bool, error) { return a || b, nil }
	xor := func(a, b bool) (bool, error) { return a != b, nil }
	iff := func(a, b bool) (bool, error) { return a == b, nil }
	implies := func(a, b bool) (bool, error) { return !a || b, nil }

	for _, text := range []string{"~", "not"} {
		if _, err := d.RegisterUnary(text, not); err != nil {
			return err
		}
	}
	binaries := []struct {
		texts []string
		prec  int
		fn    func(a, b bool) (bool, error)
	}{
		{[]string{"&", "and"}, PrecAnd, and},
		{[]string{"|", "or"}, PrecOr, or},
		{[]string{"^", "xor", "!="}, PrecLogic, xor},
		{[]string{"=", "<=>", "eq", "iff"}, PrecLogic, iff},
		{[]string{"=>", "implies"}, PrecLogic, implies},
	}
	for _, b := range binaries {
		for _, text := range b.texts {
			if _, err := d.RegisterBinary(text, b.prec, b.fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Domain) Globals(s *symbols.Scope[vm.Binding[bool]]) error {
	random := d.opts.Rand
	return domain.Install(s,
		domain.Declaration[bool]{Name: "true", Binding: vm.Constant(true)},
		domain.Declaration[bool]{Name: "false", Binding: vm.Constant(false)},
		domain.Declaration[bool]{Name: "rand", Binding: vm.Func[bool](vm.NullaryDirect[bool](func() (bool, error) {
			return random(), nil
		}))},
	)
}
