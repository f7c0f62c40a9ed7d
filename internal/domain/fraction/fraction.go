// Package fraction is the exact rational domain over math/big.Rat.
package fraction

import (
	"fmt"
	"math"
	"math/big"
	"math/rand/v2"

	"calc/internal/domain"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/token"
	"calc/internal/vm"
)

const Name = "fraction"

// Binary operator precedences.
const (
	PrecAdd = 1
	PrecMul = 2
)

type Options struct {
	// Decimals > 0 renders Str as a rounded decimal with that many digits after
	// the point. Repr is always n/d.
	Decimals int
	// Rand and Gauss back the rand and gauss globals; nil uses math/rand/v2.
	Rand  func() float64
	Gauss func() float64
}

type Domain struct {
	decimals int
	random   func() float64
	gauss    func() float64
}

var _ domain.Domain[*big.Rat] = (*Domain)(nil)

func New(opts Options) (*Domain, error) {
	if opts.Decimals < 0 {
		return nil, fmt.Errorf("fraction: negative decimals %d", opts.Decimals)
	}
	d := &Domain{decimals: opts.Decimals, random: opts.Rand, gauss: opts.Gauss}
	if d.random == nil {
		d.random = rand.Float64
	}
	if d.gauss == nil {
		d.gauss = rand.NormFloat64
	}
	return d, nil
}

func (*Domain) Name() string { return Name }

func (*Domain) Null() *big.Rat { return new(big.Rat) }

// ParseLiteral reads every number kind exactly: 0b0.11 is 3/4, 3#0.1 is 1/3.
func (*Domain) ParseLiteral(tok token.Token) (*big.Rat, error) {
	domain.RequireValue(Name, tok)
	if !tok.IsNumber() {
		return nil, domain.Malformed(Name, tok, "strings are not numbers")
	}
	d, err := domain.ParseDigits(Name, tok)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetFrac(d.Mantissa(), d.Scale()), nil
}

func (d *Domain) Str(v *big.Rat) string {
	if d.decimals > 0 {
		return v.FloatString(d.decimals)
	}
	return d.Repr(v)
}

// Repr is n/d in lowest terms, or n alone for integers.
func (*Domain) Repr(v *big.Rat) string { return v.RatString() }

func (*Domain) Operators(d *ops.Dictionary[*big.Rat]) error {
	neg := func(a *big.Rat) (*big.Rat, error) { return new(big.Rat).Neg(a), nil }
	unary := []struct {
		text string
		fn   func(a *big.Rat) (*big.Rat, error)
	}{
		{"-", neg},
		{"neg", neg},
		{"+", func(a *big.Rat) (*big.Rat, error) { return a, nil }},
	}
	for _, u := range unary {
		if _, err := d.RegisterUnary(u.text, u.fn); err != nil {
			return err
		}
	}

	binary := []struct {
		text string
		prec int
		fn   func(a, b *big.Rat) (*big.Rat, error)
	}{
		{"+", PrecAdd, lift((*big.Rat).Add)},
		{"-", PrecAdd, lift((*big.Rat).Sub)},
		{"*", PrecMul, lift((*big.Rat).Mul)},
		{"/", PrecMul, quo},
	}
	for _, b := range binary {
		if _, err := d.RegisterBinary(b.text, b.prec, b.fn); err != nil {
			return err
		}
	}
	return nil
}

func lift(m func(z, x, y *big.Rat) *big.Rat) func(a, b *big.Rat) (*big.Rat, error) {
	return func(a, b *big.Rat) (*big.Rat, error) { return m(new(big.Rat), a, b), nil }
}

func quo(a, b *big.Rat) (*big.Rat, error) {
	if b.Sign() == 0 {
		return nil, vm.Errorf(vm.CodeDomain, "/", "division by zero")
	}
	return new(big.Rat).Quo(a, b), nil
}

func (d *Domain) Globals(s *symbols.Scope[vm.Binding[*big.Rat]]) error {
	zero := func() *big.Rat { return new(big.Rat) }
	return domain.Install(s,
		unaryFn("abs", func(a *big.Rat) (*big.Rat, error) { return new(big.Rat).Abs(a), nil }),
		unaryFn("sgn", func(a *big.Rat) (*big.Rat, error) { return big.NewRat(int64(a.Sign()), 1), nil }),
		unaryFn("numerator", func(a *big.Rat) (*big.Rat, error) { return new(big.Rat).SetInt(a.Num()), nil }),
		unaryFn("denominator", func(a *big.Rat) (*big.Rat, error) { return new(big.Rat).SetInt(a.Denom()), nil }),
		unaryFn("int", func(a *big.Rat) (*big.Rat, error) { return new(big.Rat).SetInt(whole(a)), nil }),
		unaryFn("frac", func(a *big.Rat) (*big.Rat, error) {
			rest := new(big.Rat).Sub(a, new(big.Rat).SetInt(whole(a)))
			return rest.Abs(rest), nil
		}),
		unaryFn("sqrt", viaFloat("sqrt", math.Sqrt)),
		unaryFn("log", viaFloat("log", math.Log)),
		domain.Accumulator("min", zero, func(acc, v *big.Rat) *big.Rat {
			if v.Cmp(acc) < 0 {
				return v
			}
			return acc
		}, nil),
		domain.Accumulator("max", zero, func(acc, v *big.Rat) *big.Rat {
			if v.Cmp(acc) > 0 {
				return v
			}
			return acc
		}, nil),
		domain.Accumulator("sum", zero, func(acc, v *big.Rat) *big.Rat { return new(big.Rat).Add(acc, v) }, nil),
		domain.Accumulator("avg", zero, func(acc, v *big.Rat) *big.Rat { return new(big.Rat).Add(acc, v) },
			func(total *big.Rat, n int) *big.Rat { return new(big.Rat).Quo(total, big.NewRat(int64(n), 1)) }),
		nullary("rand", d.random),
		nullary("gauss", d.gauss),
	)
}

// whole truncates toward zero, so int(-7/4) is -1 and frac(-7/4) is 3/4.
func whole(a *big.Rat) *big.Int {
	return new(big.Int).Quo(a.Num(), a.Denom())
}

// viaFloat runs fn on the nearest double and reads the result back exactly.
func viaFloat(name string, fn func(float64) float64) func(a *big.Rat) (*big.Rat, error) {
	return func(a *big.Rat) (*big.Rat, error) {
		f, _ := a.Float64()
		return fromFloat(name, fn(f))
	}
}

func fromFloat(name string, f float64) (*big.Rat, error) {
	v := new(big.Rat).SetFloat64(f)
	if v == nil {
		return nil, vm.Errorf(vm.CodeDomain, name, "result %v is not a fraction", f)
	}
	return v, nil
}

func unaryFn(name string, fn func(a *big.Rat) (*big.Rat, error)) domain.Declaration[*big.Rat] {
	return domain.Declaration[*big.Rat]{Name: name, Binding: vm.Func[*big.Rat](vm.Unary(fn))}
}

func nullary(name string, fn func() float64) domain.Declaration[*big.Rat] {
	return domain.Declaration[*big.Rat]{Name: name, Binding: vm.Func[*big.Rat](vm.NullaryDirect[*big.Rat](func() (*big.Rat, error) {
		return fromFloat(name, fn())
	}))}
}
