// Package float is the IEEE 754 double domain.
package float

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"calc/internal/domain"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/vm"
)

const Name = "float"

// Binary operator precedences.
const (
	PrecAdd      = 2
	PrecMul      = 3
	PrecExponent = 4
)

type Options struct {
	// Precision is the number of significant digits in Str; 0 means the
	// shortest text that reads back exactly. Repr is always shortest.
	Precision int
	// Rand and Gauss back the rand and gauss globals; nil uses math/rand/v2.
	Rand  func() float64
	Gauss func() float64
}

type Domain struct {
	prec   int
	random func() float64
	gauss  func() float64
}

var _ domain.Domain[float64] = (*Domain)(nil)

func New(opts Options) (*Domain, error) {
	if opts.Precision < 0 || opts.Precision > 17 {
		return nil, fmt.Errorf("float: precision %d out of range 0..17", opts.Precision)
	}
	d := &Domain{prec: opts.Precision, random: opts.Rand, gauss: opts.Gauss}
	if d.prec == 0 {
		d.prec = -1
	}
	if d.random == nil {
		d.random = rand.Float64
	}
	if d.gauss == nil {
		d.gauss = rand.NormFloat64
	}
	return d, nil
}

func (*Domain) Name() string { return Name }

func (*Domain) Null() float64 { return 0 }

func (d *Domain) Str(v float64) string { return strconv.FormatFloat(v, 'g', d.prec, 64) }

func (*Domain) Repr(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Division by zero follows IEEE 754 and yields an infinity or NaN.
func (*Domain) Operators(d *ops.Dictionary[float64]) error {
	neg := func(a float64) (float64, error) { return -a, nil }
	unary := []struct {
		text string
		fn   func(a float64) (float64, error)
	}{
		{"-", neg},
		{"neg", neg},
		{"+", func(a float64) (float64, error) { return a, nil }},
	}
	for _, u := range unary {
		if _, err := d.RegisterUnary(u.text, u.fn); err != nil {
			return err
		}
	}

	binary := []struct {
		text  string
		prec  int
		assoc ops.Assoc
		fn    func(a, b float64) (float64, error)
	}{
		{"+", PrecAdd, ops.AssocLeft, func(a, b float64) (float64, error) { return a + b, nil }},
		{"-", PrecAdd, ops.AssocLeft, func(a, b float64) (float64, error) { return a - b, nil }},
		{"*", PrecMul, ops.AssocLeft, func(a, b float64) (float64, error) { return a * b, nil }},
		{"/", PrecMul, ops.AssocLeft, func(a, b float64) (float64, error) { return a / b, nil }},
		{"%", PrecMul, ops.AssocLeft, lift(math.Mod)},
		{"^", PrecExponent, ops.AssocRight, lift(math.Pow)},
		{"**", PrecExponent, ops.AssocRight, lift(math.Pow)},
	}
	for _, b := range binary {
		if _, err := d.RegisterBinaryAssoc(b.text, b.prec, b.assoc, b.fn); err != nil {
			return err
		}
	}
	return nil
}

func lift(fn func(a, b float64) float64) func(a, b float64) (float64, error) {
	return func(a, b float64) (float64, error) { return fn(a, b), nil }
}

func (d *Domain) Globals(s *symbols.Scope[vm.Binding[float64]]) error {
	decls := []domain.Declaration[float64]{
		{Name: "PI", Binding: vm.Constant(math.Pi)},
		{Name: "E", Binding: vm.Constant(math.E)},
		{Name: "INF", Binding: vm.Constant(math.Inf(1))},
		{Name: "NAN", Binding: vm.Constant(math.NaN())},
		{Name: "MAX", Binding: vm.Constant(math.MaxFloat64)},
		binary("atan2", math.Atan2),
		binary("log", func(a, base float64) float64 { return math.Log(a) / math.Log(base) }),
		domain.Accumulator("min", zero, math.Min, nil),
		domain.Accumulator("max", zero, math.Max, nil),
		domain.Accumulator("sum", zero, func(acc, v float64) float64 { return acc + v }, nil),
		domain.Accumulator("avg", zero, func(acc, v float64) float64 { return acc + v },
			func(total float64, n int) float64 { return total / float64(n) }),
		nullary("rand", d.random),
		nullary("gauss", d.gauss),
	}
	unaries := []struct {
		name string
		fn   func(float64) float64
	}{
		{"abs", math.Abs},
		{"sgn", sgn},
		{"sqrt", math.Sqrt},
		{"ceil", math.Ceil},
		{"floor", math.Floor},
		{"round", math.Round},
		{"cos", math.Cos},
		{"cosh", math.Cosh},
		{"sin", math.Sin},
		{"sinh", math.Sinh},
		{"tan", math.Tan},
		{"tanh", math.Tanh},
		{"acos", math.Acos},
		{"acosh", math.Acosh},
		{"asin", math.Asin},
		{"asinh", math.Asinh},
		{"atan", math.Atan},
		{"atanh", math.Atanh},
		{"log10", math.Log10},
		{"ln", math.Log},
		{"exp", math.Exp},
		{"rad", func(deg float64) float64 { return deg * math.Pi / 180 }},
		{"deg", func(rad float64) float64 { return rad * 180 / math.Pi }},
	}
	for _, u := range unaries {
		fn := u.fn
		decls = append(decls, domain.Declaration[float64]{Name: u.name, Binding: vm.Func[float64](vm.Unary(func(a float64) (float64, error) {
			return fn(a), nil
		}))})
	}
	return domain.Install(s, decls...)
}

func zero() float64 { return 0 }

// sgn keeps the sign of zero and passes NaN through.
func sgn(a float64) float64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return a
}

func binary(name string, fn func(a, b float64) float64) domain.Declaration[float64] {
	return domain.Declaration[float64]{Name: name, Binding: vm.Func[float64](vm.Binary(func(a, b float64) (float64, error) {
		return fn(a, b), nil
	}))}
}

func nullary(name string, fn func() float64) domain.Declaration[float64] {
	return domain.Declaration[float64]{Name: name, Binding: vm.Func[float64](vm.NullaryDirect[float64](func() (float64, error) {
		return fn(), nil
	}))}
}
