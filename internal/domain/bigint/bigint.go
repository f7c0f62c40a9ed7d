// Package bigint is the arbitrary-precision integer domain.
package bigint

import (
	"fmt"
	"math/big"
	"math/rand/v2"

	"calc/internal/domain"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/vm"
)

const Name = "bigint"

// Binary operator precedences.
const (
	PrecBitwise  = 2
	PrecShift    = 3
	PrecAdd      = 4
	PrecMul      = 5
	PrecExponent = 6
)

// Limits guarding against values that would exhaust memory.
const (
	MaxShift    = 1 << 16
	MaxExponent = 1 << 14
)

type Options struct {
	// Radix for Str, 2..36; 0 means 10. Repr is always decimal.
	Radix int
	// Rand feeds the rand builtin; nil means math/rand/v2.
	Rand func() int64
}

type Domain struct {
	radix  int
	random func() int64
}

var _ domain.Domain[*big.Int] = (*Domain)(nil)

func New(opts Options) (*Domain, error) {
	r := opts.Radix
	if r == 0 {
		r = 10
	}
	if r < 2 || r > 36 {
		return nil, fmt.Errorf("bigint: output radix %d out of range 2..36", r)
	}
	src := opts.Rand
	if src == nil {
		src = rand.Int64
	}
	return &Domain{radix: r, random: src}, nil
}

func (*Domain) Name() string { return Name }

func (*Domain) Null() *big.Int { return new(big.Int) }

func (d *Domain) Str(v *big.Int) string {
	switch d.radix {
	case 10:
		return v.String()
	case 16:
		return withPrefix(v, "0x", 16)
	case 8:
		return withPrefix(v, "0", 8)
	case 2:
		return withPrefix(v, "0b", 2)
	}
	return fmt.Sprintf("%d#%s", d.radix, v.Text(d.radix))
}

func withPrefix(v *big.Int, prefix string, radix int) string {
	if v.Sign() < 0 {
		return "-" + prefix + new(big.Int).Neg(v).Text(radix)
	}
	return prefix + v.Text(radix)
}

func (*Domain) Repr(v *big.Int) string { return v.String() }

// Values are never mutated after creation; every operator allocates its result.
func (*Domain) Operators(d *ops.Dictionary[*big.Int]) error {
	unary := []struct {
		text string
		fn   func(a *big.Int) (*big.Int, error)
	}{
		{"-", func(a *big.Int) (*big.Int, error) { return new(big.Int).Neg(a), nil }},
		{"neg", func(a *big.Int) (*big.Int, error) { return new(big.Int).Neg(a), nil }},
		{"+", func(a *big.Int) (*big.Int, error) { return a, nil }},
		{"~", func(a *big.Int) (*big.Int, error) { return new(big.Int).Not(a), nil }},
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
		fn    func(a, b *big.Int) (*big.Int, error)
	}{
		{"^", PrecBitwise, ops.AssocLeft, lift((*big.Int).Xor)},
		{"|", PrecBitwise, ops.AssocLeft, lift((*big.Int).Or)},
		{"&", PrecBitwise, ops.AssocLeft, lift((*big.Int).And)},
		{"<<", PrecShift, ops.AssocLeft, shl},
		{">>", PrecShift, ops.AssocLeft, shr},
		{"+", PrecAdd, ops.AssocLeft, lift((*big.Int).Add)},
		{"-", PrecAdd, ops.AssocLeft, lift((*big.Int).Sub)},
		{"*", PrecMul, ops.AssocLeft, lift((*big.Int).Mul)},
		{"/", PrecMul, ops.AssocLeft, quo},
		{"%", PrecMul, ops.AssocLeft, rem},
		{"**", PrecExponent, ops.AssocRight, pow},
	}
	for _, b := range binary {
		if _, err := d.RegisterBinaryAssoc(b.text, b.prec, b.assoc, b.fn); err != nil {
			return err
		}
	}
	return nil
}

func lift(m func(z, x, y *big.Int) *big.Int) func(a, b *big.Int) (*big.Int, error) {
	return func(a, b *big.Int) (*big.Int, error) { return m(new(big.Int), a, b), nil }
}

func quo(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, vm.Errorf(vm.CodeDomain, "/", "division by zero")
	}
	return new(big.Int).Quo(a, b), nil
}

func rem(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, vm.Errorf(vm.CodeDomain, "%", "division by zero")
	}
	return new(big.Int).Rem(a, b), nil
}

func pow(a, b *big.Int) (*big.Int, error) {
	n, err := small("**", b, MaxExponent)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Exp(a, big.NewInt(int64(n)), nil), nil
}

func shl(a, b *big.Int) (*big.Int, error) {
	n, err := small("<<", b, MaxShift)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Lsh(a, n), nil
}

func shr(a, b *big.Int) (*big.Int, error) {
	n, err := small(">>", b, MaxShift)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Rsh(a, n), nil
}

func (d *Domain) Globals(s *symbols.Scope[vm.Binding[*big.Int]]) error {
	return domain.Install(s,
		domain.Declaration[*big.Int]{Name: "abs", Binding: vm.Func[*big.Int](vm.Unary(func(a *big.Int) (*big.Int, error) {
			return new(big.Int).Abs(a), nil
		}))},
		domain.Declaration[*big.Int]{Name: "sgn", Binding: vm.Func[*big.Int](vm.Unary(func(a *big.Int) (*big.Int, error) {
			return big.NewInt(int64(a.Sign())), nil
		}))},
		accumulator("min", func(acc, v *big.Int) *big.Int {
			if v.Cmp(acc) < 0 {
				return v
			}
			return acc
		}, nil),
		accumulator("max", func(acc, v *big.Int) *big.Int {
			if v.Cmp(acc) > 0 {
				return v
			}
			return acc
		}, nil),
		accumulator("sum", func(acc, v *big.Int) *big.Int { return new(big.Int).Add(acc, v) }, nil),
		accumulator("avg", func(acc, v *big.Int) *big.Int { return new(big.Int).Add(acc, v) },
			func(total *big.Int, n int) *big.Int { return new(big.Int).Quo(total, big.NewInt(int64(n))) }),
		accumulator("gcd", func(acc, v *big.Int) *big.Int {
			return new(big.Int).GCD(nil, nil, new(big.Int).Abs(acc), new(big.Int).Abs(v))
		}, nil),
		domain.Declaration[*big.Int]{Name: "modpow", Binding: vm.Func[*big.Int](vm.Fixed[*big.Int]{Args: 3, Rets: 1, Body: modpow})},
		bit("get", func(v *big.Int, i int) *big.Int { return big.NewInt(int64(v.Bit(i))) }),
		bit("set", func(v *big.Int, i int) *big.Int { return new(big.Int).SetBit(v, i, 1) }),
		bit("clear", func(v *big.Int, i int) *big.Int { return new(big.Int).SetBit(v, i, 0) }),
		bit("flip", func(v *big.Int, i int) *big.Int { return new(big.Int).SetBit(v, i, 1-v.Bit(i)) }),
		domain.Declaration[*big.Int]{Name: "rand", Binding: vm.Func[*big.Int](vm.NullaryDirect[*big.Int](func() (*big.Int, error) {
			return big.NewInt(d.random()), nil
		}))},
	)
}

func accumulator(name string, step func(acc, v *big.Int) *big.Int, finish func(acc *big.Int, n int) *big.Int) domain.Declaration[*big.Int] {
	return domain.Accumulator(name, func() *big.Int { return new(big.Int) }, step, finish)
}

// modpow(b, e, m) is b**e mod m; a negative e needs b invertible modulo m.
func modpow(args []*big.Int) ([]*big.Int, error) {
	b, e, m := args[0], args[1], args[2]
	if m.Sign() <= 0 {
		return nil, vm.Errorf(vm.CodeDomain, "modpow", "modulus %s must be positive", m)
	}
	v := new(big.Int).Exp(b, e, m)
	if v == nil {
		return nil, vm.Errorf(vm.CodeDomain, "modpow", "%s has no inverse modulo %s", b, m)
	}
	return []*big.Int{v}, nil
}

// bit builds a (value, index) function over the two's complement bits.
func bit(name string, fn func(v *big.Int, i int) *big.Int) domain.Declaration[*big.Int] {
	return domain.Declaration[*big.Int]{Name: name, Binding: vm.Func[*big.Int](vm.Binary(func(v, idx *big.Int) (*big.Int, error) {
		i, err := small(name, idx, MaxShift)
		if err != nil {
			return nil, err
		}
		return fn(v, int(i)), nil
	}))}
}
