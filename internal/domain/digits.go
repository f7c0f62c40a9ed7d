package domain

import (
	"math/big"
	"strings"

	"fortio.org/safecast"

	"calc/internal/token"
)

// MinRadix is the smallest radix a quoted literal may declare. There is no
// upper bound: digit values from 36 up are written 'NN' or "NN".
const MinRadix = 2

// Digits is a number literal decoded into digit values, most significant first.
type Digits struct {
	Radix uint32
	Int   []uint32
	Frac  []uint32 // nil when the literal has no point
}

// ParseDigits decodes any number token. Plain kinds take their radix from the
// token; a quoted "R#digits[.digits]" declares its own.
func ParseDigits(dom string, tok token.Token) (Digits, error) {
	text := tok.Text
	var out Digits
	if tok.Kind == token.QuotedNumber {
		radixText, rest, ok := strings.Cut(text, "#")
		if !ok || rest == "" {
			return Digits{}, Malformed(dom, tok, "expected R#digits")
		}
		r, ok := new(big.Int).SetString(radixText, 10)
		if !ok || !r.IsInt64() {
			return Digits{}, Malformed(dom, tok, "bad radix %q", radixText)
		}
		radix, err := safecast.Conv[uint32](r.Int64())
		if err != nil || radix < MinRadix {
			return Digits{}, Malformed(dom, tok, "radix %s out of range", radixText)
		}
		out.Radix, text = radix, rest
	} else {
		radix, err := safecast.Conv[uint32](tok.Radix())
		if err != nil || radix < MinRadix {
			return Digits{}, Malformed(dom, tok, "not a number")
		}
		out.Radix = radix
	}

	whole, frac, hasPoint := strings.Cut(text, ".")
	var err error
	if out.Int, err = decodeDigits(dom, tok, whole, out.Radix); err != nil {
		return Digits{}, err
	}
	if len(out.Int) == 0 {
		return Digits{}, Malformed(dom, tok, "no digits")
	}
	if hasPoint {
		if out.Frac, err = decodeDigits(dom, tok, frac, out.Radix); err != nil {
			return Digits{}, err
		}
		if len(out.Frac) == 0 {
			return Digits{}, Malformed(dom, tok, "no digits after point")
		}
	}
	return out, nil
}

// Mantissa is every digit read as one integer; the value is Mantissa / Radix^len(Frac).
func (d Digits) Mantissa() *big.Int {
	base := new(big.Int).SetUint64(uint64(d.Radix))
	acc := new(big.Int)
	for _, part := range [][]uint32{d.Int, d.Frac} {
		for _, v := range part {
			acc.Mul(acc, base)
			acc.Add(acc, new(big.Int).SetUint64(uint64(v)))
		}
	}
	return acc
}

// Scale is Radix^len(Frac).
func (d Digits) Scale() *big.Int {
	return new(big.Int).Exp(new(big.Int).SetUint64(uint64(d.Radix)), big.NewInt(int64(len(d.Frac))), nil)
}

func decodeDigits(dom string, tok token.Token, s string, radix uint32) ([]uint32, error) {
	var out []uint32
	for i := 0; i < len(s); {
		d, width, ok := digitAt(s, i)
		if !ok {
			return nil, Malformed(dom, tok, "bad digit at %d", i)
		}
		if d >= radix {
			return nil, Malformed(dom, tok, "digit %d not below radix %d", d, radix)
		}
		out = append(out, d)
		i += width
	}
	return out, nil
}

// digitAt: 0-9, a-z без учёта регистра (10..35), 'NN' и "NN" для остальных.
func digitAt(s string, i int) (value uint32, width int, ok bool) {
	c := s[i]
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), 1, true
	case c >= 'a' && c <= 'z':
		return uint32(c-'a') + 10, 1, true
	case c >= 'A' && c <= 'Z':
		return uint32(c-'A') + 10, 1, true
	case c == '\'' || c == '"':
		end := strings.IndexByte(s[i+1:], c)
		if end <= 0 {
			return 0, 0, false
		}
		n, ok := new(big.Int).SetString(s[i+1:i+1+end], 10)
		if !ok || !n.IsUint64() {
			return 0, 0, false
		}
		v, err := safecast.Conv[uint32](n.Uint64())
		if err != nil {
			return 0, 0, false
		}
		return v, end + 2, true
	}
	return 0, 0, false
}
