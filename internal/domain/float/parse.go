package float

import (
	"errors"
	"math/big"
	"strconv"

	"calc/internal/domain"
	"calc/internal/token"
)

// ParseLiteral accepts every number kind, with a fractional part in any radix:
// 0x1.8 is 1.5 and 3#0.1 is one third. The result is the nearest double.
func (*Domain) ParseLiteral(tok token.Token) (float64, error) {
	domain.RequireValue(Name, tok)
	if !tok.IsNumber() {
		return 0, domain.Malformed(Name, tok, "strings are not numbers")
	}
	if tok.Kind == token.DecNumber {
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err == nil {
			return v, nil
		}
		// ParseFloat отдаёт ±Inf вместе с ErrRange, это ещё число
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, domain.Malformed(Name, tok, "%v", err)
	}
	d, err := domain.ParseDigits(Name, tok)
	if err != nil {
		return 0, err
	}
	v, _ := new(big.Rat).SetFrac(d.Mantissa(), d.Scale()).Float64()
	return v, nil
}
