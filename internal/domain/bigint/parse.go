package bigint

import (
	"math/big"
	"strings"

	"fortio.org/safecast"

	"calc/internal/domain"
	"calc/internal/token"
	"calc/internal/vm"
)

// ParseLiteral accepts integers of every number kind in the token's radix.
// Quoted literals are "R#digits" with R of at least domain.MinRadix.
func (*Domain) ParseLiteral(tok token.Token) (*big.Int, error) {
	domain.RequireValue(Name, tok)
	if !tok.IsNumber() {
		return nil, domain.Malformed(Name, tok, "strings are not integers")
	}
	if strings.ContainsRune(tok.Text, '.') {
		return nil, domain.Malformed(Name, tok, "fractional part in integer literal")
	}
	if tok.Kind == token.QuotedNumber {
		d, err := domain.ParseDigits(Name, tok)
		if err != nil {
			return nil, err
		}
		return d.Mantissa(), nil
	}
	v, ok := new(big.Int).SetString(tok.Text, tok.Radix())
	if !ok {
		return nil, domain.Malformed(Name, tok, "invalid digits for radix %d", tok.Radix())
	}
	return v, nil
}

// small converts an operand that must be a modest non-negative count.
func small(op string, v *big.Int, limit uint) (uint, error) {
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, vm.Errorf(vm.CodeDomain, op, "operand %s must be a non-negative count", v)
	}
	n, err := safecast.Conv[uint](v.Uint64())
	if err != nil || n > limit {
		return 0, vm.Errorf(vm.CodeDomain, op, "operand %s exceeds %d", v, limit)
	}
	return n, nil
}
