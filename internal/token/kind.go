package token

// Kind represents the category of an expression token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the expression.
	EOF

	// DecNumber is a decimal literal: 12, 1_000, 3.25.
	DecNumber
	// HexNumber is a hexadecimal literal: 0xFF.
	HexNumber
	// OctNumber is an octal literal: 017.
	OctNumber
	// BinNumber is a binary literal: 0b1010.
	BinNumber
	// QuotedNumber is a literal in explicit radix: 36#ZZ.
	QuotedNumber
	// String is a quoted string literal.
	String
	// Symbol is a plain identifier.
	Symbol
	// SymbolWithArgs is an identifier with explicit call counts: f@2,1.
	SymbolWithArgs
	// Operator is any text registered in the operator dictionary.
	Operator
	// LeftBracket is one of ( [ {.
	LeftBracket
	// Separator is ','.
	Separator
	// RightBracket is one of ) ] }.
	RightBracket
	// Modifier is a prefix marker attached to the next expression.
	Modifier
)

type flags uint8

const (
	flagValue flags = 1 << iota
	flagNumber
	flagSymbol
	flagTerminator
	flagNextOpUnary
)

// Таблица фиксирована: менять только вместе с kind_test.go.
var kindFlags = [...]flags{
	Invalid:        0,
	EOF:            flagTerminator,
	DecNumber:      flagValue | flagNumber,
	HexNumber:      flagValue | flagNumber,
	OctNumber:      flagValue | flagNumber,
	BinNumber:      flagValue | flagNumber,
	QuotedNumber:   flagValue | flagNumber,
	String:         flagValue,
	Symbol:         flagSymbol,
	SymbolWithArgs: flagSymbol,
	Operator:       flagNextOpUnary,
	LeftBracket:    flagNextOpUnary,
	Separator:      flagTerminator | flagNextOpUnary,
	RightBracket:   flagTerminator,
	Modifier:       flagNextOpUnary,
}

func (k Kind) has(f flags) bool {
	if int(k) >= len(kindFlags) {
		return false
	}
	return kindFlags[k]&f != 0
}

// IsValue reports whether tokens of this kind denote a literal value.
func (k Kind) IsValue() bool { return k.has(flagValue) }

// IsNumber reports whether tokens of this kind are numeric literals.
func (k Kind) IsNumber() bool { return k.has(flagNumber) }

// IsSymbol reports whether tokens of this kind name a binding.
func (k Kind) IsSymbol() bool { return k.has(flagSymbol) }

// IsTerminator reports whether tokens of this kind end an (sub)expression.
func (k Kind) IsTerminator() bool { return k.has(flagTerminator) }

// IsNextOpUnary reports whether an operator following this kind is in prefix position.
func (k Kind) IsNextOpUnary() bool { return k.has(flagNextOpUnary) }

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case DecNumber:
		return "DecNumber"
	case HexNumber:
		return "HexNumber"
	case OctNumber:
		return "OctNumber"
	case BinNumber:
		return "BinNumber"
	case QuotedNumber:
		return "QuotedNumber"
	case String:
		return "String"
	case Symbol:
		return "Symbol"
	case SymbolWithArgs:
		return "SymbolWithArgs"
	case Operator:
		return "Operator"
	case LeftBracket:
		return "LeftBracket"
	case Separator:
		return "Separator"
	case RightBracket:
		return "RightBracket"
	case Modifier:
		return "Modifier"
	default:
		return "Kind(?)"
	}
}

// Kinds returns every real token kind, excluding Invalid and EOF.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindFlags))
	for k := DecNumber; int(k) < len(kindFlags); k++ {
		out = append(out, k)
	}
	return out
}
