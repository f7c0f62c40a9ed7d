package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadNumber          Code = 1004

	// Синтаксические
	SynUnexpectedToken   Code = 2001
	SynUnmatchedBracket  Code = 2002
	SynUnknownOperator   Code = 2003
	SynInvalidExpression Code = 2004
	SynBadSymbolArgs     Code = 2005
	SynEmptyExpression   Code = 2006

	// Литералы домена значений
	LitMalformed Code = 3001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadEscape:          "Invalid escape sequence",
	LexBadNumber:          "Malformed number",
	SynUnexpectedToken:    "Unexpected token",
	SynUnmatchedBracket:   "Unmatched bracket",
	SynUnknownOperator:    "Unknown operator",
	SynInvalidExpression:  "Invalid expression",
	SynBadSymbolArgs:      "Malformed symbol call counts",
	SynEmptyExpression:    "Empty expression",
	LitMalformed:          "Malformed literal",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LIT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
