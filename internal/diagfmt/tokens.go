package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"calc/internal/source"
	"calc/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
}

// FormatTokensPretty выводит токены таблицей; колонка текста выравнивается
// по ширине на экране.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	textWidth := len("TEXT")
	for _, tok := range tokens {
		textWidth = max(textWidth, runewidth.StringWidth(tok.Text))
	}
	if _, err := fmt.Fprintf(w, "%3s  %-15s %s  %s\n", "#", "KIND", runewidth.FillRight("TEXT", textWidth), "SPAN"); err != nil {
		return err
	}
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		if _, err := fmt.Fprintf(w, "%3d: %-15s %s  %s\n", i+1, tok.Kind, runewidth.FillRight(tok.Text, textWidth), tok.Span); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		output = append(output, TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
