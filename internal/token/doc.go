// Package token defines lexical token kinds for calc expressions.
// Invariants:
//   - Token.Text for number kinds excludes the radix prefix (0x, 0b, 0) and '_'
//     separators; QuotedNumber keeps the "R#digits" form.
//   - Token.Text for String holds the unescaped contents, without quotes.
//   - Token.Text for SymbolWithArgs keeps the '@' suffix ("dup@2,1").
//   - The four semantic flags (IsValue, IsNumber, IsSymbol, IsTerminator) are a pure
//     function of Kind; the compiler branches on them and never on Text.
package token
