package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calc/internal/calc"
	"calc/internal/diag"
	"calc/internal/diagfmt"
	"calc/internal/lexer"
	"calc/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] expr",
	Short: "Tokenize an expression",
	Long:  `Tokenize breaks an expression into tokens using the operators of the configured domain`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg, calc.Options{}, calc.ModeStr)
	if err != nil {
		return err
	}

	expr := source.NewExpr(args[0])
	bag := diag.NewBag(100)
	toks := lexer.Tokenize(expr, lexer.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		Operators: eng.Operators(),
	})

	// Выводим диагностику в stderr, если есть
	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), expr, bag.Items(), diagfmt.PrettyOpts{Color: useColor(os.Stderr)})
	}

	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks)
}
