package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"calc/internal/diagfmt"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] expr...",
	Short: "Evaluate expressions",
	Long: `Evaluate compiles and evaluates each expression in order and prints its results.
Expressions share one session scope, so $ans holds the previous result.
Pass - to read one expression per line from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().Bool("repr", false, "print canonical renderings")
	evalCmd.Flags().Bool("parallel", false, "evaluate independently and concurrently")
	evalCmd.Flags().Int("jobs", 0, "max parallel evaluations (0=GOMAXPROCS)")
	evalCmd.Flags().Bool("exec-trace", false, "print every executed operation to stderr")
	evalCmd.Flags().Bool("disasm", false, "print compiled programs instead of evaluating")
}

func runEval(cmd *cobra.Command, args []string) error {
	repr, err := cmd.Flags().GetBool("repr")
	if err != nil {
		return fmt.Errorf("failed to get repr flag: %w", err)
	}
	parallel, err := cmd.Flags().GetBool("parallel")
	if err != nil {
		return fmt.Errorf("failed to get parallel flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	execTrace, err := cmd.Flags().GetBool("exec-trace")
	if err != nil {
		return fmt.Errorf("failed to get exec-trace flag: %w", err)
	}
	disasm, err := cmd.Flags().GetBool("disasm")
	if err != nil {
		return fmt.Errorf("failed to get disasm flag: %w", err)
	}

	srcs, err := expressions(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	po := prepareOpts{repr: repr}
	if execTrace {
		po.execTrace = cmd.ErrOrStderr()
	}
	env, err := prepare(cmd, po)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	opts := diagfmt.PrettyOpts{Color: useColor(os.Stderr)}
	failed := 0

	switch {
	case disasm:
		for _, src := range srcs {
			text, err := env.eng.Disassemble(src)
			if err != nil {
				diagfmt.Error(errOut, src, err, opts)
				failed++
				continue
			}
			fmt.Fprintln(out, text)
		}
	case parallel:
		lines, err := env.eng.Batch(cmdContext(cmd), srcs, jobs)
		if err != nil {
			env.finish(true)
			return err
		}
		for _, l := range lines {
			if l.Err != nil {
				diagfmt.Error(errOut, l.Source, l.Err, opts)
				failed++
				continue
			}
			printValues(out, l.Values)
		}
	default:
		for _, src := range srcs {
			vals, err := env.eng.Eval(src)
			if err != nil {
				diagfmt.Error(errOut, src, err, opts)
				failed++
				continue
			}
			printValues(out, vals)
		}
	}

	env.finish(failed > 0)
	if failed > 0 {
		return fmt.Errorf("%d of %d expression(s) failed", failed, len(srcs))
	}
	return nil
}

// expressions expands a lone "-" into stdin lines; blank lines are skipped.
func expressions(in io.Reader, args []string) ([]string, error) {
	if len(args) != 1 || args[0] != "-" {
		return args, nil
	}
	var out []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return out, nil
}

var valueColor = color.New(color.FgGreen)

func printValues(w io.Writer, vals []string) {
	if len(vals) == 0 {
		fmt.Fprintln(w, color.New(color.Faint).Sprint("(empty)"))
		return
	}
	fmt.Fprintln(w, valueColor.Sprint(strings.Join(vals, " ")))
}
