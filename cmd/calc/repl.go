package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"calc/internal/compiler"
	"calc/internal/diagfmt"
	"calc/internal/session"
	"calc/internal/version"
	"calc/internal/vm"
)

const (
	historyFile = ".calc_history"
	promptMain  = "calc> "
)

const replHelp = `REPL commands:
  name := expr            bind the value of expr
  def f(a, b) = expr      define a function
  var name                declare name with the domain's neutral value
  :notation [name]        show or switch notation (infix|prefix|postfix)
  :disasm expr            show the compiled program
  :names                  list bindings
  :save [file]            save definitions
  :load [file]            replay saved definitions
  :help                   this text
  :quit                   exit
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive calculator",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	replCmd.Flags().Bool("repr", false, "print canonical renderings")
	replCmd.Flags().Bool("resume", false, "replay the session file on start")
}

// repl handles lines independently of the terminal so it can be driven by tests.
type repl struct {
	eng         engine
	log         *session.Log
	out, errOut io.Writer
	pretty      diagfmt.PrettyOpts
	sessionFile string
}

func runRepl(cmd *cobra.Command, args []string) error {
	repr, err := cmd.Flags().GetBool("repr")
	if err != nil {
		return fmt.Errorf("failed to get repr flag: %w", err)
	}
	resume, err := cmd.Flags().GetBool("resume")
	if err != nil {
		return fmt.Errorf("failed to get resume flag: %w", err)
	}
	env, err := prepare(cmd, prepareOpts{repr: repr})
	if err != nil {
		return err
	}
	defer env.finish(false)

	r := &repl{
		eng:         env.eng,
		log:         session.NewLog(env.eng.Domain()),
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		pretty:      diagfmt.PrettyOpts{Color: useColor(os.Stderr)},
		sessionFile: env.cfg.Session.File,
	}
	if resume {
		r.load("")
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(r.out, "calc %s (%s, %s)\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n",
		version.Colored(), env.eng.Domain(), env.eng.Notation())
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// io.EOF: Ctrl+D
			fmt.Fprintln(r.out)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if r.handle(line) {
			return nil
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// handle runs one line and reports whether the REPL should exit.
func (r *repl) handle(line string) (quit bool) {
	// дефект callable'а не должен ронять сессию, но должен быть виден
	defer func() {
		if rec := recover(); rec != nil {
			f, ok := vm.AsFault(rec)
			if !ok {
				panic(rec)
			}
			fmt.Fprintf(r.errOut, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("internal fault:"), f)
		}
	}()

	in, err := parseLine(line, r.eng.Operators())
	if err != nil {
		r.fail(strings.TrimSpace(line), err)
		return false
	}
	notation := r.eng.Notation().String()

	switch in.kind {
	case lineMeta:
		return r.meta(in)
	case lineAssign:
		v, err := r.eng.Assign(in.name, in.src)
		if err != nil {
			r.fail(in.src, err)
			return false
		}
		r.log.Record(session.Entry{Kind: session.EntryAssign, Name: in.name, Source: in.src, Notation: notation})
		fmt.Fprintf(r.out, "%s = %s\n", in.name, valueColor.Sprint(v))
	case lineDefine:
		if err := r.eng.Define(in.name, in.params, in.src); err != nil {
			r.fail(in.src, err)
			return false
		}
		r.log.Record(session.Entry{Kind: session.EntryFunction, Name: in.name, Params: in.params, Source: in.src, Notation: notation})
	case lineDeclare:
		if err := r.eng.Declare(in.name); err != nil {
			r.fail(in.name, err)
			return false
		}
		r.log.Record(session.Entry{Kind: session.EntryDeclare, Name: in.name, Notation: notation})
	default:
		vals, err := r.eng.Eval(in.src)
		if err != nil {
			r.fail(in.src, err)
			return false
		}
		printValues(r.out, vals)
	}
	return false
}

func (r *repl) meta(in replLine) bool {
	switch in.name {
	case "q", "quit", "exit":
		return true
	case "help":
		fmt.Fprint(r.out, replHelp)
	case "notation":
		if in.src == "" {
			fmt.Fprintln(r.out, r.eng.Notation())
			return false
		}
		n, err := compiler.ParseNotation(in.src)
		if err != nil {
			r.fail("", err)
			return false
		}
		r.eng.SetNotation(n)
		fmt.Fprintf(r.out, "notation: %s\n", n)
	case "disasm":
		text, err := r.eng.Disassemble(in.src)
		if err != nil {
			r.fail(in.src, err)
			return false
		}
		fmt.Fprintln(r.out, text)
	case "names":
		fmt.Fprintln(r.out, strings.Join(r.eng.Names(), " "))
	case "save":
		path := r.path(in.src)
		if err := session.Save(path, r.log.Payload()); err != nil {
			r.fail("", err)
			return false
		}
		fmt.Fprintf(r.out, "saved %d definition(s) to %s\n", r.log.Len(), path)
	case "load":
		r.load(in.src)
	default:
		r.fail("", fmt.Errorf("unknown command :%s (try :help)", in.name))
	}
	return false
}

func (r *repl) load(file string) {
	path := r.path(file)
	p, err := session.Load(path)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) && file == "" {
			return
		}
		r.fail("", err)
		return
	}
	if err := r.eng.Replay(p); err != nil {
		r.fail("", err)
		return
	}
	for _, e := range p.Entries {
		r.log.Record(e)
	}
	fmt.Fprintf(r.out, "loaded %d definition(s) from %s\n", len(p.Entries), path)
}

func (r *repl) path(arg string) string {
	if arg != "" {
		return arg
	}
	return r.sessionFile
}

func (r *repl) fail(src string, err error) {
	diagfmt.Error(r.errOut, src, err, r.pretty)
}
