package main

import (
	"errors"
	"strings"

	"calc/internal/compiler"
)

type lineKind uint8

const (
	lineEval lineKind = iota
	lineAssign
	lineDefine
	lineDeclare
	lineMeta
)

// replLine is one parsed REPL input.
type replLine struct {
	kind   lineKind
	name   string   // assigned/defined name, or meta command without ':'
	params []string // lineDefine
	src    string   // expression, body, or meta argument
}

var errBadDefinition = errors.New("expected: def name(a, b) = expr")

// parseLine recognises the REPL forms:
//
//	:cmd [arg]
//	def f(a, b) = expr
//	var name
//	name := expr
//	expr
//
// operators are the domain's operator texts, needed to lex assignments.
func parseLine(line string, operators []string) (replLine, error) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, compiler.AssignModifier):
		// ":= 1" это присваивание без имени, а не мета-команда
	case strings.HasPrefix(line, ":"):
		cmd, arg, _ := strings.Cut(line[1:], " ")
		return replLine{kind: lineMeta, name: cmd, src: strings.TrimSpace(arg)}, nil
	case strings.HasPrefix(line, "def "):
		return parseDefine(strings.TrimSpace(line[len("def "):]))
	case strings.HasPrefix(line, "var "):
		return replLine{kind: lineDeclare, name: strings.TrimSpace(line[len("var "):])}, nil
	}
	a, ok, err := compiler.SplitAssignment(line, operators)
	if err != nil {
		return replLine{}, err
	}
	if ok {
		return replLine{kind: lineAssign, name: a.Name, src: a.Body}, nil
	}
	return replLine{kind: lineEval, src: line}, nil
}

func parseDefine(rest string) (replLine, error) {
	open := strings.IndexByte(rest, '(')
	closing := strings.IndexByte(rest, ')')
	if open <= 0 || closing < open {
		return replLine{}, errBadDefinition
	}
	body, ok := strings.CutPrefix(strings.TrimSpace(rest[closing+1:]), "=")
	if !ok || strings.TrimSpace(body) == "" {
		return replLine{}, errBadDefinition
	}
	var params []string
	if inner := strings.TrimSpace(rest[open+1 : closing]); inner != "" {
		for _, p := range strings.Split(inner, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}
	return replLine{
		kind:   lineDefine,
		name:   strings.TrimSpace(rest[:open]),
		params: params,
		src:    strings.TrimSpace(body),
	}, nil
}
