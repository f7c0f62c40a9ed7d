package session

import (
	"fmt"

	"calc/internal/calc"
	"calc/internal/compiler"
	"calc/internal/symbols"
	"calc/internal/vm"
)

// Replay applies every entry to scope, each in its recorded notation. It
// stops at the first failure and reports the failing entry.
func Replay[V any](c *calc.Calculator[V], scope *symbols.Scope[vm.Binding[V]], p *Payload) error {
	if p.Domain != c.Domain().Name() {
		return fmt.Errorf("session is for domain %q, calculator uses %q", p.Domain, c.Domain().Name())
	}
	for i, e := range p.Entries {
		n, err := compiler.ParseNotation(e.Notation)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		cc := c.WithNotation(n)
		switch e.Kind {
		case EntryAssign:
			_, err = cc.Assign(scope, e.Name, e.Source)
		case EntryFunction:
			err = cc.DefineFunction(scope, e.Name, e.Params, e.Source)
		case EntryDeclare:
			err = cc.Declare(scope, e.Name)
		default:
			err = fmt.Errorf("unknown entry kind %d", e.Kind)
		}
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i+1, e, err)
		}
	}
	return nil
}
