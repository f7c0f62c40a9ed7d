package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a fixed limit.
type Bag struct {
	items  []Diagnostic
	max    uint16
	errors int
}

func NewBag(max uint16) *Bag {
	return &Bag{items: make([]Diagnostic, 0, max), max: max}
}

// Add добавляет диагностику; false, если лимит уже достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	if d.Severity.IsError() {
		b.errors++
	}
	return true
}

func (b *Bag) HasErrors() bool { return b.errors > 0 }

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает срез без копирования; не изменять.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sort orders by position, then severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Err sorts the bag and wraps its first error diagnostic, or returns nil.
func (b *Bag) Err() error {
	if b == nil || !b.HasErrors() {
		return nil
	}
	b.Sort()
	i := slices.IndexFunc(b.items, func(d Diagnostic) bool { return d.Severity.IsError() })
	return &Error{Diagnostic: b.items[i], Total: b.errors}
}
