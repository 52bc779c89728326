package diag

// Bag accumulates diagnostics in the order they were produced.
// Unlike a sorted report, insertion order is part of the contract here:
// the artifact's order must survive all the way to the rendered output.
type Bag struct {
	items []Diagnostic
}

func NewBag(capacity int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, capacity)}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the diagnostics.
// Do not modify the returned slice; it aliases the Bag's backing array.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// CountAtLeast counts diagnostics with Severity >= min. With rootOnly set,
// diagnostics outside the project root are ignored.
func (b *Bag) CountAtLeast(min Severity, rootOnly bool) int {
	n := 0
	for i := range b.items {
		if rootOnly && !b.items[i].InRoot {
			continue
		}
		if b.items[i].Severity >= min {
			n++
		}
	}
	return n
}
