package diag

// FilterResult is the outcome of applying the show/fail thresholds.
type FilterResult struct {
	// Displayed holds root-scoped diagnostics at or above the show
	// threshold, in artifact order.
	Displayed []Diagnostic
	// ErrorCount counts root-scoped diagnostics at or above the fail
	// threshold. It is computed over the full root-scoped set, not over
	// Displayed: raising the show threshold must never turn a failing run
	// into a passing one.
	ErrorCount int
}

// Filter applies the display and failure thresholds to a bag of normalized
// diagnostics. Out-of-root diagnostics contribute to neither output.
func Filter(bag *Bag, show, fail Severity) FilterResult {
	items := bag.Items()
	res := FilterResult{Displayed: make([]Diagnostic, 0, len(items))}
	for i := range items {
		d := items[i]
		if !d.InRoot {
			continue
		}
		if d.Severity >= fail {
			res.ErrorCount++
		}
		if d.Severity >= show {
			res.Displayed = append(res.Displayed, d)
		}
	}
	return res
}
