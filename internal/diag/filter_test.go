package diag

import "testing"

func makeBag(diags ...Diagnostic) *Bag {
	bag := NewBag(len(diags))
	for _, d := range diags {
		bag.Add(d)
	}
	return bag
}

func TestFilterDisplayRequiresRootAndShowThreshold(t *testing.T) {
	bag := makeBag(
		Diagnostic{File: "/proj/a.lua", Severity: SevHint, InRoot: true},
		Diagnostic{File: "/proj/a.lua", Severity: SevWarning, InRoot: true},
		Diagnostic{File: "/lib/dep.lua", Severity: SevError, InRoot: false},
	)

	res := Filter(bag, SevWarning, SevError)
	if len(res.Displayed) != 1 {
		t.Fatalf("displayed = %d, want 1", len(res.Displayed))
	}
	if res.Displayed[0].Severity != SevWarning {
		t.Errorf("displayed severity = %v, want warning", res.Displayed[0].Severity)
	}
	if res.ErrorCount != 0 {
		t.Errorf("error count = %d, want 0 (out-of-root error must not count)", res.ErrorCount)
	}
}

func TestFilterErrorCountIgnoresShowThreshold(t *testing.T) {
	// A warning hidden by --show error must still fail the run when the
	// fail threshold is warning.
	bag := makeBag(
		Diagnostic{File: "/proj/a.lua", Severity: SevWarning, InRoot: true},
	)

	res := Filter(bag, SevError, SevWarning)
	if len(res.Displayed) != 0 {
		t.Fatalf("displayed = %d, want 0", len(res.Displayed))
	}
	if res.ErrorCount != 1 {
		t.Fatalf("error count = %d, want 1", res.ErrorCount)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	bag := makeBag(
		Diagnostic{File: "/proj/a.lua", Line: 9, Severity: SevError, InRoot: true},
		Diagnostic{File: "/proj/a.lua", Line: 1, Severity: SevWarning, InRoot: true},
		Diagnostic{File: "/proj/b.lua", Line: 5, Severity: SevError, InRoot: true},
		Diagnostic{File: "/proj/a.lua", Line: 3, Severity: SevError, InRoot: true},
	)

	res := Filter(bag, SevHint, SevError)
	wantLines := []uint32{9, 1, 5, 3}
	if len(res.Displayed) != len(wantLines) {
		t.Fatalf("displayed = %d, want %d", len(res.Displayed), len(wantLines))
	}
	for i, want := range wantLines {
		if res.Displayed[i].Line != want {
			t.Errorf("displayed[%d].Line = %d, want %d (artifact order must survive)", i, res.Displayed[i].Line, want)
		}
	}
	if res.ErrorCount != 3 {
		t.Errorf("error count = %d, want 3", res.ErrorCount)
	}
}

func TestBagCountAtLeast(t *testing.T) {
	bag := makeBag(
		Diagnostic{Severity: SevHint, InRoot: true},
		Diagnostic{Severity: SevWarning, InRoot: true},
		Diagnostic{Severity: SevError, InRoot: false},
	)
	if got := bag.CountAtLeast(SevHint, false); got != 3 {
		t.Errorf("CountAtLeast(hint, all) = %d, want 3", got)
	}
	if got := bag.CountAtLeast(SevWarning, true); got != 1 {
		t.Errorf("CountAtLeast(warning, root) = %d, want 1", got)
	}
	if got := bag.CountAtLeast(SevError, true); got != 0 {
		t.Errorf("CountAtLeast(error, root) = %d, want 0", got)
	}
}
