package observ

import (
	"strings"
	"testing"
)

func TestTimerSummaryListsPhases(t *testing.T) {
	timer := NewTimer()
	end := timer.Begin("invoke")
	end()
	end = timer.Begin("read")
	end()

	summary := timer.Summary()
	for _, want := range []string{"timings:", "invoke", "read", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}
