// Package driver sequences the lualint pipeline: invoke the server, read
// the artifact, normalize, filter. It is strictly sequential with no
// retries; the only blocking point is waiting on the child process.
package driver

import (
	"context"
	"fmt"

	"lualint/internal/diag"
	"lualint/internal/luals"
	"lualint/internal/observ"
)

// CheckOptions configures one diagnostic run.
type CheckOptions struct {
	// Root is the project directory to check.
	Root string
	// ArtifactPath is where the server is asked to write its artifact.
	ArtifactPath string
	// Show is the minimum severity that appears in output.
	Show diag.Severity
	// Fail is the minimum severity that makes the run fail.
	Fail diag.Severity
	// Runner performs the external check; swap it out in tests.
	Runner luals.Runner
	// Timer, when set, records per-phase durations.
	Timer *observ.Timer
}

// CheckResult is the outcome of a completed pipeline run. A completed run
// may still mean the project has problems; that is expressed by ErrorCount,
// not by an error.
type CheckResult struct {
	// Root is the canonicalized project root.
	Root string
	// ArtifactPath is where the artifact was actually found.
	ArtifactPath string
	// Bag holds every normalized diagnostic in artifact order.
	Bag *diag.Bag
	// Displayed and ErrorCount are the filter's outputs.
	Displayed  []diag.Diagnostic
	ErrorCount int
	// Outcome is the raw server outcome, including captured streams.
	Outcome luals.Outcome
}

// Check runs the pipeline. All fatal conditions — tool missing or crashed,
// artifact missing or malformed, unknown severity — come back as errors for
// the command layer to present; they are never folded into ErrorCount.
func Check(ctx context.Context, opts CheckOptions) (CheckResult, error) {
	var res CheckResult
	if err := opts.Validate(); err != nil {
		return res, err
	}

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	root, err := luals.CanonicalRoot(opts.Root)
	if err != nil {
		return res, err
	}
	res.Root = root

	end := timer.Begin("invoke")
	outcome, err := opts.Runner.Run(ctx, opts.Root, opts.ArtifactPath)
	end()
	if err != nil {
		return res, err
	}
	res.Outcome = outcome
	if outcome.Status == luals.ToolFailedToRun {
		return res, &luals.ToolCrashedError{ExitCode: outcome.ExitCode, Stderr: outcome.Stderr}
	}
	res.ArtifactPath = outcome.ArtifactPath

	end = timer.Begin("read")
	files, err := luals.ReadArtifact(outcome.ArtifactPath)
	end()
	if err != nil {
		return res, err
	}

	end = timer.Begin("normalize")
	bag, err := luals.Normalize(files, root)
	end()
	if err != nil {
		return res, err
	}
	res.Bag = bag

	end = timer.Begin("filter")
	filtered := diag.Filter(bag, opts.Show, opts.Fail)
	end()
	res.Displayed = filtered.Displayed
	res.ErrorCount = filtered.ErrorCount

	return res, nil
}

// Validate rejects option combinations before any side effects happen.
func (o CheckOptions) Validate() error {
	if o.Runner == nil {
		return fmt.Errorf("missing runner")
	}
	if o.ArtifactPath == "" {
		return fmt.Errorf("missing artifact path")
	}
	return nil
}
