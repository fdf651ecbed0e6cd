package main

import (
	"fmt"

	"github.com/fwojciec/mhracrawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, mhracrawl.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mhracrawl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'mhracrawl crawl' to run an extraction.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  letters=%d substances=%d products=%d documents=%d  %s\n",
			r.ID, r.VersionLabel, mhracrawl.FormatUTC(r.StartedAt),
			r.TotalLetters, r.TotalSubstances, r.TotalProducts, r.TotalDocuments,
			r.ArtifactDir)
	}

	return nil
}
