// Package report renders the human-readable summary delivered after every run.
package report

import (
	"fmt"
	"strings"

	"phonebook/internal/directory/models"
)

// Subjects used when the report is delivered.
const (
	SubjectSuccess = "User import succeeded"
	SubjectFailure = "User import failed"
)

type options struct {
	detailed bool
	outcome  *models.ConvergenceOutcome
}

type Option func(*options)

// Detailed reports created and updated counts separately instead of a single
// active count.
func Detailed() Option {
	return func(o *options) {
		o.detailed = true
	}
}

// WithOutcome appends the convergence summary. A nil outcome is ignored.
func WithOutcome(outcome *models.ConvergenceOutcome) Option {
	return func(o *options) {
		o.outcome = outcome
	}
}

// Generate renders the success report for result. It never fails.
func Generate(result models.ReconciliationResult, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	b.WriteString("Import was successful.\n")
	if o.detailed {
		fmt.Fprintf(&b, "%d %s created.\n", result.Created, pluralise(result.Created))
		fmt.Fprintf(&b, "%d %s updated.\n", result.Updated, pluralise(result.Updated))
	} else {
		fmt.Fprintf(&b, "%d %s set active.\n", len(result.Active), pluralise(len(result.Active)))
	}
	fmt.Fprintf(&b, "%d %s set inactive.", len(result.Inactive), pluralise(len(result.Inactive)))

	if o.outcome != nil {
		out := o.outcome
		fmt.Fprintf(&b, "\nAfter %d %s, %d %s still to be updated.",
			out.Attempts, plural(out.Attempts, "attempt", "attempts"),
			out.Remaining, plural(out.Remaining, "user is", "users are"))
		if len(out.Dropped) > 0 {
			fmt.Fprintf(&b, "\n%d %s rejected by the store.", len(out.Dropped), pluralise(len(out.Dropped)))
		}
		fmt.Fprintf(&b, "\nTotal cost (RUs): %g.", out.Cost)
	}
	return b.String()
}

// Failure renders the report for a run that stopped on err.
func Failure(err error) string {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return "Import failed.\nReason: " + reason
}

func pluralise(count int) string {
	return plural(count, "user was", "users were")
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}
