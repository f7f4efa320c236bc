// Package healthcheck verifies, and optionally heals, the preconditions a
// cluster run depends on: a reachable docker daemon, the service image, the
// bridge network.
package healthcheck

import "context"

// Status is the outcome of an individual check or fix.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusAborted Status = "aborted"
	StatusOmitted Status = "omitted"
)

// Checker is a function that checks whether a precondition is met. It returns
// whether the check succeeded, an optional message to present to the user,
// and an error in case the check logic itself failed.
type Checker func() (ok bool, msg string, err error)

// Fixer is a function called to attempt to fix a failing check. It returns an
// optional message to present to the user, and an error in case the fix
// failed.
type Fixer func() (msg string, err error)

// Item is the reported outcome of one check or fix.
type Item struct {
	Name    string
	Status  Status
	Message string
}

// Report collects the outcomes of a full run.
type Report struct {
	Checks []Item
	Fixes  []Item
}

type entry struct {
	name    string
	checker Checker
	fixer   Fixer
}

// Helper runs enlisted checks, and their fixes when enabled, sequentially in
// the order they were enlisted. Checkers and fixers are typically closures
// over the docker client.
type Helper struct {
	entries []*entry
}

// Enlist registers a named check with an optional fixer (nil when the
// condition is not fixable automatically).
func (h *Helper) Enlist(name string, c Checker, f Fixer) {
	h.entries = append(h.entries, &entry{name, c, f})
}

// RunChecks executes all enlisted checks. When fix is set, failing checks
// with a fixer are re-tried through their fix action.
func (h *Helper) RunChecks(ctx context.Context, fix bool) (*Report, error) {
	report := new(Report)

	for _, e := range h.entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		ok, msg, err := e.checker()
		switch {
		case err != nil:
			report.Checks = append(report.Checks, Item{e.name, StatusAborted, msg})
			if fix {
				report.Fixes = append(report.Fixes, Item{e.name, StatusOmitted, ""})
			}

		case ok:
			report.Checks = append(report.Checks, Item{e.name, StatusOK, msg})
			if fix {
				report.Fixes = append(report.Fixes, Item{e.name, StatusOmitted, ""})
			}

		default:
			report.Checks = append(report.Checks, Item{e.name, StatusFailed, msg})
			if !fix {
				continue
			}
			if e.fixer == nil {
				report.Fixes = append(report.Fixes, Item{e.name, StatusOmitted, "no fix available"})
				continue
			}

			fmsg, ferr := e.fixer()
			if ferr != nil {
				report.Fixes = append(report.Fixes, Item{e.name, StatusFailed, fmsg})
				continue
			}
			report.Fixes = append(report.Fixes, Item{e.name, StatusOK, fmsg})
		}
	}
	return report, nil
}

// Ok reports whether every check either passed or was successfully fixed.
func (r *Report) Ok() bool {
	fixed := make(map[string]bool)
	for _, f := range r.Fixes {
		if f.Status == StatusOK {
			fixed[f.Name] = true
		}
	}
	for _, c := range r.Checks {
		if c.Status != StatusOK && !fixed[c.Name] {
			return false
		}
	}
	return true
}
