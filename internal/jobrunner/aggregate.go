package jobrunner

// aggregate is the run state owned by the coordinator. failed never resets
// and done makes finalization idempotent per label.
type aggregate struct {
	remaining int
	failed    bool
	exiting   bool
	done      map[string]bool
}

func newAggregate(jobs []Job) *aggregate {
	return &aggregate{
		remaining: len(jobs),
		done:      make(map[string]bool, len(jobs)),
	}
}

// finalize records a terminal outcome for label. It returns false when the
// label was already finalized, leaving the state untouched.
func (a *aggregate) finalize(label string, failed bool) bool {
	if a.done[label] {
		return false
	}
	a.done[label] = true
	a.remaining--
	if failed {
		a.failed = true
	}
	return true
}

// beginExit marks the run as terminating early. It returns false when an
// early exit is already underway.
func (a *aggregate) beginExit() bool {
	if a.exiting {
		return false
	}
	a.exiting = true
	return true
}

func (a *aggregate) finished() bool {
	return a.remaining <= 0
}

func (a *aggregate) exitCode() int {
	if a.failed {
		return 1
	}
	return 0
}
