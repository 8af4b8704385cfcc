package jobrunner

import (
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Job is one child command launched by the runner. Labels must be unique
// within a run.
type Job struct {
	Label   string
	Command string
	Args    []string
}

func (j Job) String() string {
	return strings.TrimSpace(j.Command + " " + strings.Join(j.Args, " "))
}

// State is the lifecycle position of a job.
type State int

const (
	Running State = iota
	Completed
	Signaled
	SpawnFailed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Signaled:
		return "signaled"
	case SpawnFailed:
		return "spawn_failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the terminal result of a job. Only the field matching State is
// meaningful.
type Outcome struct {
	State    State
	ExitCode int
	Signal   syscall.Signal
	Err      error
}

// Failed reports whether the outcome counts against the run.
func (o Outcome) Failed() bool {
	switch o.State {
	case Completed:
		return o.ExitCode != 0 || o.Err != nil
	case Running:
		return false
	default:
		return true
	}
}

func signalName(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return name
	}
	return sig.String()
}
