package jobrunner

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"lintgate/internal/logging"
)

// Runner launches jobs concurrently and aggregates their outcomes.
type Runner struct {
	Spawner Spawner
	Logger  *slog.Logger
	// Signals, when set, delivers signals to forward to every running child.
	Signals <-chan os.Signal
}

// New returns a Runner that starts OS processes.
func New(logger *slog.Logger) *Runner {
	return &Runner{
		Spawner: ExecSpawner{},
		Logger:  logging.NewComponentLogger(logger, "lint"),
	}
}

// NotifySignals subscribes to SIGINT and SIGTERM for forwarding. The returned
// stop function unsubscribes.
func NotifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

type completion struct {
	label   string
	outcome Outcome
}

type running struct {
	job        Job
	proc       Process
	terminated bool
}

// Run starts every job and returns 0 when all of them exit cleanly and 1
// otherwise. A job that fails to start ends the run at once after sending
// SIGTERM to the jobs still running; the runner does not wait for them.
// Cancelling ctx forwards SIGTERM to running jobs and keeps waiting.
func (r *Runner) Run(ctx context.Context, jobs []Job) int {
	logger := logging.WithContext(ctx, r.Logger)
	if len(jobs) == 0 {
		return 0
	}
	spawner := r.Spawner
	if spawner == nil {
		spawner = ExecSpawner{}
	}

	// Sized so waiters never block once Run has returned early.
	completions := make(chan completion, len(jobs))
	procs := make(map[string]*running, len(jobs))
	order := make([]string, 0, len(jobs))

	for _, job := range jobs {
		order = append(order, job.Label)
		proc, err := spawner.Start(job)
		if err != nil {
			completions <- completion{label: job.Label, outcome: Outcome{State: SpawnFailed, Err: err}}
			continue
		}
		logger.Debug("job started",
			logging.String(logging.FieldJob, job.Label),
			logging.String(logging.FieldCommand, job.String()),
		)
		procs[job.Label] = &running{job: job, proc: proc}
		go func(label string, proc Process) {
			completions <- completion{label: label, outcome: proc.Wait()}
		}(job.Label, proc)
	}

	agg := newAggregate(jobs)
	cmdByLabel := make(map[string]string, len(jobs))
	for _, job := range jobs {
		cmdByLabel[job.Label] = job.Command
	}

	done := ctx.Done()
	for {
		select {
		case msg := <-completions:
			if !agg.finalize(msg.label, msg.outcome.Failed()) {
				continue
			}
			delete(procs, msg.label)
			if msg.outcome.State == SpawnFailed {
				r.logSpawnFailure(logger, msg.label, cmdByLabel[msg.label], msg.outcome.Err)
				if agg.beginExit() {
					terminateAll(procs, order)
				}
				return 1
			}
			logOutcome(logger, msg.label, msg.outcome)
			if agg.finished() {
				return agg.exitCode()
			}
		case sig := <-r.Signals:
			logger.Debug("forwarding signal", logging.String("signal", sig.String()))
			forward(procs, order, sig)
		case <-done:
			done = nil
			forward(procs, order, syscall.SIGTERM)
		}
	}
}

func (r *Runner) logSpawnFailure(logger *slog.Logger, label, command string, err error) {
	if IsMissingCommand(err) {
		logging.ErrorWithContext(logger, "Missing required command for "+label+": "+command, "job_missing_command",
			logging.String(logging.FieldJob, label),
			logging.String(logging.FieldCommand, command),
			logging.String(logging.FieldErrorHint, "install "+command+" or fix the job command in lintgate.toml"),
		)
		return
	}
	logging.ErrorWithContext(logger, "Failed to start "+label, "job_spawn_failed",
		logging.String(logging.FieldJob, label),
		logging.Error(err),
	)
}

func logOutcome(logger *slog.Logger, label string, outcome Outcome) {
	job := logging.String(logging.FieldJob, label)
	switch {
	case outcome.State == Signaled:
		logger.Error(label+" exited via signal "+signalName(outcome.Signal), job)
	case outcome.Err != nil:
		logger.Error("Failed to wait for "+label, job, logging.Error(outcome.Err))
	case outcome.ExitCode != 0:
		logger.Error(label+" exited with code "+strconv.Itoa(outcome.ExitCode), job)
	default:
		logger.Debug("job finished", job)
	}
}

// terminateAll sends SIGTERM to each running job that has not yet been
// terminated. Delivery errors are ignored.
func terminateAll(procs map[string]*running, order []string) {
	for _, label := range order {
		entry, ok := procs[label]
		if !ok || entry.terminated {
			continue
		}
		entry.terminated = true
		_ = entry.proc.Signal(syscall.SIGTERM)
	}
}

// forward delivers sig to every running job. SIGTERM counts toward the
// once-per-job termination that terminateAll also honors.
func forward(procs map[string]*running, order []string, sig os.Signal) {
	for _, label := range order {
		entry, ok := procs[label]
		if !ok {
			continue
		}
		if sig == syscall.SIGTERM {
			if entry.terminated {
				continue
			}
			entry.terminated = true
		}
		_ = entry.proc.Signal(sig)
	}
}
