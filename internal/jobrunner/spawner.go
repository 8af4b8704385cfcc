package jobrunner

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"lintgate/internal/proc"
)

// Process is a started child.
type Process interface {
	// Wait blocks until the child terminates.
	Wait() Outcome
	// Signal delivers sig to the child.
	Signal(sig os.Signal) error
}

// Spawner starts jobs.
type Spawner interface {
	Start(job Job) (Process, error)
}

// ExecSpawner starts jobs as OS processes without a shell. Standard streams
// default to the runner's own.
type ExecSpawner struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// Start launches job and returns once the process exists.
func (s ExecSpawner) Start(job Job) (Process, error) {
	cmd := exec.Command(job.Command, job.Args...) //nolint:gosec
	cmd.Dir = s.Dir
	if s.Env != nil {
		cmd.Env = s.Env
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	if s.Stdout != nil {
		cmd.Stdout = s.Stdout
	}
	cmd.Stderr = os.Stderr
	if s.Stderr != nil {
		cmd.Stderr = s.Stderr
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() Outcome {
	err := p.cmd.Wait()
	if err == nil {
		return Outcome{State: Completed}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return Outcome{State: Signaled, Signal: status.Signal()}
		}
		return Outcome{State: Completed, ExitCode: exitErr.ExitCode()}
	}
	return Outcome{State: Completed, ExitCode: -1, Err: err}
}

func (p *execProcess) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}

// IsMissingCommand reports whether a spawn error means the executable does
// not exist.
func IsMissingCommand(err error) bool {
	return proc.IsNotFound(err)
}
