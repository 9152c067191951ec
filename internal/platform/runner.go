package platform

import (
	"bytes"
	"errors"
	"os/exec"

	"github.com/ifbridge/ifbridge/internal/log"
)

// cmdResult is the outcome of a completed external process. exitOK is
// false when the process ran but exited nonzero.
type cmdResult struct {
	stdout string
	stderr string
	exitOK bool
}

// commandRunner abstracts process invocation so backend logic can be
// tested with a fake. A non-nil error means the binary could not be
// spawned at all; a completed-but-failed process is reported through
// cmdResult instead.
type commandRunner interface {
	Run(name string, args ...string) (cmdResult, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) (cmdResult, error) {
	log.Debugf("Running command: %s %v", name, args)

	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return cmdResult{stdout: stdout.String(), stderr: stderr.String()}, nil
		}
		return cmdResult{}, err
	}

	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), exitOK: true}, nil
}
