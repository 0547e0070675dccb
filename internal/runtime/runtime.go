package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a program in a working directory.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (*Output, error)
}

// Output captures the result of a program execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError reports a program that ran but exited non-zero.
type ExitError struct {
	Name   string
	Args   []string
	Output *Output
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s %s exited with status %d", e.Name, strings.Join(e.Args, " "), e.Output.ExitCode)
	if stderr := strings.TrimSpace(e.Output.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// Stdout and Stderr, when set, receive a live copy of the program output.
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the inherited process environment.
	Env []string
}

// Run starts name with args in dir and waits for it. A non-zero exit is
// returned as *ExitError together with the captured output; failing to start
// the program (for example, binary not found) is returned as a plain error.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*Output, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = teeTo(&stdoutBuf, r.Stdout)
	cmd.Stderr = teeTo(&stderrBuf, r.Stderr)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			output.ExitCode = exitErr.ExitCode()
			return output, &ExitError{Name: name, Args: args, Output: output}
		}
		if ctx.Err() != nil {
			return output, fmt.Errorf("running %s: %w", name, ctx.Err())
		}
		return output, fmt.Errorf("running %s: %w", name, err)
	}

	return output, nil
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}
