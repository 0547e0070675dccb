// Package runtimetest provides a scripted runtime.Runner for tests.
package runtimetest

import (
	"context"
	"strings"
	"sync"

	"github.com/artifactsplus/artifactsplus/internal/runtime"
)

// Call records one invocation of the fake runner.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call as "name arg1 arg2".
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Fake records calls and answers them with Handler, or with an empty
// successful Output when Handler is nil.
type Fake struct {
	Handler func(call Call) (*runtime.Output, error)

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) Run(_ context.Context, dir, name string, args ...string) (*runtime.Output, error) {
	call := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.Handler == nil {
		return &runtime.Output{}, nil
	}
	return f.Handler(call)
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Fail returns a Handler that exits non-zero with stderr for every call.
func Fail(code int, stderr string) func(Call) (*runtime.Output, error) {
	return func(c Call) (*runtime.Output, error) {
		out := &runtime.Output{ExitCode: code, Stderr: stderr}
		return out, &runtime.ExitError{Name: c.Name, Args: c.Args, Output: out}
	}
}
