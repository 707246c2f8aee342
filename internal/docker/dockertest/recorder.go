// Package dockertest provides a scripted docker.Runner for tests.
package dockertest

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded command invocation.
type Call struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// Line renders the call as a shell-like command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is returned for commands whose line has Prefix.
type Response struct {
	Prefix string
	Output string
	Err    error
}

// Recorder records every call and answers from its scripted responses.
// The first matching response wins; unmatched calls succeed with no output.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	responses []Response
}

// On scripts the result of any command line starting with prefix.
func (r *Recorder) On(prefix, output string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, Response{Prefix: prefix, Output: output, Err: err})
	return r
}

func (r *Recorder) Run(_ context.Context, dir string, env []string, name string, args ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{Dir: dir, Env: env, Name: name, Args: append([]string(nil), args...)}
	r.calls = append(r.calls, call)

	line := call.Line()
	for _, resp := range r.responses {
		if strings.HasPrefix(line, resp.Prefix) {
			return resp.Output, resp.Err
		}
	}
	return "", nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded calls as command lines.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}
