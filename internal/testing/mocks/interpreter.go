// Package mocks provides shared test doubles for asmcheck packages.
package mocks

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Interpreter records interpreter invocations in place of a real subprocess.
// Use NewInterpreter() to create instances with a fluent builder API.
type Interpreter struct {
	outputs map[string]string // Program ID → stdout
	stderrs map[string]string // Program ID → stderr

	// ExecFunc is called by Exec. If nil, Exec answers from the configured outputs.
	ExecFunc func(ctx context.Context, argv []string) (stdout, stderr string, err error)

	// Execution tracking (thread-safe)
	execCount int32
	running   int32
	peak      int32
	mu        sync.Mutex
	calls     [][]string
}

// NewInterpreter creates a new mock interpreter that prints nothing.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		outputs: make(map[string]string),
		stderrs: make(map[string]string),
	}
}

// WithOutput sets the stdout printed for the program with the given ID.
func (m *Interpreter) WithOutput(id, stdout string) *Interpreter {
	m.outputs[id] = stdout
	return m
}

// WithStderr sets the stderr printed for the program with the given ID.
func (m *Interpreter) WithStderr(id, stderr string) *Interpreter {
	m.stderrs[id] = stderr
	return m
}

// WithExecFunc sets the function called by Exec.
func (m *Interpreter) WithExecFunc(fn func(ctx context.Context, argv []string) (string, string, error)) *Interpreter {
	m.ExecFunc = fn
	return m
}

// Exec has the signature of the runner's process executor.
func (m *Interpreter) Exec(ctx context.Context, dir string, argv []string) (string, string, error) {
	atomic.AddInt32(&m.execCount, 1)
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), argv...))
	m.mu.Unlock()

	n := atomic.AddInt32(&m.running, 1)
	defer atomic.AddInt32(&m.running, -1)
	for {
		peak := atomic.LoadInt32(&m.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&m.peak, peak, n) {
			break
		}
	}

	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, argv)
	}
	id := ProgramID(argv)
	return m.outputs[id], m.stderrs[id], nil
}

// ProgramID returns the ID of the first argument that looks like a program
// path (has a directory and an extension), or "" if there is none.
func ProgramID(argv []string) string {
	for _, arg := range argv {
		if strings.HasPrefix(arg, "-") || filepath.Dir(arg) == "." {
			continue
		}
		base := filepath.Base(arg)
		if ext := filepath.Ext(base); ext != "" {
			return strings.TrimSuffix(base, ext)
		}
	}
	return ""
}

// Test inspection methods

// ExecCount returns the number of times Exec was called.
func (m *Interpreter) ExecCount() int32 {
	return atomic.LoadInt32(&m.execCount)
}

// PeakConcurrency returns the largest number of Exec calls seen in flight at once.
func (m *Interpreter) PeakConcurrency() int32 {
	return atomic.LoadInt32(&m.peak)
}

// Calls returns the argument vectors of every Exec call, in call order.
func (m *Interpreter) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]string, len(m.calls))
	copy(result, m.calls)
	return result
}

// Reset clears execution tracking state.
func (m *Interpreter) Reset() {
	atomic.StoreInt32(&m.execCount, 0)
	atomic.StoreInt32(&m.peak, 0)
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}
