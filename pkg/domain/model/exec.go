package model

import "time"

// ExecCommand describes one external process invocation.
type ExecCommand struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// ExecResult is the outcome of a process that ran to completion. A non-zero
// ExitCode is a result, not an error.
type ExecResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}
