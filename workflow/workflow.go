// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workflow provides the sequential command plan, run logging
// and command handlers used by the most wanted OTUs pipeline. A plan
// is an ordered list of externally executed commands; handlers either
// run the plan or print it for inspection.
package workflow

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Error is the error type returned for pipeline contract violations,
// such as refusing to reuse an existing output directory or a
// malformed abundance vector.
type Error string

func (e Error) Error() string { return string(e) }

// Errorf returns an Error formatted according to a format specifier.
func Errorf(format string, args ...interface{}) Error {
	return Error(fmt.Sprintf(format, args...))
}

// Command pairs a human-readable description of a pipeline step with
// the executable command performing it.
type Command struct {
	// Desc describes the step for status updates and the run log.
	Desc string

	// Cmd is the fully built command. Stdout and stderr are owned by
	// the handler that runs the command.
	Cmd *exec.Cmd
}

// String returns the space-joined argv of the command.
func (c Command) String() string { return strings.Join(c.Cmd.Args, " ") }

// A Status function receives step descriptions as a plan progresses.
type Status func(desc string)

// Quiet is a Status that discards updates.
func Quiet(string) {}

// PrintStatus writes each step description to stdout.
func PrintStatus(desc string) { fmt.Println(desc) }

// Logger is the append-only log of a single pipeline run. Writes are
// mirrored to an INFO logger on stderr so a run can be followed
// interactively. The logger is kept open across handler invocations
// and must be explicitly closed by the caller.
type Logger struct {
	f    *os.File
	info *log.Logger
}

// LogPath returns the conventional run log location inside dir,
// log_<timestamp>.txt.
func LogPath(dir string) string {
	return filepath.Join(dir, time.Now().Format("log_20060102150405.txt"))
}

// NewLogger creates the run log at path, recording the start time as
// its first entry.
func NewLogger(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l := &Logger{
		f:    f,
		info: log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime),
	}
	l.Write(fmt.Sprintf("Logging started at %s\n\n", time.Now().Format(time.RFC1123)))
	return l, nil
}

// Write appends msg to the run log and echoes it to the INFO mirror.
// Write is a no-op on a nil Logger so handlers can be used without a
// log file.
func (l *Logger) Write(msg string) {
	if l == nil {
		return
	}
	fmt.Fprint(l.f, msg)
	l.info.Print(strings.TrimSuffix(msg, "\n\n"))
}

// Close records the finishing time and closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	fmt.Fprintf(l.f, "Logging stopped at %s\n", time.Now().Format(time.RFC1123))
	return l.f.Close()
}

// A Handler executes a command plan against a run log.
type Handler func(cmds []Command, logger *Logger, status Status) error

// Serial executes commands in plan order, stopping at the first
// failure. Each command's description and argv are logged before it
// runs; stderr is captured into the log when a command fails.
func Serial(cmds []Command, logger *Logger, status Status) error {
	for _, c := range cmds {
		status(c.Desc)
		logger.Write(fmt.Sprintf("# %s\n%s\n\n", c.Desc, c))
		stderr := &bytes.Buffer{}
		if c.Cmd.Stderr == nil {
			c.Cmd.Stderr = stderr
		}
		if err := c.Cmd.Run(); err != nil {
			logger.Write(fmt.Sprintf("Command failed: %v\n%s\n", err, stderr.Bytes()))
			return Errorf("workflow: %s: %v", c.Desc, err)
		}
	}
	return nil
}

// Print logs and prints each command of the plan without executing
// it, for dry runs.
func Print(cmds []Command, logger *Logger, status Status) error {
	for _, c := range cmds {
		status(c.Desc)
		logger.Write(fmt.Sprintf("# %s\n%s\n\n", c.Desc, c))
		fmt.Println(c)
	}
	return nil
}
