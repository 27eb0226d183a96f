package main

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Stderr kept on a runResult is capped at this many bytes.
const maxStderrSnippet = 4096

// runResult is the outcome of one command execution. A non-zero ExitCode
// is data, not an error of the daemon; Err is set only when the command
// could not be run at all.
type runResult struct {
	ExitCode int
	Duration time.Duration
	Stdout   string
	Stderr   string
	Err      error
}

// launchFailed distinguishes "could not launch" from "ran and exited
// non-zero". The shell reports 127 for command-not-found and 126 for a
// file that exists but is not executable.
func (r runResult) launchFailed() bool {
	return r.Err != nil || r.ExitCode == 126 || r.ExitCode == 127
}

// runCommand executes command through the shell with the daemon's own
// environment and working directory, so user wrapper scripts see DISPLAY,
// XAUTHORITY and the rest of the session. No timeout and never killed:
// interrupting a display reconciler mid-run is worse than waiting it out.
func runCommand(command string) runResult {
	start := time.Now()
	cmd := exec.Command("/bin/sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{
		Duration: time.Since(start),
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   limitOutput(stderr.Bytes(), maxStderrSnippet),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = err
		}
	}
	return res
}

func limitOutput(out []byte, max int) string {
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		return s[:max] + "... (truncated)"
	}
	return s
}
