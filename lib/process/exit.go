// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Fatal reports err on stderr and exits with its status.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes "error: err" to w unless err says it was already
// reported, and returns the exit status for err. A nil err is status 0.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var reported interface{ Reported() bool }
	if !errors.As(err, &reported) || !reported.Reported() {
		fmt.Fprintf(w, "error: %v\n", err)
	}

	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
