// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Streams are the standard streams a command uses. Tests substitute
// buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StandardStreams returns the process's stdin, stdout, and stderr.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// IsTerminal reports whether stream is a file attached to a terminal.
// Buffers never are.
func (s Streams) IsTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Interactive reports whether both In and Out are terminals, so a
// prompt will be seen and answered.
func (s Streams) Interactive() bool {
	return s.IsTerminal(s.In) && s.IsTerminal(s.Out)
}

// Confirm writes prompt to Out and reads one line from In. Only "y" and
// "yes", in any case, confirm.
func (s Streams) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(s.Out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(s.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
