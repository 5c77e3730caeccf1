// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helper shared by the kanban
// binaries: reporting the error returned from run() and choosing the
// exit status.
//
// Errors may implement two optional methods:
//
//   - ExitCode() int picks the status. Otherwise it is 1.
//   - Reported() bool, returning true, suppresses the "error:" line
//     because the command already wrote its own output.
package process
