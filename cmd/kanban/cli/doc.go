// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the kanban CLI.
//
// A [Command] has a name, help text with examples, a flag set factory,
// and either a Run function or nested [Command.Subcommands].
// [Command.Execute] parses flags, routes to subcommands, and prints
// structured help. Unknown commands and flags get a "did you mean"
// suggestion when one is within edit distance 3.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. Commands report failures as [*ToolError] values
// so scripts can tell bad input from a missing ticket or a network
// problem, and write through [Streams] so tests can capture output.
package cli
