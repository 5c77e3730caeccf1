// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps tickets or schedules keepalives takes a Clock rather
// than calling the time package directly. Production wiring uses Real;
// tests use Fake, which only moves when Advance or Set is called.
package clock
