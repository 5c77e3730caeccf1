// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers: bounded channel
// receives and sends so a broken goroutine fails the test instead of
// hanging it.
package testutil
