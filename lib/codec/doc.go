// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the binary encoding used for values the ticket store
// keeps as blobs. It wraps fxamacker/cbor with Core Deterministic
// Encoding so equal values always produce equal bytes.
package codec
