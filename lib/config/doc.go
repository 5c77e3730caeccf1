// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads YAML configuration for the kanban client and
// server.
//
// The file is named by the --config flag or the KANBAN_CONFIG
// environment variable. There is no discovery: without either, only
// defaults and environment overrides apply. A .env file in the working
// directory is read first, so its values count as environment.
//
// Precedence, lowest first: [Default], the file, then the KANBAN_*
// variables listed on [Config.ApplyEnvironment]. Path-like fields
// expand ${VAR} and ${VAR:-default} after loading.
package config
