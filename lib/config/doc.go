// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the activation
// daemon.
//
// Configuration is loaded from a single file specified by either the
// ACTIVATION_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks and no automatic file
// search. A daemon started without a file runs on [Default].
//
// Files are YAML. A file whose name ends in .json or .jsonc is
// accepted too: comments and trailing commas are stripped first, and
// the remaining JSON is decoded by the YAML parser (JSON is a subset
// of YAML), so both syntaxes share one set of struct tags.
//
// The file may contain environment-specific sections (development,
// production) that override base values when [Config].Environment
// matches. Production defaults are stricter: a shorter token TTL and a
// lower per-client token cap.
//
// ${VAR} and ${VAR:-default} patterns are expanded in the socket path
// after loading. No other environment variables override config values.
//
// This package depends on no other activation packages.
package config
