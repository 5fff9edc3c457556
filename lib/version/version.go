// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/bureau-foundation/activation/lib/protocol"
)

// Linker-provided values. Empty GitCommit, GitDirty, and BuildTime
// fall back to the VCS stamp the go tool records in the binary.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	GitDirty  = ""
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	Version  string
	Commit   string
	Dirty    bool
	Time     string
	Protocol int
}

// Current returns the description of the running binary.
func Current() Build {
	build := Build{
		Version:  Version,
		Commit:   GitCommit,
		Dirty:    GitDirty == "true",
		Time:     BuildTime,
		Protocol: protocol.Version,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if build.Commit == "" {
					build.Commit = shortRevision(setting.Value)
				}
			case "vcs.modified":
				if GitDirty == "" {
					build.Dirty = setting.Value == "true"
				}
			case "vcs.time":
				if build.Time == "" {
					build.Time = setting.Value
				}
			}
		}
	}
	if build.Commit == "" {
		build.Commit = "unknown"
	}
	if build.Time == "" {
		build.Time = "unknown"
	}
	return build
}

func shortRevision(revision string) string {
	if len(revision) > 7 {
		return revision[:7]
	}
	return revision
}

// String formats the build as "VERSION (COMMIT[-dirty], TIME)".
func (b Build) String() string {
	dirty := ""
	if b.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", b.Version, b.Commit, dirty, b.Time)
}

// Info is Current().String(), for --version output and startup logs.
func Info() string {
	return Current().String()
}

// Full adds the protocol version, Go version, and platform to Info.
func Full() string {
	build := Current()
	return fmt.Sprintf("%s\n  protocol: %d\n  go: %s\n  platform: %s/%s",
		build, build.Protocol, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns the release version alone. The daemon sends it in its
// welcome event.
func Short() string {
	return Version
}
