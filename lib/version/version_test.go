// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bureau-foundation/activation/lib/protocol"
)

func TestLinkerValuesWin(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-10-19T00:00:00Z"
	if got := Info(); got != Version+" (abc1234-dirty, 2026-10-19T00:00:00Z)" {
		t.Errorf("Info() = %q", got)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "-dirty") {
		t.Errorf("Info() = %q, clean build marked dirty", got)
	}
}

func TestCurrentNeverEmpty(t *testing.T) {
	build := Current()
	if build.Commit == "" || build.Time == "" {
		t.Errorf("Current() = %+v, want commit and time filled in", build)
	}
	if build.Protocol != protocol.Version {
		t.Errorf("protocol = %d, want %d", build.Protocol, protocol.Version)
	}
}

func TestFullNamesProtocol(t *testing.T) {
	got := Full()
	if !strings.HasPrefix(got, Info()) {
		t.Errorf("Full() = %q, want prefix %q", got, Info())
	}
	if want := fmt.Sprintf("protocol: %d", protocol.Version); !strings.Contains(got, want) {
		t.Errorf("Full() = %q, want it to contain %q", got, want)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortRevision = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision = %q", got)
	}
}
