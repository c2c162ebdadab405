package version

import (
	"runtime/debug"
	"testing"
)

func TestFromSettings(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "", ""
	fromSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "1a2b3c4d5e6f"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-14T10:00:00Z"},
	})

	if Commit != "1a2b3c4-dirty" {
		t.Errorf("Commit = %q, want 1a2b3c4-dirty", Commit)
	}
	if Version != "dev-20260314" {
		t.Errorf("Version = %q, want dev-20260314", Version)
	}
}

func TestFromSettings_KeepsLinkerValues(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "v0.3.0", "abc1234"
	fromSettings([]debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}})

	if Version != "v0.3.0" || Commit != "abc1234" {
		t.Errorf("Full() = %q, want linker values kept", Full())
	}
}
