// Package misc provides build-time program metadata.
package misc

import (
	"runtime/debug"
)

const appName = "onx"

// set by the linker during release builds
var (
	version = ""
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "devel"
}

func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
