// Package version carries build metadata injected with -ldflags, falling
// back to the module build info for `go install` builds.
package version

import (
	"runtime/debug"
)

const (
	develVersion   = "(devel)"
	unknown        = "unknown"
	revisionKey    = "vcs.revision"
	timeKey        = "vcs.time"
	shortRevLength = 12
)

// Set at link time: -X github.com/Sumatoshi-tech/autopatt/pkg/version.Version=v1.2.3.
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills unset fields from the embedded build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != develVersion {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case revisionKey:
			if Commit == unknown && setting.Value != "" {
				Commit = setting.Value[:min(len(setting.Value), shortRevLength)]
			}
		case timeKey:
			if Date == unknown && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}

// String returns "version (commit: ..., built: ...)".
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
