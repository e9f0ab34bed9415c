package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const coreVersion = "0.1.0"

// Provisioned by ldflags, falls back to the vcs revision of the build.
var commit string

func Core() string {
	return coreVersion
}

// Commit returns the revision the binary was built from, or dev.
func Commit() string {
	if commit != "" {
		return commit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "dev"
}

// Full returns the version with commit hash, runtime os and arch.
func Full() string {
	return fmt.Sprintf("v%s (%s) %s/%s", coreVersion, Commit(), runtime.GOOS, runtime.GOARCH)
}
