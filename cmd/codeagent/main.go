// Command codeagent runs a coding agent against a working directory.
package main

import (
	"os"
	"runtime/debug"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/cli"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			version, commit, date = buildVersion(info)
		}
	}
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildVersion derives version data from module and VCS build info when no
// ldflags were given. go install'ed builds carry a module version.
func buildVersion(info *debug.BuildInfo) (v, c, d string) {
	v = "dev"
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = strings.TrimPrefix(mv, "v")
	}

	var revision string
	dirty := false
	c, d = "unknown", "unknown"
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			if s.Value != "" {
				d = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) >= 7 {
		c = revision[:7]
		if dirty {
			c += "-dirty"
		}
	}
	return v, c, d
}
