package version

import (
	"crypto/sha256"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/standardbeagle/remap/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "0.2.0"
	Commit    = ""
	BuildDate = ""
)

// Info describes the running binary
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Modified  bool
}

var (
	info     Info
	infoOnce sync.Once
	buildID  string
)

// Get returns build information, filling the commit and date from the
// embedded VCS stamp when they were not set through ldflags.
func Get() Info {
	infoOnce.Do(func() {
		info = Info{Version: Version, Commit: Commit, BuildDate: BuildDate}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			buildID = Version
			return
		}
		info.GoVersion = bi.GoVersion

		h := sha256.New()
		h.Write([]byte(bi.GoVersion))
		h.Write([]byte(bi.Main.Path))
		h.Write([]byte(Version))
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			default:
				continue
			}
			h.Write([]byte(s.Key))
			h.Write([]byte(s.Value))
		}
		buildID = fmt.Sprintf("%x", h.Sum(nil))[:16]
	})
	return info
}

// String renders the one-line form printed by `remap version`
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("remap ")
	b.WriteString(i.Version)

	commit := i.Commit
	if commit == "" {
		commit = "unknown"
	} else if len(commit) > 12 {
		commit = commit[:12]
	}
	if i.Modified {
		commit += "-dirty"
	}
	fmt.Fprintf(&b, " (commit %s", commit)
	if i.BuildDate != "" {
		fmt.Fprintf(&b, ", built %s", i.BuildDate)
	}
	if i.GoVersion != "" {
		fmt.Fprintf(&b, ", %s", i.GoVersion)
	}
	b.WriteString(")")
	return b.String()
}

// FullInfo returns the detailed version line
func FullInfo() string {
	return Get().String()
}

// BuildID fingerprints the binary so reports from different builds can be told apart
func BuildID() string {
	Get()
	return buildID
}
