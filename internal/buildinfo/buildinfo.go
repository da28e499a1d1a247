// Package buildinfo carries the version stamped in by the linker:
//
//	-ldflags "-X github.com/synco/microshell/internal/buildinfo.Version=v0.3.0"
package buildinfo

const Name = "microshell"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for titles and log lines.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Line returns "microshell <version> (<commit>, <date>)".
func Line() string {
	return Name + " " + Version + " (" + Commit + ", " + Date + ")"
}
