// Package build holds build-time metadata injected via ldflags.
package build

var (
	// Version is the release version, set at build time.
	Version = "dev"

	// Commit is the git commit the binary was built from, set at build time.
	Commit = ""

	// Date is the build date, set at build time.
	Date = ""
)
