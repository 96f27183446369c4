package cmd

import (
	"fmt"
	"runtime"
)

// Set by goreleaser
var (
	Version   = "dev"
	GitSHA    = "none"
	BuildDate = "unknown"
)

func versionStanza() string {
	return fmt.Sprintf(
		"teesink Version: %v\nGit SHA: %v\nBuild Date: %v\nGo Version: %v\nGo OS/Arch: %v/%v",
		Version, GitSHA, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}
