package build

// Set through ldflags during release builds.
var (
	ReleaseTag = "dev"
	CommitID   = ""
	BuildDate  = ""
)
