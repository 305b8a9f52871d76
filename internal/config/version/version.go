package version

// Package metadata information, used for versioning and report generation.
// The release pipeline replaces these variables at build time.
var (
	Version      = "0.1.0"                 // Version of the AppStream Mapper
	Toolname     = "appstream-mapper-dev"  // Name of the tool
	Organization = "unknown"               // Organization that built the tool
	BuildDate    = "unknown"               // Date when the tool was built
	CommitSHA    = "unknown"               // Commit SHA of the tool
)
