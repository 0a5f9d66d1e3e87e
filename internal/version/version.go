package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/5minds/create-processcube-app/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/5minds/create-processcube-app/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/5minds/create-processcube-app/internal/version.Date={{.Date}}
)
