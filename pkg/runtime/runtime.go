package runtime

// Set at build time via -ldflags "-X github.com/autobrr/namedir/pkg/runtime.Version=..."
var (
	Version   = "0.0.0-dev"
	GitCommit = "unknown"
	Timestamp = "unknown"
)
