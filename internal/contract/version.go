package contract

// GeneratorName identifies this tool in export metadata.
const GeneratorName = "devinsight"

// Build metadata, overridden via ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
