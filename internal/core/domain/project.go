package domain

// Project is a loaded facto.yaml manifest.
type Project struct {
	// Root is the directory containing the manifest.
	Root string
	// ConfigPath is the absolute path of the manifest.
	ConfigPath string
	// Artifact is the absolute artifact path; empty disables caching.
	Artifact string
	// Mode is the cache mode derived from the cache flag.
	Mode CacheMode
	// BestEffort makes a failed temporary file creation non-fatal.
	BestEffort bool
	// Definitions are the declared factories in manifest order.
	Definitions []Definition
}
