package domain

import "path/filepath"

const (
	// FactoDirName is the name of the internal workspace directory.
	FactoDirName = ".facto"

	// ArtifactFileName is the default name of the cache artifact.
	ArtifactFileName = "factories.yaml"

	// FactoFileName is the name of the project configuration file.
	FactoFileName = "facto.yaml"

	// TempFilePattern is the pattern of temporary files created next to the artifact.
	TempFilePattern = ".factories-*.tmp"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultFactoPath returns the default root directory for facto metadata.
func DefaultFactoPath() string {
	return FactoDirName
}

// DefaultArtifactPath returns the default path of the cache artifact.
// It joins .facto and factories.yaml.
func DefaultArtifactPath() string {
	return filepath.Join(FactoDirName, ArtifactFileName)
}
