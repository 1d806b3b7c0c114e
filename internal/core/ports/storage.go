package ports

// ArtifactStorage owns the bytes of the cache artifact on disk.
//
//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks
type ArtifactStorage interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
	// CheckWritable verifies that path can be replaced: the file itself when
	// it exists, its parent directory otherwise.
	CheckWritable(path string) error
	// WriteAtomic replaces path with data through a temporary file in the
	// same directory and a rename.
	WriteAtomic(path string, data []byte) error
	// Read returns the content of path.
	Read(path string) ([]byte, error)
	// Remove deletes path. A missing file is not an error.
	Remove(path string) error
	// EnsureDir creates dir and its parents.
	EnsureDir(dir string) error
}
