// Package storage defines the domain-library file-system abstraction.
package storage

// FileMeta describes one domain file in the library.
type FileMeta struct {
	Path     string
	Checksum string
}

// Provider is the interface for domain-library file operations. All paths
// are relative to the library root; only .yaml and .yml files are domains.
type Provider interface {
	// List returns metadata for every domain file under dir.
	List(dir string) ([]FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
