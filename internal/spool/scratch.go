package spool

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ScratchFile is a temp file materialized from an in-memory buffer.
// It is owned exclusively by the submission that created it and must be
// released on every exit path of that submission.
type ScratchFile struct {
	Path string
}

// ScratchDir materializes byte buffers as uniquely named files so the
// spooler CLI, which only takes paths, can consume in-memory images.
type ScratchDir struct {
	dir string
}

// NewScratchDir creates a manager rooted at dir. An empty dir falls back
// to the system temp directory.
func NewScratchDir(dir string) *ScratchDir {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ScratchDir{dir: dir}
}

// Materialize writes data to a fresh file. Names carry a UUID suffix, so
// concurrent submissions can never collide or overwrite each other.
func (s *ScratchDir) Materialize(data []byte) (ScratchFile, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return ScratchFile{}, &ScratchError{Op: "write", Path: s.dir, Err: err}
	}

	path := filepath.Join(s.dir, "coloring-page-"+uuid.New().String()+".png")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return ScratchFile{}, &ScratchError{Op: "write", Path: path, Err: err}
	}
	return ScratchFile{Path: path}, nil
}

// Release deletes the file. Releasing an already-gone file (or the zero
// value) is a no-op, so cleanup paths can call it unconditionally.
func (s *ScratchDir) Release(f ScratchFile) error {
	if f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return &ScratchError{Op: "remove", Path: f.Path, Err: err}
	}
	return nil
}
