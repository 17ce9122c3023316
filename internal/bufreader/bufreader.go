// Package bufreader adapts an *os.File into a btf.Source, the way
// gopdb's msf.Stream adapts the MSF container's block layout into a
// single io.Reader-shaped surface for the streams above it.
package bufreader

import (
	"os"

	"github.com/pkg/errors"

	"github.com/gobtf/gobtf/pkg/btf"
)

// FileSource is a btf.Source backed by a file on disk, read with
// ReadAt so a single TypeInformation can be built without first slurping
// the whole file into memory.
type FileSource struct {
	file *os.File
	size int64
}

// Open opens path and wraps it as a FileSource.
func Open(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to stat %q", path)
	}

	return &FileSource{file: f, size: info.Size()}, nil
}

// Close releases the underlying file handle.
func (s *FileSource) Close() error {
	return s.file.Close()
}

// Size returns the file's length in bytes.
func (s *FileSource) Size() int64 {
	return s.size
}

func (s *FileSource) ReadAt(offset uint64, buf []byte) error {
	if offset >= uint64(s.size) {
		return btf.NewError(btf.ErrEOF, "offset is at or past file size")
	}
	if offset+uint64(len(buf)) > uint64(s.size) {
		return btf.NewError(btf.ErrInvalidOffset, "read exceeds file size")
	}

	n, err := s.file.ReadAt(buf, int64(offset))
	if err != nil {
		if n == len(buf) {
			// A short-looking error (e.g. io.EOF right at the boundary)
			// that still delivered every requested byte is not a failure.
			return nil
		}
		return btf.NewError(btf.ErrIO, errors.Wrapf(err, "read at offset %d", offset).Error())
	}
	return nil
}
