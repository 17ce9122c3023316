package btf

import "fmt"

// Source is the byte-level backing store a Cursor reads from. A BTF blob
// is addressed as one flat offset space; callers supply whatever storage
// sits behind it (an in-memory slice, a mapped file, a stream).
type Source interface {
	// ReadAt fills buf with len(buf) bytes starting at offset. It must not
	// return a short read: either buf is filled in full or an error is
	// returned and buf's contents are unspecified.
	ReadAt(offset uint64, buf []byte) error
}

// MemorySource is a Source backed by an in-memory byte slice. This is the
// byte source every test in this package is built on.
type MemorySource struct {
	data []byte
}

// NewMemorySource wraps data as a Source. data is not copied.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

// Len returns the number of bytes backing this source.
func (s *MemorySource) Len() uint64 {
	return uint64(len(s.data))
}

func (s *MemorySource) ReadAt(offset uint64, buf []byte) error {
	if offset >= uint64(len(s.data)) {
		return NewError(ErrEOF, fmt.Sprintf("offset %d is at or past source length %d", offset, len(s.data)))
	}

	end := offset + uint64(len(buf))
	if end > uint64(len(s.data)) {
		return NewError(ErrInvalidOffset, fmt.Sprintf("read of %d bytes at offset %d exceeds source length %d", len(buf), offset, len(s.data)))
	}

	copy(buf, s.data[offset:end])
	return nil
}
