package btf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixtureHeaderForStrings(strOff, strLen uint32) *FileHeader {
	return &FileHeader{
		HdrLen:          0,
		StrSectionStart: uint64(strOff),
		StrSectionEnd:   uint64(strOff) + uint64(strLen),
	}
}

func TestResolveStringOffsetZeroIsEmpty(t *testing.T) {
	src := NewMemorySource([]byte{})
	h := fixtureHeaderForStrings(0, 0)

	s, err := ResolveString(src, h, 0)
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestResolveStringNormal(t *testing.T) {
	data := []byte("\x00hello\x00world\x00")
	src := NewMemorySource(data)
	h := fixtureHeaderForStrings(0, uint32(len(data)))

	s, err := ResolveString(src, h, 1)
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	s, err = ResolveString(src, h, 7)
	require.NoError(t, err)
	require.Equal(t, "world", s)
}

func TestResolveStringOutOfRange(t *testing.T) {
	data := []byte("\x00hi\x00")
	src := NewMemorySource(data)
	h := fixtureHeaderForStrings(0, uint32(len(data)))

	_, err := ResolveString(src, h, uint32(len(data)+10))
	require.Error(t, err)
	require.Equal(t, ErrInvalidStringOffset, err.(*Error).Kind())
}

func TestResolveStringUnterminated(t *testing.T) {
	data := []byte("\x00abc")
	src := NewMemorySource(data)
	h := fixtureHeaderForStrings(0, uint32(len(data)))

	_, err := ResolveString(src, h, 1)
	require.Error(t, err)
	require.Equal(t, ErrInvalidString, err.(*Error).Kind())
}

func TestResolveStringSectionStartOverflow(t *testing.T) {
	src := NewMemorySource([]byte{0})
	h := fixtureHeaderForStrings(0, 1)
	h.StrSectionStart = ^uint64(0)

	_, err := ResolveString(src, h, 1)
	require.Error(t, err)
	require.Equal(t, ErrInvalidStringOffset, err.(*Error).Kind())
}
