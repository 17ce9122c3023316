package btf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTypeSource lays out a string section (data, NUL-terminated entries
// starting with the mandatory empty string at offset 0) followed
// immediately by a type-section body built by the caller. strLen must
// cover all of data.
func buildTypeSource(data []byte, body []byte) (*MemorySource, *FileHeader) {
	blob := append(append([]byte{}, data...), body...)
	src := NewMemorySource(blob)
	h := &FileHeader{
		StrSectionStart: 0,
		StrSectionEnd:   uint64(len(data)),
		TypeSectionStart: uint64(len(data)),
		TypeSectionEnd:   uint64(len(blob)),
	}
	h.src = src
	return src, h
}

func u32le(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

func TestDecodeIntBitLayout(t *testing.T) {
	_, h := buildTypeSource([]byte("\x00"), nil)
	hdr := TypeHeader{NameOffset: 0, Kind: KindInt, SizeOrType: 4}

	// encoding=1 (signed), bit_offset=0, bits=32
	extra := (uint32(1) << 24) | (uint32(0) << 16) | uint32(32)
	body := u32le(extra)
	c := NewCursor(NewMemorySource(body))

	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)
	i := ty.(Int)
	require.Equal(t, uint32(4), i.ByteSize)
	require.True(t, i.Signed())
	require.Equal(t, uint32(32), i.Bits)
}

func TestDecodeStructStandardOffsets(t *testing.T) {
	strs := []byte("\x00a\x00b\x00")
	// member a: name_offset=1, type=0, raw_offset=0x08 (bits) -> ByteOffset(1)
	// member b: name_offset=3, type=0, raw_offset=0x10 (bits) -> ByteOffset(2)
	body := append(append([]byte{}, u32le(1)...), append(u32le(0), u32le(8)...)...)
	body = append(body, append(u32le(3), append(u32le(0), u32le(16)...)...)...)

	_, h := buildTypeSource(strs, nil)
	hdr := TypeHeader{NameOffset: 0, Kind: KindStruct, KindFlag: false, Vlen: 2, SizeOrType: 4}

	c := NewCursor(NewMemorySource(body))
	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)

	s := ty.(Struct)
	require.Len(t, s.Members, 2)
	require.Equal(t, "a", s.Members[0].Name)
	require.Equal(t, uint32(1), s.Members[0].Offset.Bytes())
	require.Equal(t, "b", s.Members[1].Name)
	require.Equal(t, uint32(2), s.Members[1].Offset.Bytes())
}

func TestDecodeStructBitfieldOffsets(t *testing.T) {
	strs := []byte("\x00a\x00b\x00")
	// member1: raw=0x00000008 -> bit_offset=8, bit_size=0 -> collapses to ByteOffset(1)
	// member2: raw=0x0B00000A -> bit_offset=0xA=10, bit_size=0xB=11
	body := append(append([]byte{}, u32le(1)...), append(u32le(0), u32le(0x00000008)...)...)
	body = append(body, append(u32le(3), append(u32le(0), u32le(0x0B00000A)...)...)...)

	_, h := buildTypeSource(strs, nil)
	hdr := TypeHeader{NameOffset: 0, Kind: KindStruct, KindFlag: true, Vlen: 2, SizeOrType: 4}

	c := NewCursor(NewMemorySource(body))
	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)

	s := ty.(Struct)
	require.False(t, s.Members[0].Offset.IsBitfield())
	require.Equal(t, uint32(1), s.Members[0].Offset.Bytes())

	require.True(t, s.Members[1].Offset.IsBitfield())
	require.Equal(t, uint32(10), s.Members[1].Offset.BitOffset())
	require.Equal(t, uint32(11), s.Members[1].Offset.BitSize())
}

func TestDecodeArrayHasNoName(t *testing.T) {
	_, h := buildTypeSource([]byte("\x00"), nil)
	hdr := TypeHeader{NameOffset: 0, Kind: KindArray}

	body := append(append([]byte{}, u32le(7)...), append(u32le(8), u32le(10)...)...)
	c := NewCursor(NewMemorySource(body))

	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)

	arr := ty.(Array)
	require.Equal(t, "", arr.Name())
	require.Equal(t, uint32(7), arr.ElementTypeID)
	require.Equal(t, uint32(8), arr.IndexTypeID)
	require.Equal(t, uint32(10), arr.ElementCount)
}

func TestDecodeEnum64Values(t *testing.T) {
	strs := []byte("\x00A\x00B\x00")
	hdr := TypeHeader{NameOffset: 0, Kind: KindEnum64, Vlen: 2, KindFlag: false}
	_, h := buildTypeSource(strs, nil)

	body := append(append([]byte{}, u32le(1)...), append(u32le(0xFFFFFFFF), u32le(0)...)...)
	body = append(body, append(u32le(3), append(u32le(1), u32le(0)...)...)...)

	c := NewCursor(NewMemorySource(body))
	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)

	e := ty.(Enum64)
	require.Len(t, e.Values, 2)
	require.Equal(t, "A", e.Values[0].Name)
	require.Equal(t, uint64(0xFFFFFFFF), e.Values[0].Value)
	require.Equal(t, "B", e.Values[1].Name)
	require.Equal(t, uint64(1), e.Values[1].Value)
}

func TestDecodeFuncProtoParameters(t *testing.T) {
	strs := []byte("\x00x\x00")
	hdr := TypeHeader{NameOffset: 0, Kind: KindFuncProto, Vlen: 2, SizeOrType: 99}
	_, h := buildTypeSource(strs, nil)

	// param 1: name "x" (offset 1), type 5
	// param 2: variadic marker, name_offset 0, type 0
	body := append(append([]byte{}, u32le(1)...), u32le(5)...)
	body = append(body, append(u32le(0), u32le(0)...)...)

	c := NewCursor(NewMemorySource(body))
	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)

	fp := ty.(FuncProto)
	require.Equal(t, uint32(99), fp.ReturnTypeID)
	require.Len(t, fp.Parameters, 2)
	require.Equal(t, "x", fp.Parameters[0].Name)
	require.Equal(t, uint32(5), fp.Parameters[0].TypeID)
	require.False(t, fp.Parameters[0].IsVariadic)
	require.True(t, fp.Parameters[1].IsVariadic)
}

func TestDecodeFwdIsUnion(t *testing.T) {
	_, h := buildTypeSource([]byte("\x00"), nil)
	hdr := TypeHeader{NameOffset: 0, Kind: KindFwd, KindFlag: true, SizeOrType: 7}

	c := NewCursor(NewMemorySource(nil))
	ty, err := DecodeType(c, h, hdr)
	require.NoError(t, err)
	fwd := ty.(Fwd)
	require.True(t, fwd.IsUnion())
	require.Equal(t, uint32(7), fwd.ReferencedTypeID)
}
