package btf

import "encoding/binary"

// blobBuilder assembles a minimal, valid BTF blob byte-by-byte for tests
// that need a real TypeInformation rather than a single decoded type.
type blobBuilder struct {
	strs       []byte
	strOffsets map[string]uint32
	types      []byte
}

func newBlobBuilder() *blobBuilder {
	return &blobBuilder{strs: []byte{0}, strOffsets: map[string]uint32{"": 0}}
}

func (b *blobBuilder) str(s string) uint32 {
	if s == "" {
		return 0
	}
	if off, ok := b.strOffsets[s]; ok {
		return off
	}
	off := uint32(len(b.strs))
	b.strs = append(b.strs, []byte(s)...)
	b.strs = append(b.strs, 0)
	b.strOffsets[s] = off
	return off
}

func (b *blobBuilder) u32(v uint32) {
	b.types = append(b.types, u32le(v)...)
}

// header appends a type's fixed 12-byte header. name is resolved through
// the string table automatically.
func (b *blobBuilder) header(name string, kind Kind, vlen uint16, kindFlag bool, sizeOrType uint32) {
	info := uint32(vlen) | (uint32(kind) << 24)
	if kindFlag {
		info |= 0x80000000
	}
	b.u32(b.str(name))
	b.u32(info)
	b.u32(sizeOrType)
}

// member appends one struct/union member record at a plain byte offset.
func (b *blobBuilder) member(name string, typeID uint32, byteOffset uint32) {
	b.u32(b.str(name))
	b.u32(typeID)
	b.u32(byteOffset * 8)
}

func (b *blobBuilder) build() *MemorySource {
	hdrLen := uint32(24)
	typeLen := uint32(len(b.types))
	strLen := uint32(len(b.strs))

	hdr := make([]byte, hdrLen)
	binary.LittleEndian.PutUint16(hdr[0:2], magicLittleEndian)
	hdr[2] = 1
	hdr[3] = 0
	binary.LittleEndian.PutUint32(hdr[4:8], hdrLen)
	binary.LittleEndian.PutUint32(hdr[8:12], 0)
	binary.LittleEndian.PutUint32(hdr[12:16], typeLen)
	binary.LittleEndian.PutUint32(hdr[16:20], typeLen)
	binary.LittleEndian.PutUint32(hdr[20:24], strLen)

	blob := make([]byte, 0, int(hdrLen)+len(b.types)+len(b.strs))
	blob = append(blob, hdr...)
	blob = append(blob, b.types...)
	blob = append(blob, b.strs...)
	return NewMemorySource(blob)
}

// buildSampleGraph constructs a small, self-consistent type graph:
//
//	1  int                (4 bytes, signed)
//	2  ptr        -> 3     (*Foo)
//	3  struct Foo { x:1@0; <anon union>:4@4 }  (8 bytes)
//	4  union      { y:1@0 }                    (anonymous, embedded in Foo)
//	5  struct list_head { next:6@0; prev:6@8 } (16 bytes, for pointer-size inference)
//	6  ptr        -> 5
func buildSampleGraph() *MemorySource {
	b := newBlobBuilder()

	b.header("int", KindInt, 0, false, 4)
	b.u32((uint32(IntSigned) << 24) | (0 << 16) | 32)

	b.header("", KindPtr, 0, false, 3)

	b.header("Foo", KindStruct, 2, false, 8)
	b.member("x", 1, 0)
	b.member("", 4, 4)

	b.header("", KindUnion, 1, false, 4)
	b.member("y", 1, 0)

	b.header("list_head", KindStruct, 2, false, 16)
	b.member("next", 6, 0)
	b.member("prev", 6, 8)

	b.header("", KindPtr, 0, false, 5)

	return b.build()
}
