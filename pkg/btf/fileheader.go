package btf

import "fmt"

const (
	magicLittleEndian uint16 = 0xEB9F
	magicBigEndian    uint16 = 0x9FEB

	typeHeaderSize = 12
)

// FileHeader is the fixed 24-byte BTF blob header: magic/version/flags
// followed by the type and string section bounds, all relative to the
// end of the header itself.
type FileHeader struct {
	Magic   uint16
	Version uint8
	Flags   uint8
	HdrLen  uint32
	TypeOff uint32
	TypeLen uint32
	StrOff  uint32
	StrLen  uint32

	// TypeSectionStart/TypeSectionEnd are absolute blob offsets, derived
	// once here so every subsequent decoder step bounds-checks against
	// them without repeating the addition.
	TypeSectionStart uint64
	TypeSectionEnd   uint64

	// StrSectionStart/StrSectionEnd are absolute blob offsets for the
	// string section.
	StrSectionStart uint64
	StrSectionEnd   uint64

	src Source
}

// Source returns the byte source this header (and its derived section
// bounds) were decoded from, so later decode steps can resolve strings
// and type records against the same backing store.
func (h *FileHeader) Source() Source {
	return h.src
}

// ReadFileHeader moves the cursor to offset 0 and decodes the BTF file
// header there, detecting endianness from the magic value
// and leaving the cursor configured with that endianness for subsequent
// reads.
func ReadFileHeader(c *Cursor) (*FileHeader, error) {
	c.SetOffset(0)

	magicBuf, err := c.Bytes(2)
	if err != nil {
		return nil, err
	}

	var magic uint16
	switch {
	case magicBuf[0] == 0x9F && magicBuf[1] == 0xEB:
		c.SetEndianness(LittleEndian)
		magic = magicLittleEndian
	case magicBuf[0] == 0xEB && magicBuf[1] == 0x9F:
		c.SetEndianness(BigEndian)
		magic = magicBigEndian
	default:
		return nil, NewError(ErrInvalidMagic, fmt.Sprintf("invalid BTF magic: 0x%02X%02X", magicBuf[0], magicBuf[1]))
	}

	version, err := c.U8()
	if err != nil {
		return nil, err
	}
	flags, err := c.U8()
	if err != nil {
		return nil, err
	}
	hdrLen, err := c.U32()
	if err != nil {
		return nil, err
	}
	typeOff, err := c.U32()
	if err != nil {
		return nil, err
	}
	typeLen, err := c.U32()
	if err != nil {
		return nil, err
	}
	strOff, err := c.U32()
	if err != nil {
		return nil, err
	}
	strLen, err := c.U32()
	if err != nil {
		return nil, err
	}

	h := &FileHeader{
		Magic:   magic,
		Version: version,
		Flags:   flags,
		HdrLen:  hdrLen,
		TypeOff: typeOff,
		TypeLen: typeLen,
		StrOff:  strOff,
		StrLen:  strLen,
	}

	// Section bounds are computed in the wire format's native 32-bit
	// domain, the way the original's u32 checked-add does: a blob whose
	// header claims offsets that would wrap a 32-bit counter is rejected
	// even though Go's uint64 accumulator would happily hold the sum.
	typeStart, overflow := addU32Checked(hdrLen, typeOff)
	if overflow {
		return nil, NewError(ErrInvalidTypeSectionOffset, "type section start offset overflow")
	}
	typeEnd, overflow := addU32Checked(typeStart, typeLen)
	if overflow {
		return nil, NewError(ErrInvalidTypeSectionOffset, "type section end offset overflow")
	}
	h.TypeSectionStart = uint64(typeStart)
	h.TypeSectionEnd = uint64(typeEnd)

	strStart, overflow := addU32Checked(hdrLen, strOff)
	if overflow {
		return nil, NewError(ErrInvalidStringOffset, "string section start offset overflow")
	}
	strEnd, overflow := addU32Checked(strStart, strLen)
	if overflow {
		return nil, NewError(ErrInvalidStringOffset, "string section end offset overflow")
	}
	h.StrSectionStart = uint64(strStart)
	h.StrSectionEnd = uint64(strEnd)

	h.src = c.Source()

	return h, nil
}

func addU64Checked(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}
