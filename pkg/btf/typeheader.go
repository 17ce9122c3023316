package btf

// TypeHeader is the fixed 12-byte record prefixing every type in the
// type section: a name offset, a packed info word (vlen/kind/kind_flag),
// and a trailing word whose meaning (a size or a referenced type id)
// depends on the kind.
type TypeHeader struct {
	NameOffset uint32
	Vlen       uint16
	Kind       Kind
	KindFlag   bool
	SizeOrType uint32
}

// ReadTypeHeader reads one TypeHeader at the cursor's current offset,
// bounds-checking against the file header's type section end before
// attempting the read.
func ReadTypeHeader(c *Cursor, header *FileHeader) (TypeHeader, error) {
	if c.Offset()+typeHeaderSize > header.TypeSectionEnd {
		return TypeHeader{}, NewError(ErrInvalidTypeSectionOffset, "invalid type section offset")
	}

	nameOffset, err := c.U32()
	if err != nil {
		return TypeHeader{}, err
	}
	info, err := c.U32()
	if err != nil {
		return TypeHeader{}, err
	}
	sizeOrType, err := c.U32()
	if err != nil {
		return TypeHeader{}, err
	}

	rawKind := (info & 0x1F000000) >> 24
	kind, err := NewKind(rawKind)
	if err != nil {
		return TypeHeader{}, err
	}

	return TypeHeader{
		NameOffset: nameOffset,
		Vlen:       uint16(info & 0xFFFF),
		Kind:       kind,
		KindFlag:   (info & 0x80000000) != 0,
		SizeOrType: sizeOrType,
	}, nil
}
