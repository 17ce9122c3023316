package btf

import (
	"encoding/binary"
)

// Endianness selects the byte order a Cursor decodes multi-byte integers
// with. BTF blobs declare their own endianness in the file header magic.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

// Cursor is a positioned, endian-aware reader over a Source. A failed
// read never advances the offset, so callers can retry at a different
// offset or report the original position in an error.
type Cursor struct {
	source     Source
	offset     uint64
	endianness Endianness
}

// NewCursor returns a Cursor over src starting at offset 0 in little-endian
// mode; call SetEndianness once the file header's magic has been decoded.
func NewCursor(src Source) *Cursor {
	return &Cursor{source: src, endianness: LittleEndian}
}

// Source returns the byte source this cursor reads from.
func (c *Cursor) Source() Source {
	return c.source
}

func (c *Cursor) Endianness() Endianness {
	return c.endianness
}

func (c *Cursor) SetEndianness(e Endianness) {
	c.endianness = e
}

func (c *Cursor) Offset() uint64 {
	return c.offset
}

func (c *Cursor) SetOffset(offset uint64) {
	c.offset = offset
}

// Read fills buf from the current offset and advances by len(buf). On
// error the offset is left unchanged.
func (c *Cursor) Read(buf []byte) error {
	if err := c.source.ReadAt(c.offset, buf); err != nil {
		return err
	}
	c.offset += uint64(len(buf))
	return nil
}

func (c *Cursor) order() binary.ByteOrder {
	if c.endianness == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (c *Cursor) U8() (uint8, error) {
	var buf [1]byte
	if err := c.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	var buf [2]byte
	if err := c.Read(buf[:]); err != nil {
		return 0, err
	}
	return c.order().Uint16(buf[:]), nil
}

func (c *Cursor) U32() (uint32, error) {
	var buf [4]byte
	if err := c.Read(buf[:]); err != nil {
		return 0, err
	}
	return c.order().Uint32(buf[:]), nil
}

func (c *Cursor) U64() (uint64, error) {
	var buf [8]byte
	if err := c.Read(buf[:]); err != nil {
		return 0, err
	}
	return c.order().Uint64(buf[:]), nil
}

func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

// Bytes reads n raw bytes without interpreting them.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
