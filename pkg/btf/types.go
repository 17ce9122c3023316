package btf

import "fmt"

// Type is implemented by every decoded BTF kind. Header gives access to
// the raw fixed fields every kind shares; Kind and Name are the two most
// commonly needed of those fields, promoted for convenience.
type Type interface {
	Header() TypeHeader
	Kind() Kind
	Name() string
}

type base struct {
	header TypeHeader
	name   string
}

func (b base) Header() TypeHeader { return b.header }
func (b base) Kind() Kind         { return b.header.Kind }
func (b base) Name() string       { return b.name }

// IntEncoding is the bit-or of BTF_INT_* flags packed into an Int's extra
// info word.
type IntEncoding uint32

const (
	IntSigned IntEncoding = 1 << iota
	IntChar
	IntBool
)

// Int is BTF_KIND_INT: an integer type, possibly a sub-byte bitfield
// (BitOffset/Bits) packed within a larger host integer (ByteSize).
type Int struct {
	base
	ByteSize  uint32
	Encoding  IntEncoding
	BitOffset uint32
	Bits      uint32
}

func (i Int) Signed() bool { return i.Encoding&IntSigned != 0 }
func (i Int) Char() bool   { return i.Encoding&IntChar != 0 }
func (i Int) Bool() bool   { return i.Encoding&IntBool != 0 }

func decodeInt(c *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	extra, err := c.U32()
	if err != nil {
		return nil, err
	}
	return Int{
		base:      base{hdr, name},
		ByteSize:  hdr.SizeOrType,
		Encoding:  IntEncoding((extra >> 24) & 0x0F),
		BitOffset: (extra >> 16) & 0xFF,
		Bits:      extra & 0xFF,
	}, nil
}

// Ptr is BTF_KIND_PTR: a pointer to PointeeTypeID. Never named.
type Ptr struct {
	base
	PointeeTypeID uint32
}

func decodePtr(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Ptr{base{hdr, name}, hdr.SizeOrType}, nil
}

// Array is BTF_KIND_ARRAY: ElementCount elements of ElementTypeID, indexed
// by IndexTypeID. Never named.
type Array struct {
	base
	ElementTypeID uint32
	IndexTypeID   uint32
	ElementCount  uint32
}

func decodeArray(c *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	elementTypeID, err := c.U32()
	if err != nil {
		return nil, err
	}
	indexTypeID, err := c.U32()
	if err != nil {
		return nil, err
	}
	elementCount, err := c.U32()
	if err != nil {
		return nil, err
	}
	return Array{base{hdr, name}, elementTypeID, indexTypeID, elementCount}, nil
}

// Member is one field of a Struct or Union.
type Member struct {
	Name   string
	TypeID uint32
	Offset Offset
}

func decodeMembers(c *Cursor, fh *FileHeader, hdr TypeHeader) ([]Member, error) {
	members := make([]Member, 0, hdr.Vlen)
	for i := uint16(0); i < hdr.Vlen; i++ {
		nameOffset, err := c.U32()
		if err != nil {
			return nil, err
		}
		typeID, err := c.U32()
		if err != nil {
			return nil, err
		}
		raw, err := c.U32()
		if err != nil {
			return nil, err
		}

		name, err := ResolveString(fh.Source(), fh, nameOffset)
		if err != nil {
			return nil, err
		}

		var offset Offset
		if !hdr.KindFlag {
			offset = ByteOffset(raw / 8)
		} else {
			bitOffset := raw & 0xFFFFFF
			bitSize := (raw >> 24) & 0xFF
			if bitSize == 0 {
				offset = ByteOffset(bitOffset / 8)
			} else {
				offset = BitOffsetAndSize(bitOffset, bitSize)
			}
		}

		members = append(members, Member{Name: name, TypeID: typeID, Offset: offset})
	}
	return members, nil
}

// Struct is BTF_KIND_STRUCT.
type Struct struct {
	base
	ByteSize uint32
	Members  []Member
}

func decodeStruct(c *Cursor, fh *FileHeader, hdr TypeHeader, name string) (Type, error) {
	members, err := decodeMembers(c, fh, hdr)
	if err != nil {
		return nil, err
	}
	return Struct{base{hdr, name}, hdr.SizeOrType, members}, nil
}

// Union is BTF_KIND_UNION.
type Union struct {
	base
	ByteSize uint32
	Members  []Member
}

func decodeUnion(c *Cursor, fh *FileHeader, hdr TypeHeader, name string) (Type, error) {
	members, err := decodeMembers(c, fh, hdr)
	if err != nil {
		return nil, err
	}
	return Union{base{hdr, name}, hdr.SizeOrType, members}, nil
}

// NamedValue32 is one enumerator of an Enum32.
type NamedValue32 struct {
	Name  string
	Value uint32
}

// SignedValue reinterprets Value as signed; valid only when the owning
// Enum32 is Signed.
func (v NamedValue32) SignedValue() int32 { return int32(v.Value) }

// Enum32 is BTF_KIND_ENUM: a 32-bit enumerated type.
type Enum32 struct {
	base
	ByteSize uint32
	Signed   bool
	Values   []NamedValue32
}

func decodeEnum32(c *Cursor, fh *FileHeader, hdr TypeHeader, name string) (Type, error) {
	values := make([]NamedValue32, 0, hdr.Vlen)
	for i := uint16(0); i < hdr.Vlen; i++ {
		nameOffset, err := c.U32()
		if err != nil {
			return nil, err
		}
		value, err := c.U32()
		if err != nil {
			return nil, err
		}
		valueName, err := ResolveString(fh.Source(), fh, nameOffset)
		if err != nil {
			return nil, err
		}
		values = append(values, NamedValue32{Name: valueName, Value: value})
	}
	return Enum32{base{hdr, name}, hdr.SizeOrType, hdr.KindFlag, values}, nil
}

// NamedValue64 is one enumerator of an Enum64.
type NamedValue64 struct {
	Name  string
	Value uint64
}

func (v NamedValue64) SignedValue() int64 { return int64(v.Value) }

// Enum64 is BTF_KIND_ENUM64.
type Enum64 struct {
	base
	ByteSize uint32
	Signed   bool
	Values   []NamedValue64
}

func decodeEnum64(c *Cursor, fh *FileHeader, hdr TypeHeader, name string) (Type, error) {
	values := make([]NamedValue64, 0, hdr.Vlen)
	for i := uint16(0); i < hdr.Vlen; i++ {
		nameOffset, err := c.U32()
		if err != nil {
			return nil, err
		}
		lo, err := c.U32()
		if err != nil {
			return nil, err
		}
		hi, err := c.U32()
		if err != nil {
			return nil, err
		}
		valueName, err := ResolveString(fh.Source(), fh, nameOffset)
		if err != nil {
			return nil, err
		}
		values = append(values, NamedValue64{Name: valueName, Value: uint64(hi)<<32 | uint64(lo)})
	}
	return Enum64{base{hdr, name}, hdr.SizeOrType, hdr.KindFlag, values}, nil
}

// Fwd is BTF_KIND_FWD: a forward declaration of a struct or union with no
// known layout yet (NotSized).
type Fwd struct {
	base
	ReferencedTypeID uint32
	isUnion          bool
}

// IsUnion reports whether this forward-declares a union rather than a
// struct; informational only, since Fwd is treated identically either
// way by every query.
func (f Fwd) IsUnion() bool { return f.isUnion }

func decodeFwd(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Fwd{base{hdr, name}, hdr.SizeOrType, hdr.KindFlag}, nil
}

// Typedef is BTF_KIND_TYPEDEF: an alias name for ReferencedTypeID.
type Typedef struct {
	base
	ReferencedTypeID uint32
}

func decodeTypedef(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Typedef{base{hdr, name}, hdr.SizeOrType}, nil
}

// Volatile is BTF_KIND_VOLATILE: a transparent qualifier over ReferencedTypeID.
type Volatile struct {
	base
	ReferencedTypeID uint32
}

func decodeVolatile(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Volatile{base{hdr, name}, hdr.SizeOrType}, nil
}

// Const is BTF_KIND_CONST: a transparent qualifier over ReferencedTypeID.
type Const struct {
	base
	ReferencedTypeID uint32
}

func decodeConst(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Const{base{hdr, name}, hdr.SizeOrType}, nil
}

// Restrict is BTF_KIND_RESTRICT: a transparent qualifier over ReferencedTypeID.
type Restrict struct {
	base
	ReferencedTypeID uint32
}

func decodeRestrict(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Restrict{base{hdr, name}, hdr.SizeOrType}, nil
}

// FuncLinkage mirrors the kernel's BTF_FUNC_* linkage values, packed into
// a Func's vlen field.
type FuncLinkage uint16

const (
	FuncLinkageStatic FuncLinkage = iota
	FuncLinkageGlobal
	FuncLinkageExtern
)

// Func is BTF_KIND_FUNC: a named function whose prototype is
// ProtoTypeID (a FuncProto).
type Func struct {
	base
	ProtoTypeID uint32
	Linkage     FuncLinkage
}

func decodeFuncKind(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Func{base{hdr, name}, hdr.SizeOrType, FuncLinkage(hdr.Vlen)}, nil
}

// Parameter is one argument of a FuncProto. IsVariadic is set for the
// trailing "..." marker, which carries no name or type.
type Parameter struct {
	Name       string
	TypeID     uint32
	IsVariadic bool
}

// FuncProto is BTF_KIND_FUNC_PROTO: a function signature, never named.
type FuncProto struct {
	base
	ReturnTypeID uint32
	Parameters   []Parameter
}

func decodeFuncProto(c *Cursor, fh *FileHeader, hdr TypeHeader, name string) (Type, error) {
	params := make([]Parameter, 0, hdr.Vlen)
	for i := uint16(0); i < hdr.Vlen; i++ {
		nameOffset, err := c.U32()
		if err != nil {
			return nil, err
		}
		typeID, err := c.U32()
		if err != nil {
			return nil, err
		}
		paramName, err := ResolveString(fh.Source(), fh, nameOffset)
		if err != nil {
			return nil, err
		}
		params = append(params, Parameter{Name: paramName, TypeID: typeID, IsVariadic: typeID == 0})
	}
	return FuncProto{base{hdr, name}, hdr.SizeOrType, params}, nil
}

// VarLinkage mirrors the kernel's BTF_VAR_* linkage values.
type VarLinkage uint32

const (
	VarLinkageStatic VarLinkage = iota
	VarLinkageGlobalAlloc
	VarLinkageGlobalExtern
)

// Var is BTF_KIND_VAR: a named variable declaration of ReferencedTypeID.
type Var struct {
	base
	ReferencedTypeID uint32
	Linkage          VarLinkage
}

func decodeVar(c *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	linkage, err := c.U32()
	if err != nil {
		return nil, err
	}
	return Var{base{hdr, name}, hdr.SizeOrType, VarLinkage(linkage)}, nil
}

// DataSecVariable is one entry of a DataSec's layout table.
type DataSecVariable struct {
	TypeID uint32
	Offset uint32
	Size   uint32
}

// DataSec is BTF_KIND_DATASEC: the layout of a named ELF section as a
// list of the variables placed within it.
type DataSec struct {
	base
	ByteSize  uint32
	Variables []DataSecVariable
}

func decodeDataSec(c *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	variables := make([]DataSecVariable, 0, hdr.Vlen)
	for i := uint16(0); i < hdr.Vlen; i++ {
		typeID, err := c.U32()
		if err != nil {
			return nil, err
		}
		offset, err := c.U32()
		if err != nil {
			return nil, err
		}
		size, err := c.U32()
		if err != nil {
			return nil, err
		}
		variables = append(variables, DataSecVariable{TypeID: typeID, Offset: offset, Size: size})
	}
	return DataSec{base{hdr, name}, hdr.SizeOrType, variables}, nil
}

// Float is BTF_KIND_FLOAT: a floating point type of ByteSize bytes.
type Float struct {
	base
	ByteSize uint32
}

func decodeFloat(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return Float{base{hdr, name}, hdr.SizeOrType}, nil
}

// DeclTag is BTF_KIND_DECL_TAG: attaches a compiler tag (the type's Name)
// to ReferencedTypeID, or to one of its struct/union members when
// ComponentIndex is >= 0.
type DeclTag struct {
	base
	ReferencedTypeID uint32
	ComponentIndex   int32
}

// AppliesToWholeType reports whether this tag targets ReferencedTypeID
// itself rather than one of its members.
func (d DeclTag) AppliesToWholeType() bool { return d.ComponentIndex < 0 }

func decodeDeclTag(c *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	componentIndex, err := c.I32()
	if err != nil {
		return nil, err
	}
	return DeclTag{base{hdr, name}, hdr.SizeOrType, componentIndex}, nil
}

// TypeTag is BTF_KIND_TYPE_TAG: attaches a compiler tag (the type's Name)
// to ReferencedTypeID, transparently like a qualifier.
type TypeTag struct {
	base
	ReferencedTypeID uint32
}

func decodeTypeTag(_ *Cursor, _ *FileHeader, hdr TypeHeader, name string) (Type, error) {
	return TypeTag{base{hdr, name}, hdr.SizeOrType}, nil
}

type kindDecoder func(c *Cursor, fh *FileHeader, hdr TypeHeader, name string) (Type, error)

var decoders = map[Kind]kindDecoder{
	KindInt:       decodeInt,
	KindPtr:       decodePtr,
	KindArray:     decodeArray,
	KindStruct:    decodeStruct,
	KindUnion:     decodeUnion,
	KindEnum:      decodeEnum32,
	KindFwd:       decodeFwd,
	KindTypedef:   decodeTypedef,
	KindVolatile:  decodeVolatile,
	KindConst:     decodeConst,
	KindRestrict:  decodeRestrict,
	KindFunc:      decodeFuncKind,
	KindFuncProto: decodeFuncProto,
	KindVar:       decodeVar,
	KindDataSec:   decodeDataSec,
	KindFloat:     decodeFloat,
	KindDeclTag:   decodeDeclTag,
	KindTypeTag:   decodeTypeTag,
	KindEnum64:    decodeEnum64,
}

// DecodeType resolves hdr's name and dispatches to the per-kind decoder,
// advancing c past hdr's variable-length trailing data.
func DecodeType(c *Cursor, fh *FileHeader, hdr TypeHeader) (Type, error) {
	name, err := ResolveString(fh.Source(), fh, hdr.NameOffset)
	if err != nil {
		return nil, err
	}

	decode, ok := decoders[hdr.Kind]
	if !ok {
		return nil, NewError(ErrUnsupportedType, fmt.Sprintf("unsupported BTF kind: %s", hdr.Kind))
	}
	return decode(c, fh, hdr, name)
}
