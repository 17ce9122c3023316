package btf

import "fmt"

// Kind is the BTF_KIND_* discriminant stored in a type header's info word.
type Kind uint32

const (
	KindInt       Kind = 1
	KindPtr       Kind = 2
	KindArray     Kind = 3
	KindStruct    Kind = 4
	KindUnion     Kind = 5
	KindEnum      Kind = 6
	KindFwd       Kind = 7
	KindTypedef   Kind = 8
	KindVolatile  Kind = 9
	KindConst     Kind = 10
	KindRestrict  Kind = 11
	KindFunc      Kind = 12
	KindFuncProto Kind = 13
	KindVar       Kind = 14
	KindDataSec   Kind = 15
	KindFloat     Kind = 16
	KindDeclTag   Kind = 17
	KindTypeTag   Kind = 18
	KindEnum64    Kind = 19
)

// NewKind validates a raw kind value extracted from a type header.
func NewKind(value uint32) (Kind, error) {
	if value < uint32(KindInt) || value > uint32(KindEnum64) {
		return 0, NewError(ErrInvalidBTFKind, fmt.Sprintf("invalid BTF kind value: 0x%04X", value))
	}
	return Kind(value), nil
}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "BTF_KIND_INT"
	case KindPtr:
		return "BTF_KIND_PTR"
	case KindArray:
		return "BTF_KIND_ARRAY"
	case KindStruct:
		return "BTF_KIND_STRUCT"
	case KindUnion:
		return "BTF_KIND_UNION"
	case KindEnum:
		return "BTF_KIND_ENUM"
	case KindFwd:
		return "BTF_KIND_FWD"
	case KindTypedef:
		return "BTF_KIND_TYPEDEF"
	case KindVolatile:
		return "BTF_KIND_VOLATILE"
	case KindConst:
		return "BTF_KIND_CONST"
	case KindRestrict:
		return "BTF_KIND_RESTRICT"
	case KindFunc:
		return "BTF_KIND_FUNC"
	case KindFuncProto:
		return "BTF_KIND_FUNC_PROTO"
	case KindVar:
		return "BTF_KIND_VAR"
	case KindDataSec:
		return "BTF_KIND_DATASEC"
	case KindFloat:
		return "BTF_KIND_FLOAT"
	case KindDeclTag:
		return "BTF_KIND_DECL_TAG"
	case KindTypeTag:
		return "BTF_KIND_TYPE_TAG"
	case KindEnum64:
		return "BTF_KIND_ENUM64"
	default:
		return fmt.Sprintf("BTF_KIND_UNKNOWN(%d)", uint32(k))
	}
}
