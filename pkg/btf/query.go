package btf

import "fmt"

// resolveQualifiers strips transparent qualifier kinds (typedef, const,
// volatile, restrict, a forward declaration, a compiler type tag) until
// it reaches a type that actually carries structure or size, returning
// that type and its id.
func resolveQualifiers(g *TypeGraph, tid uint32) (Type, uint32, error) {
	for {
		t, ok := g.FromID(tid)
		if !ok {
			return nil, 0, invalidTypeIDError(tid)
		}

		switch v := t.(type) {
		case Typedef:
			tid = v.ReferencedTypeID
		case Const:
			tid = v.ReferencedTypeID
		case Volatile:
			tid = v.ReferencedTypeID
		case Restrict:
			tid = v.ReferencedTypeID
		case TypeTag:
			tid = v.ReferencedTypeID
		case Fwd:
			tid = v.ReferencedTypeID
		default:
			return t, tid, nil
		}
	}
}

// PointeeOf resolves qualifiers around tid and, if the result is a
// pointer, returns the id it points to.
func (ti *TypeInformation) PointeeOf(tid uint32) (uint32, error) {
	t, resolvedID, err := resolveQualifiers(ti.graph, tid)
	if err != nil {
		return 0, err
	}

	ptr, ok := t.(Ptr)
	if !ok {
		return 0, NewError(ErrInvalidTypeID, fmt.Sprintf("type %d (%s) is not a pointer", resolvedID, t.Kind()))
	}
	return ptr.PointeeTypeID, nil
}

// pointerSize infers the platform pointer width the kernel convention
// way: struct list_head holds exactly two pointers (next, prev), so its
// byte size halved gives the pointer width in use. BTF carries no
// explicit pointer-size field, so this is the only portable signal
// available without out-of-band configuration.
func (ti *TypeInformation) pointerSize() (uint32, error) {
	if ti.ptrSize != 0 {
		return ti.ptrSize, nil
	}

	id, ok := ti.graph.IDOf("list_head")
	if !ok {
		return 0, NewError(ErrInvalidTypeID, "cannot infer pointer size: no list_head type present")
	}

	t, _ := ti.graph.FromID(id)
	s, ok := t.(Struct)
	if !ok || len(s.Members) != 2 || s.ByteSize%2 != 0 {
		return 0, NewError(ErrInvalidTypeID, "cannot infer pointer size: list_head is not a two-pointer struct")
	}

	ti.ptrSize = s.ByteSize / 2
	return ti.ptrSize, nil
}

// SizeOf resolves qualifiers around tid and returns the byte size of the
// resulting type, per kind: pointers take their width from list_head,
// arrays multiply element size by count, other sized kinds report their
// declared size. Types that
// have no well-defined size (functions, prototypes, forward
// declarations, variables, section layouts, declaration tags) return
// ErrNotSized.
func (ti *TypeInformation) SizeOf(tid uint32) (uint32, error) {
	t, resolvedID, err := resolveQualifiers(ti.graph, tid)
	if err != nil {
		return 0, err
	}

	switch v := t.(type) {
	case Int:
		return v.ByteSize, nil
	case Ptr:
		return ti.pointerSize()
	case Array:
		elemSize, err := ti.SizeOf(v.ElementTypeID)
		if err != nil {
			return 0, err
		}
		total, overflow := mulU32Checked(v.ElementCount, elemSize)
		if overflow {
			return 0, NewError(ErrInvalidTypeHeaderAttribute, "array size overflow")
		}
		return total, nil
	case Struct:
		return v.ByteSize, nil
	case Union:
		return v.ByteSize, nil
	case Enum32:
		return v.ByteSize, nil
	case Enum64:
		return v.ByteSize, nil
	case Float:
		return v.ByteSize, nil
	case voidType:
		return 0, NewError(ErrNotSized, "void has no size")
	default:
		return 0, NewError(ErrNotSized, fmt.Sprintf("type %d (%s) is not sized", resolvedID, t.Kind()))
	}
}

// offsetErrorKind is a closed, unformatted taxonomy used only inside the
// offsetOf recursion: the per-probe failure path is hot (one attempt per
// anonymous member at every level), so it carries no message string
// until it is promoted to a public *Error at the OffsetOf/
// OffsetOfInNamedType boundary.
type offsetErrorKind int

const (
	offsetErrNotAStruct offsetErrorKind = iota
	offsetErrUnknownMember
	offsetErrNotAnArray
	offsetErrIndexOutOfBounds
)

type offsetError struct {
	kind   offsetErrorKind
	detail string
}

func (e offsetError) Error() string {
	return fmt.Sprintf("offset resolution failed (%d)", int(e.kind))
}

func (e offsetError) toPublic(path string) *Error {
	switch e.kind {
	case offsetErrNotAStruct:
		return NewError(ErrInvalidTypePath, fmt.Sprintf("path %q does not name a struct or union member at that point", path))
	case offsetErrUnknownMember:
		return NewError(ErrInvalidTypePath, fmt.Sprintf("no member named %q in path %q", e.detail, path))
	case offsetErrNotAnArray:
		return NewError(ErrInvalidTypePath, fmt.Sprintf("path %q indexes a non-array type", path))
	case offsetErrIndexOutOfBounds:
		return NewError(ErrInvalidTypePath, fmt.Sprintf("array index out of bounds in path %q", path))
	default:
		return NewError(ErrInvalidTypePath, fmt.Sprintf("invalid path %q", path))
	}
}

func membersOf(t Type) (members []Member, ok bool) {
	switch v := t.(type) {
	case Struct:
		return v.Members, true
	case Union:
		return v.Members, true
	default:
		return nil, false
	}
}

// offsetOfImpl walks the remaining components of it starting from tid,
// accumulating an Offset. For a name component, every anonymous
// (unnamed) struct/union member is probed in turn before any direct
// member match is tried: a clone of the iterator taken before the
// component was consumed is replayed against that member's type, so a
// failed probe leaves the original path prefix and position untouched
// for the next candidate. The first successful probe wins.
func (ti *TypeInformation) offsetOfImpl(tid uint32, it *PathComponentIter) (uint32, Offset, error) {
	accumulated := ByteOffset(0)
	currentID := tid

	for {
		preNext := *it
		comp, ok, lexErr := it.Next()
		if lexErr != nil {
			return 0, Offset{}, lexErr
		}
		if !ok {
			return currentID, accumulated, nil
		}

		t, _, err := resolveQualifiers(ti.graph, currentID)
		if err != nil {
			return 0, Offset{}, err
		}

		switch comp.Kind {
		case PathName:
			members, ok := membersOf(t)
			if !ok {
				return 0, Offset{}, offsetError{kind: offsetErrNotAStruct}
			}

			for _, m := range members {
				if m.Name != "" {
					continue
				}
				probeIter := preNext
				subID, subOffset, probeErr := ti.offsetOfImpl(m.TypeID, &probeIter)
				if probeErr != nil {
					continue
				}

				combined, addErr := accumulated.Add(m.Offset)
				if addErr != nil {
					return 0, Offset{}, addErr
				}
				combined, addErr = combined.Add(subOffset)
				if addErr != nil {
					return 0, Offset{}, addErr
				}
				return subID, combined, nil
			}

			matched := false
			for _, m := range members {
				if m.Name != comp.Name {
					continue
				}
				newAccumulated, addErr := accumulated.Add(m.Offset)
				if addErr != nil {
					return 0, Offset{}, addErr
				}
				accumulated = newAccumulated
				currentID = m.TypeID
				matched = true
				break
			}
			if matched {
				continue
			}

			return 0, Offset{}, offsetError{kind: offsetErrUnknownMember, detail: comp.Name}

		case PathIndex:
			arr, ok := t.(Array)
			if !ok {
				return 0, Offset{}, offsetError{kind: offsetErrNotAnArray}
			}
			if comp.Index < 0 || uint32(comp.Index) >= arr.ElementCount {
				return 0, Offset{}, offsetError{kind: offsetErrIndexOutOfBounds}
			}

			elemSize, sizeErr := ti.SizeOf(arr.ElementTypeID)
			if sizeErr != nil {
				return 0, Offset{}, sizeErr
			}
			idxBytes, overflow := mulU32Checked(uint32(comp.Index), elemSize)
			if overflow {
				return 0, Offset{}, NewError(ErrInvalidTypeHeaderAttribute, "array index offset overflow")
			}
			newAccumulated, addErr := accumulated.AddU32(idxBytes)
			if addErr != nil {
				return 0, Offset{}, addErr
			}
			accumulated = newAccumulated
			currentID = arr.ElementTypeID
		}
	}
}

// OffsetOf resolves path against tid, returning the id of the member the
// path names and its Offset from the start of tid.
func (ti *TypeInformation) OffsetOf(tid uint32, path string) (uint32, Offset, error) {
	if _, ok := ti.graph.FromID(tid); !ok {
		return 0, Offset{}, invalidTypeIDError(tid)
	}

	it := NewPathComponentIter(path)
	finalID, offset, err := ti.offsetOfImpl(tid, &it)
	if err != nil {
		if oe, ok := err.(offsetError); ok {
			return 0, Offset{}, oe.toPublic(path)
		}
		return 0, Offset{}, err
	}
	return finalID, offset, nil
}

// OffsetOfInNamedType looks up name and delegates to OffsetOf.
func (ti *TypeInformation) OffsetOfInNamedType(name, path string) (uint32, Offset, error) {
	tid, ok := ti.graph.IDOf(name)
	if !ok {
		return 0, Offset{}, NewError(ErrInvalidTypeID, fmt.Sprintf("no type named %q", name))
	}
	return ti.OffsetOf(tid, path)
}
