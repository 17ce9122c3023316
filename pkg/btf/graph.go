package btf

import "fmt"

// VoidTypeID is the reserved id for the implicit "void" type. BTF never
// stores an entry for it; the graph synthesizes it on every lookup of id
// 0 instead.
const VoidTypeID uint32 = 0

// voidName is returned by NameOf for VoidTypeID.
const voidName = "void"

// TypeGraph is the fully-linked result of decoding a BTF blob's type
// section: every type reachable by sequential id, plus the name indexes
// the query engine and public API need.
type TypeGraph struct {
	header *FileHeader

	byID   map[uint32]Type
	ids    []uint32 // sorted ascending, mirrors the original's BTreeMap iteration order
	byName map[string]uint32
	nameOf map[uint32]string
}

// BuildTypeGraph decodes every type in the section described by header,
// assigning sequential ids starting at 1. A decode error at any type
// aborts the whole build: a BTF blob is either fully valid or unusable,
// there is no partial graph.
func BuildTypeGraph(c *Cursor, header *FileHeader) (*TypeGraph, error) {
	g := &TypeGraph{
		header: header,
		byID:   make(map[uint32]Type),
		byName: make(map[string]uint32),
		nameOf: make(map[uint32]string),
	}

	c.SetOffset(header.TypeSectionStart)

	var id uint32 = 1
	for c.Offset() < header.TypeSectionEnd {
		hdr, err := ReadTypeHeader(c, header)
		if err != nil {
			return nil, err
		}

		t, err := DecodeType(c, header, hdr)
		if err != nil {
			return nil, err
		}

		g.byID[id] = t
		g.ids = append(g.ids, id)

		if name := t.Name(); name != "" {
			// Last name wins: a later type with a duplicate name replaces
			// the earlier one in the name index, but both remain reachable
			// by id.
			g.byName[name] = id
			g.nameOf[id] = name
		}

		id++
	}

	return g, nil
}

// Get returns every decoded type, keyed by id. Callers that need the
// original's numeric iteration order should range over IDs() instead of
// this map.
func (g *TypeGraph) Get() map[uint32]Type {
	out := make(map[uint32]Type, len(g.byID))
	for id, t := range g.byID {
		out[id] = t
	}
	return out
}

// IDs returns every type id in ascending order (not including VoidTypeID).
func (g *TypeGraph) IDs() []uint32 {
	out := make([]uint32, len(g.ids))
	copy(out, g.ids)
	return out
}

// IDOf returns the id of the most-recently-defined type named name.
func (g *TypeGraph) IDOf(name string) (uint32, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// FromID returns the type stored at tid, or the synthetic Void value for
// VoidTypeID.
func (g *TypeGraph) FromID(tid uint32) (Type, bool) {
	if tid == VoidTypeID {
		return voidType{}, true
	}
	t, ok := g.byID[tid]
	return t, ok
}

// NameOf returns the name recorded for tid, "" if it was never named.
func (g *TypeGraph) NameOf(tid uint32) (string, bool) {
	if tid == VoidTypeID {
		return voidName, true
	}
	if _, ok := g.byID[tid]; !ok {
		return "", false
	}
	name, ok := g.nameOf[tid]
	return name, ok
}

// voidType is the implicit, unstored type that id 0 resolves to.
type voidType struct{}

func (voidType) Header() TypeHeader { return TypeHeader{} }
func (voidType) Kind() Kind         { return 0 }
func (voidType) Name() string       { return voidName }

func invalidTypeIDError(tid uint32) error {
	return NewError(ErrInvalidTypeID, fmt.Sprintf("invalid type id: %d", tid))
}
