// Package btf decodes BPF Type Format blobs into a linked type graph and
// answers structural queries (size, pointee, member offset) against it.
package btf

// TypeInformation is the public facade over a decoded BTF blob: a
// FileHeader, the TypeGraph built from it, and the query methods layered
// on top (SizeOf, PointeeOf, OffsetOf, OffsetOfInNamedType).
type TypeInformation struct {
	header *FileHeader
	graph  *TypeGraph

	// ptrSize caches the result of the list_head pointer-size inference;
	// 0 means "not yet computed".
	ptrSize uint32
}

// FromSource decodes src as a complete BTF blob: the file header, then
// every type in the type section. A decode error anywhere aborts the
// whole build — there is no partially-usable TypeInformation.
func FromSource(src Source) (*TypeInformation, error) {
	c := NewCursor(src)

	header, err := ReadFileHeader(c)
	if err != nil {
		return nil, err
	}

	graph, err := BuildTypeGraph(c, header)
	if err != nil {
		return nil, err
	}

	return &TypeInformation{header: header, graph: graph}, nil
}

// Get returns every decoded type, keyed by id.
func (ti *TypeInformation) Get() map[uint32]Type {
	return ti.graph.Get()
}

// IDs returns every type id in ascending order.
func (ti *TypeInformation) IDs() []uint32 {
	return ti.graph.IDs()
}

// IDOf returns the id of the type named name.
func (ti *TypeInformation) IDOf(name string) (uint32, bool) {
	return ti.graph.IDOf(name)
}

// FromID returns the type stored at tid.
func (ti *TypeInformation) FromID(tid uint32) (Type, bool) {
	return ti.graph.FromID(tid)
}

// NameOf returns the name recorded for tid.
func (ti *TypeInformation) NameOf(tid uint32) (string, bool) {
	return ti.graph.NameOf(tid)
}

// Header returns the decoded file header.
func (ti *TypeInformation) Header() *FileHeader {
	return ti.header
}
