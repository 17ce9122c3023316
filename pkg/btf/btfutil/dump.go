// Package btfutil adapts a decoded btf.TypeInformation into JSON-tagged
// result structs for dump/debug output, the way gopdb's pkg/pdb/types.go
// adapts its internal CodeView records into a flat reporting shape.
package btfutil

import (
	"fmt"

	"github.com/gobtf/gobtf/pkg/btf"
)

// TypeEntry is one row of a type dump: a type's id, kind, name, and (for
// sized kinds) its byte size.
type TypeEntry struct {
	ID      uint32       `json:"id"`
	Kind    string       `json:"kind"`
	Name    string       `json:"name,omitempty"`
	Size    uint32       `json:"size,omitempty"`
	Members []MemberInfo `json:"members,omitempty"`
}

// MemberInfo is one struct/union field in a TypeEntry.
type MemberInfo struct {
	Name   string `json:"name,omitempty"`
	TypeID uint32 `json:"type_id"`
	Offset string `json:"offset"`
}

// Dump builds one TypeEntry per id in ti, in ascending id order.
func Dump(ti *btf.TypeInformation) []TypeEntry {
	ids := ti.IDs()
	entries := make([]TypeEntry, 0, len(ids))

	for _, id := range ids {
		t, ok := ti.FromID(id)
		if !ok {
			continue
		}

		entry := TypeEntry{
			ID:   id,
			Kind: t.Kind().String(),
			Name: t.Name(),
		}

		if size, err := ti.SizeOf(id); err == nil {
			entry.Size = size
		}

		if members, ok := structMembers(t); ok {
			entry.Members = make([]MemberInfo, 0, len(members))
			for _, m := range members {
				entry.Members = append(entry.Members, MemberInfo{
					Name:   m.Name,
					TypeID: m.TypeID,
					Offset: m.Offset.String(),
				})
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

func structMembers(t btf.Type) ([]btf.Member, bool) {
	switch v := t.(type) {
	case btf.Struct:
		return v.Members, true
	case btf.Union:
		return v.Members, true
	default:
		return nil, false
	}
}

// FormatOffset renders a query offset the way the CLI prints it: a plain
// byte count, or "bit N, width W" for a bitfield member.
func FormatOffset(o btf.Offset) string {
	if o.IsBitfield() {
		return fmt.Sprintf("bit %d, width %d", o.BitOffset(), o.BitSize())
	}
	return fmt.Sprintf("%d", o.Bytes())
}
