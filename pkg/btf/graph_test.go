package btf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSourceBuildsSampleGraph(t *testing.T) {
	ti, err := FromSource(buildSampleGraph())
	require.NoError(t, err)

	require.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, ti.IDs())

	name, ok := ti.NameOf(3)
	require.True(t, ok)
	require.Equal(t, "Foo", name)

	id, ok := ti.IDOf("Foo")
	require.True(t, ok)
	require.Equal(t, uint32(3), id)

	voidName, ok := ti.NameOf(VoidTypeID)
	require.True(t, ok)
	require.Equal(t, "void", voidName)

	voidTy, ok := ti.FromID(VoidTypeID)
	require.True(t, ok)
	require.Equal(t, "void", voidTy.Name())
}

func TestFromSourceLastNameWins(t *testing.T) {
	b := newBlobBuilder()
	b.header("dup", KindFloat, 0, false, 4)
	b.header("dup", KindFloat, 0, false, 8)
	src := b.build()

	ti, err := FromSource(src)
	require.NoError(t, err)

	id, ok := ti.IDOf("dup")
	require.True(t, ok)
	require.Equal(t, uint32(2), id)
}

func TestFromSourceAbortsOnDecodeError(t *testing.T) {
	src := NewMemorySource([]byte{0x00, 0x00}) // too short for even a file header
	_, err := FromSource(src)
	require.Error(t, err)
}
