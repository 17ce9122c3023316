package btf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewKindValidRange(t *testing.T) {
	for i := uint32(0); i <= 20; i++ {
		_, err := NewKind(i)
		if i == 0 || i == 20 {
			require.Errorf(t, err, "expected kind %d to be invalid", i)
		} else {
			require.NoErrorf(t, err, "expected kind %d to be valid", i)
		}
	}
}

func TestKindString(t *testing.T) {
	require.Equal(t, "BTF_KIND_STRUCT", KindStruct.String())
	require.Equal(t, "BTF_KIND_ENUM64", KindEnum64.String())
}
