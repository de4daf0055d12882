package nodeid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint(t *testing.T) {
	a := Mint("oce-CONT1-chan")

	assert.Equal(t, a, Mint("oce-CONT1-chan"))
	assert.NotEqual(t, a, Mint("oce-CONT1-other"))

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}
