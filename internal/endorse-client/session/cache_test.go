package session

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "session.json"), []byte("cache-secret"))

	_, ok, err := c.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, c.Save(Session{}))

	addr := common.HexToAddress("0xAa8155FE44F791EAFd06933cA76119D9d62E9DE0")
	require.NoError(t, c.Save(Session{Address: &addr, ChainID: big.NewInt(137), ConnectorID: "safepal"}))

	entry, ok, err := c.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "safepal", entry.ConnectorID)
	assert.Equal(t, addr.Hex(), entry.Address)
	assert.Equal(t, "137", entry.ChainID)

	other := NewCache(c.Path(), []byte("wrong"))
	_, _, err = other.Load()
	assert.Error(t, err)

	require.NoError(t, c.Clear())
	require.NoError(t, c.Clear())
	_, ok, err = c.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
