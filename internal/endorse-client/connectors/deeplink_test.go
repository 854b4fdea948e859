package connectors

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tonAddr = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"

func TestDeepLinkHandoffURL(t *testing.T) {
	d, err := NewDeepLink(Descriptor{ID: "tonkeeper"}, tonAddr, "")
	require.NoError(t, err)
	assert.Equal(t, KindExternalDeepLink, d.Descriptor().Kind)
	assert.True(t, d.Descriptor().Flags.Has(FlagDeepLink))
	assert.Equal(t, "ton://transfer/"+tonAddr, d.HandoffURL())

	d, err = NewDeepLink(Descriptor{ID: "tonkeeper"}, tonAddr, "endorse me")
	require.NoError(t, err)
	assert.Equal(t, "ton://transfer/"+tonAddr+"?text=endorse+me", d.HandoffURL())
}

func TestDeepLinkRejectsBadAddress(t *testing.T) {
	_, err := NewDeepLink(Descriptor{ID: "tonkeeper"}, "0xAa8155FE44F791EAFd06933cA76119D9d62E9DE0", "")
	assert.Error(t, err)
}

func TestDeepLinkHasNoInPageSession(t *testing.T) {
	d, err := NewDeepLink(Descriptor{ID: "tonkeeper"}, tonAddr, "")
	require.NoError(t, err)
	_, err = d.Connect(context.Background())
	assert.True(t, errors.Is(err, ErrHandoffOnly))
}
