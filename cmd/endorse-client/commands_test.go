package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/levels"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func tempConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLevelsCommand(t *testing.T) {
	out, err := execute(t, "levels")
	require.NoError(t, err)

	var opts []levels.Option
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.Len(t, opts, 11)
}

func TestConnectorsCommand(t *testing.T) {
	cfg := tempConfig(t, "SessionCache:\n  Enabled: false\n")
	out, err := execute(t, "--config", cfg, "connectors")
	require.NoError(t, err)

	var ds []connectors.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	require.Len(t, ds, 3)
	assert.Equal(t, connectors.KindExternalDeepLink, ds[2].Kind)
}

func TestArgumentValidation(t *testing.T) {
	_, err := execute(t, "endorse-user", "0xabc")
	assert.Error(t, err)

	_, err = execute(t, "endorse-dao", "0x00000000000000000000000000000000000000b0", "12")
	assert.ErrorIs(t, err, levels.ErrOutOfRange)

	_, err = execute(t, "probe")
	assert.Error(t, err)

	_, err = execute(t, "probe", "ftp://node.example")
	assert.ErrorContains(t, err, "unsupported rpc url scheme")
}

func TestStatsRejectsHandoffConnector(t *testing.T) {
	cfg := tempConfig(t, "SessionCache:\n  Enabled: false\n")
	_, err := execute(t, "--config", cfg, "stats", "0x00000000000000000000000000000000000000b0", "--connector", "tonkeeper")
	assert.ErrorContains(t, err, "hands off")
}
