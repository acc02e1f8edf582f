package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sjmackenzie/jormungandr/block0"
	"github.com/sjmackenzie/jormungandr/chain/keys"
	"github.com/sjmackenzie/jormungandr/cmd/block0/launcher"
	"github.com/sjmackenzie/jormungandr/genesis"
	"github.com/sjmackenzie/jormungandr/rules"
)

// End to end runs of the command line tool against temp files.

func testLeaderID(t *testing.T) string {
	raw := make([]byte, keys.PublicKeySize)
	for i := range raw {
		raw[i] = 0x5a
	}
	key, err := keys.FromBytes(raw)
	require.NoError(t, err)
	return key.String()
}

func writeConfig(t *testing.T, dir string) string {
	cfg := genesis.DefaultBFTConfig("test", testLeaderID(t))
	text, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(dir, "genesis.yaml")
	require.NoError(t, os.WriteFile(path, text, 0644))
	return path
}

func TestEncodeDecodeCycle(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	configPath := writeConfig(t, dir)
	blockPath := filepath.Join(dir, "block0.bin")
	decodedPath := filepath.Join(dir, "decoded.yaml")

	err := launcher.Launch([]string{"block0", "encode",
		"--input", configPath, "--output", blockPath})
	require.NoError(err)

	raw, err := os.ReadFile(blockPath)
	require.NoError(err)
	state, err := block0.Deserialize(raw)
	require.NoError(err)
	require.Equal(rules.ConsensusBFT, state.Settings.Consensus.Type())

	err = launcher.Launch([]string{"block0", "hash", "--input", blockPath})
	require.NoError(err)

	err = launcher.Launch([]string{"block0", "decode",
		"--input", blockPath, "--output", decodedPath})
	require.NoError(err)

	decoded, err := os.ReadFile(decodedPath)
	require.NoError(err)
	recompiled, err := block0.Compile(decoded)
	require.NoError(err)
	require.Equal(raw, recompiled)
}

func TestInitCompiles(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "starter.yaml")
	blockPath := filepath.Join(dir, "block0.bin")

	err := launcher.Launch([]string{"block0", "init",
		"--leader", testLeaderID(t), "--output", configPath})
	require.NoError(err)

	err = launcher.Launch([]string{"block0", "encode",
		"--input", configPath, "--output", blockPath})
	require.NoError(err)

	raw, err := os.ReadFile(blockPath)
	require.NoError(err)
	require.Equal(uint16(1), uint16(raw[0])<<8|uint16(raw[1]))
}

func TestEncodeRejectsBadConfig(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "bad.yaml")
	require.NoError(os.WriteFile(configPath, []byte("no_such_key: 1\n"), 0644))

	err := launcher.Launch([]string{"block0", "encode", "--input", configPath})
	require.Error(err)
}

func TestHashRejectsGarbage(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "garbage.bin")
	require.NoError(os.WriteFile(path, []byte{0x00, 0x01, 0xff, 0xfe}, 0644))

	err := launcher.Launch([]string{"block0", "hash", "--input", path})
	require.ErrorIs(err, block0.ErrTruncated)
}
