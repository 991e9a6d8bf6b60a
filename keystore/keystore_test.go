package keystore

import (
	"os"
	"path/filepath"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *ec.PrivateKey {
	t.Helper()
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	return priv
}

func TestEncryptDecrypt(t *testing.T) {
	priv := newKey(t)

	data, err := Encrypt(priv, "hunter2")
	require.NoError(t, err)
	assert.Len(t, data, SaltLen+NonceLen+32+ChecksumLen+16) // 16-byte GCM tag

	got, err := Decrypt(data, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, priv.Serialize(), got.Serialize())
}

func TestEncrypt_FreshSaltEachTime(t *testing.T) {
	priv := newKey(t)
	a, err := Encrypt(priv, "pw")
	require.NoError(t, err)
	b, err := Encrypt(priv, "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncrypt_NilKey(t *testing.T) {
	_, err := Encrypt(nil, "pw")
	assert.ErrorIs(t, err, ErrNilKey)
}

func TestDecrypt_Failures(t *testing.T) {
	data, err := Encrypt(newKey(t), "right")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := Decrypt(data, "wrong")
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})
	t.Run("too short", func(t *testing.T) {
		_, err := Decrypt(data[:SaltLen+NonceLen], "right")
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})
	t.Run("tampered ciphertext", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-1] ^= 0xFF
		_, err := Decrypt(bad, "right")
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")
	priv := newKey(t)

	require.NoError(t, Save(dir, "author", priv, "pw"))

	info, err := os.Stat(Path(dir, "author"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := Load(dir, "author", "pw")
	require.NoError(t, err)
	assert.Equal(t, priv.PubKey().Compressed(), got.PubKey().Compressed())

	err = Save(dir, "author", newKey(t), "pw")
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir(), "nobody", "pw")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.ErrorIs(t, Save(dir, name, newKey(t), "pw"), ErrInvalidName, name)
		_, err := Load(dir, name, "pw")
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	priv, err := Generate(dir, "buyer", "pw")
	require.NoError(t, err)

	got, err := Load(dir, "buyer", "pw")
	require.NoError(t, err)
	assert.Equal(t, priv.Serialize(), got.Serialize())
}
