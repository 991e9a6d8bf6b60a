// Package keystore keeps signing keys on disk encrypted under a password.
//
// File format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, key||checksum)
// where key is the 32-byte secp256k1 scalar and checksum is SHA256(key)[:4].
package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for key encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4

	// FileExt is the extension of key files.
	FileExt = ".key"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// Encrypt seals priv under password.
func Encrypt(priv *ec.PrivateKey, password string) ([]byte, error) {
	if priv == nil {
		return nil, ErrNilKey
	}
	key := priv.Serialize()

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keystore: generate salt: %w", err)
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keystore: generate nonce: %w", err)
	}

	plaintext := make([]byte, 0, len(key)+ChecksumLen)
	plaintext = append(plaintext, key...)
	plaintext = append(plaintext, checksum(key)...)

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, SaltLen+NonceLen+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt opens data sealed by Encrypt.
func Decrypt(data []byte, password string) (*ec.PrivateKey, error) {
	if len(data) < SaltLen+NonceLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	salt := data[:SaltLen]
	nonce := data[SaltLen : SaltLen+NonceLen]
	ciphertext := data[SaltLen+NonceLen:]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil || len(plaintext) <= ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	key := plaintext[:len(plaintext)-ChecksumLen]
	if !bytes.Equal(plaintext[len(key):], checksum(key)) {
		return nil, ErrChecksumMismatch
	}
	priv, _ := ec.PrivateKeyFromBytes(key)
	return priv, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	derived := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("keystore: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: GCM creation failed: %w", err)
	}
	return gcm, nil
}

func checksum(key []byte) []byte {
	return bsvhash.Sha256(key)[:ChecksumLen]
}

// Path returns the file holding the key called name under dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+FileExt)
}

// Save encrypts priv and writes it to dir/name.key. Existing keys are never
// overwritten.
func Save(dir, name string, priv *ec.PrivateKey, password string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	data, err := Encrypt(priv, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("keystore: create directory: %w", err)
	}

	f, err := os.OpenFile(Path(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrKeyExists, name)
		}
		return fmt.Errorf("keystore: create key file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("keystore: write key file: %w", err)
	}
	return f.Close()
}

// Load reads and decrypts dir/name.key.
func Load(dir, name string, password string) (*ec.PrivateKey, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	data, err := os.ReadFile(Path(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
		}
		return nil, fmt.Errorf("keystore: read key file: %w", err)
	}
	return Decrypt(data, password)
}

// Generate creates a fresh key and saves it as dir/name.key.
func Generate(dir, name, password string) (*ec.PrivateKey, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("keystore: generate key: %w", err)
	}
	if err := Save(dir, name, priv, password); err != nil {
		return nil, err
	}
	return priv, nil
}
