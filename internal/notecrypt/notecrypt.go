// Package notecrypt protects free-text note fields from casual disk
// inspection. Records are stored as "iv_hex:ciphertext_hex" using
// AES-256-CBC with a fresh random IV per call, matching the format already
// present in existing database files.
package notecrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "patrimonio/internal/errors"
)

// KeyFileName is the name of the key file kept beside the database file.
const KeyFileName = ".encryption_key"

const keySize = 32 // AES-256

// Keeper owns the symmetric key for note encryption. The key's lifetime
// equals the database's lifetime; losing the key file makes all previously
// encrypted notes permanently unreadable.
type Keeper struct {
	mu      sync.RWMutex
	key     []byte
	keyPath string
}

// LoadOrCreate loads the key file beside dbPath, generating and persisting
// a new random 256-bit key with owner-only permissions if none exists.
func LoadOrCreate(dbPath string) (*Keeper, error) {
	keyPath := filepath.Join(filepath.Dir(dbPath), KeyFileName)

	k := &Keeper{keyPath: keyPath}
	if err := k.Reload(); err == nil {
		return k, nil
	} else if !os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrFileSystem, err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFileSystem, err)
	}

	k.key = key
	return k, nil
}

// KeyPath returns the path of the key file.
func (k *Keeper) KeyPath() string {
	return k.keyPath
}

// Reload re-reads the key file from disk. Used after a restore replaces the
// key file. Returns the raw os error on read failure so callers can
// distinguish a missing file.
func (k *Keeper) Reload() error {
	raw, err := os.ReadFile(k.keyPath)
	if err != nil {
		return err
	}

	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("key file is not valid hex: %w", err)
	}
	if len(key) != keySize {
		return fmt.Errorf("key file holds %d bytes, want %d", len(key), keySize)
	}

	k.mu.Lock()
	k.key = key
	k.mu.Unlock()
	return nil
}

// Encrypt encrypts plaintext under a fresh random IV and returns the
// serialized "iv_hex:ciphertext_hex" record.
func (k *Keeper) Encrypt(plaintext string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	block, err := aes.NewCipher(k.key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt parses an "iv_hex:ciphertext_hex" record and returns the
// plaintext. Malformed records and padding failures (a corrupted record or
// a key that does not match) return DECRYPTION_FAILED.
func (k *Keeper) Decrypt(record string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	parts := strings.SplitN(record, ":", 2)
	if len(parts) != 2 {
		return "", apperrors.WithMessage(apperrors.ErrDecryptionFailed, "malformed ciphertext record")
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", apperrors.WithMessage(apperrors.ErrDecryptionFailed, "malformed IV")
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", apperrors.WithMessage(apperrors.ErrDecryptionFailed, "malformed ciphertext")
	}

	block, err := aes.NewCipher(k.key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
