package encryption

import (
	"crypto/aes"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	// KeySize is the size of the derived AES-256 key.
	KeySize = 32
	// IVSize is the size of the IV, which also salts the key derivation.
	IVSize = aes.BlockSize
)

// scrypt work factors. Changing them breaks decryption of existing files.
const (
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// DeriveKey derives a KeySize key from password, salted with the IV.
// The same password and salt always yield the same key.
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(salt) != IVSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrCipher, IVSize, len(salt))
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving key: %v", ErrCipher, err) //nolint:errorlint // scrypt errors are parameter errors
	}

	return key, nil
}
