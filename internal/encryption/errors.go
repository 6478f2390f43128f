package encryption

import "errors"

var (
	// ErrEmptyData is returned when attempting to unpad empty data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")

	// ErrCipher is returned for a wrong password or corrupted ciphertext.
	ErrCipher = errors.New("cipher error")
	// ErrTransformFlushed is returned when data is fed to a transform after Flush.
	ErrTransformFlushed = errors.New("transform already flushed")

	// ErrInputNotFound is returned when a source file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrOutputCollision is returned when the output exists and overwriting is off.
	ErrOutputCollision = errors.New("output file already exists")
)
