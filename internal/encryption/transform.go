package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"math"
)

// Direction selects whether a Transform encrypts or decrypts.
type Direction int

const (
	// Encrypt turns compressed plaintext into IV-prefixed ciphertext.
	Encrypt Direction = iota
	// Decrypt consumes an IV-prefixed ciphertext.
	Decrypt
)

func (d Direction) String() string {
	if d == Decrypt {
		return "Decryption"
	}

	return "Encryption"
}

// State is the lifecycle position of a Transform.
type State int

const (
	// StateAwaitingFirstChunk is the state before any data was stepped.
	StateAwaitingFirstChunk State = iota
	// StateStreaming is the state once the IV was emitted or consumed.
	StateStreaming
	// StateFlushed is the state after the final block was produced.
	StateFlushed
	// StateClosed is the state after the key material was discarded.
	StateClosed
)

// ProgressUnknown is reported when the processed byte count exceeds the estimate.
const ProgressUnknown = -1

// Transform is a streaming AES-256-CBC engine with PKCS#7 padding.
//
// Encrypting, the IV is generated and the key derived at construction, and
// the IV is emitted ahead of the first ciphertext. Decrypting, the first
// IVSize bytes are taken as the IV regardless of how the input is chunked,
// and the key is derived only once they have arrived.
//
// A Transform is not safe for concurrent use.
type Transform struct {
	direction Direction
	state     State

	password []byte
	iv       []byte
	key      []byte
	mode     cipher.BlockMode

	// pending holds the partial IV while awaiting the first chunk,
	// and afterwards the bytes not yet forming a releasable block.
	pending []byte

	processed int64
	total     int64
}

// NewEncryptTransform returns an encrypting Transform with a fresh random IV.
// total is the expected number of input bytes, used for progress only.
func NewEncryptTransform(password []byte, total int64) (*Transform, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	return newEncryptTransform(password, iv, total)
}

func newEncryptTransform(password, iv []byte, total int64) (*Transform, error) {
	key, err := DeriveKey(password, iv)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %v", ErrCipher, err) //nolint:errorlint
	}

	return &Transform{
		direction: Encrypt,
		iv:        iv,
		key:       key,
		mode:      cipher.NewCBCEncrypter(block, iv),
		total:     total,
	}, nil
}

// NewDecryptTransform returns a decrypting Transform. Key derivation is
// deferred until the IV has been read from the stream.
func NewDecryptTransform(password []byte, total int64) *Transform {
	pw := make([]byte, len(password))
	copy(pw, password)

	return &Transform{
		direction: Decrypt,
		password:  pw,
		pending:   make([]byte, 0, IVSize),
		total:     total,
	}
}

// Direction reports whether t encrypts or decrypts.
func (t *Transform) Direction() Direction {
	return t.direction
}

// State reports the lifecycle state of t.
func (t *Transform) State() State {
	return t.state
}

// IV returns the IV in use, or nil if a decrypting transform has not read it yet.
func (t *Transform) IV() []byte {
	return t.iv
}

// Processed returns the number of bytes fed through the cipher so far.
func (t *Transform) Processed() int64 {
	return t.processed
}

// Progress returns the rounded percentage of processed to total bytes,
// or ProgressUnknown if the total is unknown or has been exceeded.
func (t *Transform) Progress() int {
	if t.total <= 0 || t.processed > t.total {
		return ProgressUnknown
	}

	percent := int(math.Round(float64(t.processed) / float64(t.total) * 100)) //nolint:mnd

	if percent > 100 { //nolint:mnd
		return ProgressUnknown
	}

	return percent
}

// Step feeds one chunk through the transform and returns the bytes ready to
// be written. The returned slice is freshly allocated.
func (t *Transform) Step(chunk []byte) ([]byte, error) {
	switch t.state {
	case StateFlushed, StateClosed:
		return nil, ErrTransformFlushed
	case StateAwaitingFirstChunk:
		if t.direction == Encrypt {
			t.state = StateStreaming

			out := make([]byte, 0, IVSize+len(chunk)+aes.BlockSize)
			out = append(out, t.iv...)

			return t.encrypt(out, chunk), nil
		}

		rest, err := t.consumeIV(chunk)
		if err != nil || t.state == StateAwaitingFirstChunk {
			return nil, err
		}

		return t.decrypt(rest), nil
	}

	if t.direction == Encrypt {
		return t.encrypt(nil, chunk), nil
	}

	return t.decrypt(chunk), nil
}

// Flush produces the final block. Encrypting, this is the padded tail;
// decrypting, the last block is decrypted and its padding validated.
func (t *Transform) Flush() ([]byte, error) {
	switch t.state {
	case StateFlushed, StateClosed:
		return nil, ErrTransformFlushed
	case StateAwaitingFirstChunk:
		if t.direction == Decrypt {
			return nil, fmt.Errorf("%w: ciphertext shorter than the %d-byte IV", ErrCipher, IVSize)
		}
	}

	if t.direction == Encrypt {
		var out []byte

		if t.state == StateAwaitingFirstChunk {
			out = append(out, t.iv...)
		}

		padded := pkcs7Pad(t.pending, aes.BlockSize)
		tail := make([]byte, len(padded))
		t.mode.CryptBlocks(tail, padded)

		t.pending = nil
		t.state = StateFlushed

		return append(out, tail...), nil
	}

	if len(t.pending) != aes.BlockSize {
		return nil, fmt.Errorf("%w: %w", ErrCipher, ErrInvalidBlockSize)
	}

	last := make([]byte, aes.BlockSize)
	t.mode.CryptBlocks(last, t.pending)

	unpadded, err := pkcs7Unpad(last)
	if err != nil {
		return nil, fmt.Errorf("%w: removing padding: %w", ErrCipher, err)
	}

	t.pending = nil
	t.state = StateFlushed

	return unpadded, nil
}

// Close discards the key material. It is safe to call more than once.
func (t *Transform) Close() {
	clear(t.key)
	clear(t.password)

	t.key = nil
	t.password = nil
	t.mode = nil
	t.pending = nil
	t.state = StateClosed
}

// consumeIV collects IV bytes from chunk. Once the IV is complete the key is
// derived, the state advances to streaming and the remainder of chunk is returned.
func (t *Transform) consumeIV(chunk []byte) ([]byte, error) {
	need := IVSize - len(t.pending)
	if len(chunk) < need {
		t.pending = append(t.pending, chunk...)

		return nil, nil
	}

	t.iv = append(t.pending, chunk[:need]...)
	t.pending = nil

	key, err := DeriveKey(t.password, t.iv)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %v", ErrCipher, err) //nolint:errorlint
	}

	clear(t.password)

	t.password = nil
	t.key = key
	t.mode = cipher.NewCBCDecrypter(block, t.iv)
	t.state = StateStreaming

	return chunk[need:], nil
}

// encrypt appends the ciphertext of all complete blocks to out.
// PKCS#7 always pads, so every complete block can be released at once.
func (t *Transform) encrypt(out, chunk []byte) []byte {
	t.processed += int64(len(chunk))
	t.pending = append(t.pending, chunk...)

	n := len(t.pending) - len(t.pending)%aes.BlockSize
	if n == 0 {
		return out
	}

	start := len(out)
	out = append(out, make([]byte, n)...)
	t.mode.CryptBlocks(out[start:], t.pending[:n])

	t.pending = append(t.pending[:0], t.pending[n:]...)

	return out
}

// decrypt returns the plaintext of all complete blocks but the last,
// which is held back until Flush strips its padding.
func (t *Transform) decrypt(chunk []byte) []byte {
	t.processed += int64(len(chunk))
	t.pending = append(t.pending, chunk...)

	n := len(t.pending) - len(t.pending)%aes.BlockSize
	if n == len(t.pending) {
		n -= aes.BlockSize
	}

	if n <= 0 {
		return nil
	}

	out := make([]byte, n)
	t.mode.CryptBlocks(out, t.pending[:n])

	t.pending = append(t.pending[:0], t.pending[n:]...)

	return out
}
