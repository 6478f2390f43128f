package encryption_test

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/idelchi/secfile/internal/encryption"
)

var password = []byte("hunter2")

// feed steps data through tr in chunks of size n and flushes.
func feed(t *testing.T, tr *encryption.Transform, data []byte, n int) ([]byte, error) {
	t.Helper()

	var out bytes.Buffer

	for len(data) > 0 {
		size := min(n, len(data))

		chunk, err := tr.Step(data[:size])
		if err != nil {
			return nil, err
		}

		out.Write(chunk)

		data = data[size:]
	}

	tail, err := tr.Flush()
	if err != nil {
		return nil, err
	}

	out.Write(tail)

	tr.Close()

	return out.Bytes(), nil
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	data := make([]byte, n)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}

	return data
}

func TestTransformRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size    int
		encStep int
		decStep int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{15, 4, 3},
		{16, 16, 16},
		{17, 5, 1},
		{1000, 7, 33},
		{100_000, 4096, 16},
		{100_000, 32 * 1024, 1000},
	}

	for _, tc := range tests {
		plaintext := randomBytes(t, tc.size)

		enc, err := encryption.NewEncryptTransform(password, int64(tc.size))
		if err != nil {
			t.Fatalf("NewEncryptTransform: %v", err)
		}

		ciphertext, err := feed(t, enc, plaintext, tc.encStep)
		if err != nil {
			t.Fatalf("encrypting %d bytes: %v", tc.size, err)
		}

		wantLen := encryption.IVSize + (tc.size/aes.BlockSize+1)*aes.BlockSize
		if len(ciphertext) != wantLen {
			t.Errorf("ciphertext of %d bytes has length %d, want %d", tc.size, len(ciphertext), wantLen)
		}

		dec := encryption.NewDecryptTransform(password, int64(len(ciphertext)-encryption.IVSize))

		got, err := feed(t, dec, ciphertext, tc.decStep)
		if err != nil {
			t.Fatalf("decrypting %d bytes: %v", tc.size, err)
		}

		if !bytes.Equal(got, plaintext) {
			t.Errorf("round trip of %d bytes differs", tc.size)
		}
	}
}

func TestTransformIVPreamble(t *testing.T) {
	t.Parallel()

	enc, err := encryption.NewEncryptTransform(password, 3)
	if err != nil {
		t.Fatal(err)
	}

	iv := append([]byte(nil), enc.IV()...)

	out, err := enc.Step([]byte("abc"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(out, iv) {
		t.Errorf("first output = %x, want the IV %x alone", out, iv)
	}

	other, err := encryption.NewEncryptTransform(password, 3)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(other.IV(), iv) {
		t.Error("two transforms share an IV")
	}
}

func TestTransformStates(t *testing.T) {
	t.Parallel()

	enc, err := encryption.NewEncryptTransform(password, 0)
	if err != nil {
		t.Fatal(err)
	}

	if enc.State() != encryption.StateAwaitingFirstChunk {
		t.Fatalf("initial state = %v", enc.State())
	}

	if _, err := enc.Step([]byte("x")); err != nil {
		t.Fatal(err)
	}

	if enc.State() != encryption.StateStreaming {
		t.Fatalf("state after step = %v", enc.State())
	}

	if _, err := enc.Flush(); err != nil {
		t.Fatal(err)
	}

	if enc.State() != encryption.StateFlushed {
		t.Fatalf("state after flush = %v", enc.State())
	}

	if _, err := enc.Step([]byte("x")); !errors.Is(err, encryption.ErrTransformFlushed) {
		t.Errorf("Step after Flush error = %v", err)
	}

	enc.Close()

	if enc.State() != encryption.StateClosed {
		t.Fatalf("state after close = %v", enc.State())
	}

	if _, err := enc.Flush(); !errors.Is(err, encryption.ErrTransformFlushed) {
		t.Errorf("Flush after Close error = %v", err)
	}
}

func TestDecryptAwaitsIV(t *testing.T) {
	t.Parallel()

	dec := encryption.NewDecryptTransform(password, 32)

	out, err := dec.Step(make([]byte, encryption.IVSize-1))
	if err != nil || len(out) != 0 {
		t.Fatalf("Step of a partial IV = %x, %v", out, err)
	}

	if dec.State() != encryption.StateAwaitingFirstChunk || dec.IV() != nil {
		t.Fatalf("state = %v, IV = %x; want still awaiting", dec.State(), dec.IV())
	}

	if _, err := dec.Step([]byte{0, 1, 2}); err != nil {
		t.Fatal(err)
	}

	if dec.State() != encryption.StateStreaming || len(dec.IV()) != encryption.IVSize {
		t.Fatalf("state = %v, IV = %x; want streaming", dec.State(), dec.IV())
	}

	if dec.Processed() != 2 {
		t.Errorf("Processed() = %d, want the 2 bytes past the IV", dec.Processed())
	}
}

func TestDecryptTruncated(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"empty":            nil,
		"partial IV":       make([]byte, 10),
		"IV only":          make([]byte, encryption.IVSize),
		"unaligned blocks": make([]byte, encryption.IVSize+aes.BlockSize+3),
	}

	for desc, data := range tests {
		dec := encryption.NewDecryptTransform(password, 0)

		if _, err := feed(t, dec, data, 7); !errors.Is(err, encryption.ErrCipher) {
			t.Errorf("%s: error = %v, want ErrCipher", desc, err)
		}
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	t.Parallel()

	plaintext := []byte("attack at dawn, bring snacks")

	enc, err := encryption.NewEncryptTransform(password, int64(len(plaintext)))
	if err != nil {
		t.Fatal(err)
	}

	ciphertext, err := feed(t, enc, plaintext, 64)
	if err != nil {
		t.Fatal(err)
	}

	dec := encryption.NewDecryptTransform([]byte("hunter3"), 0)

	// Without the compression stage a wrong key is only caught when the
	// padding happens to be invalid; either way the plaintext must not leak.
	got, err := feed(t, dec, ciphertext, 64)
	if err != nil && !errors.Is(err, encryption.ErrCipher) {
		t.Fatalf("error = %v, want ErrCipher", err)
	}

	if bytes.Equal(got, plaintext) {
		t.Error("wrong password recovered the plaintext")
	}
}

func TestTransformProgress(t *testing.T) {
	t.Parallel()

	enc, err := encryption.NewEncryptTransform(password, 200)
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1}, // 0.5% rounds up
		{99, 50},
		{100, 100},
		{1, encryption.ProgressUnknown},
	}

	for _, step := range steps {
		if _, err := enc.Step(make([]byte, step.n)); err != nil {
			t.Fatal(err)
		}

		if got := enc.Progress(); got != step.want {
			t.Errorf("after %d bytes Progress() = %d, want %d", enc.Processed(), got, step.want)
		}
	}

	unknown := encryption.NewDecryptTransform(password, 0)
	if got := unknown.Progress(); got != encryption.ProgressUnknown {
		t.Errorf("Progress() without a total = %d", got)
	}
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	if got := encryption.FormatProgress(42); got != "Progress: 42%" {
		t.Errorf("FormatProgress(42) = %q", got)
	}

	if got := encryption.FormatProgress(encryption.ProgressUnknown); got != "Progress: ?%" {
		t.Errorf("FormatProgress(unknown) = %q", got)
	}
}
