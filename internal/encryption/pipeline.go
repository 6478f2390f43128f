package encryption

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/sync/errgroup"
)

// encryptStream runs read → compress → encrypt → write.
// total is the plaintext size, used as the progress estimate.
func (p *Processor) encryptStream(ctx context.Context, reader io.Reader, writer io.Writer, label string, total int64) error {
	transform, err := NewEncryptTransform(p.password, total)
	if err != nil {
		return err
	}

	pipeReader, pipeWriter := io.Pipe()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		compressor := zlib.NewWriter(pipeWriter)

		_, err := copyChunks(ctx, compressor, reader)
		if err != nil {
			err = fmt.Errorf("compressing input: %w", err)
		} else if err = compressor.Close(); err != nil {
			err = fmt.Errorf("flushing compressor: %w", err)
		}

		pipeWriter.CloseWithError(err)

		return err
	})

	group.Go(func() error {
		encryptor := newTransformWriter(writer, transform, p.observer, label)

		_, err := copyChunks(ctx, encryptor, pipeReader)
		if err == nil {
			err = encryptor.Close()
		} else {
			transform.Close()
		}

		pipeReader.CloseWithError(err)

		return err
	})

	return group.Wait()
}

// decryptStream runs read → decrypt → decompress → write.
// total is the ciphertext size without the IV, used as the progress estimate.
func (p *Processor) decryptStream(ctx context.Context, reader io.Reader, writer io.Writer, label string, total int64) error {
	transform := NewDecryptTransform(p.password, total)

	pipeReader, pipeWriter := io.Pipe()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		decryptor := newTransformWriter(pipeWriter, transform, p.observer, label)

		_, err := copyChunks(ctx, decryptor, reader)
		if err == nil {
			err = decryptor.Close()
		} else {
			transform.Close()
		}

		pipeWriter.CloseWithError(err)

		return err
	})

	group.Go(func() error {
		err := decompress(ctx, writer, pipeReader)

		if err == nil {
			// Let the decryptor finish writing anything past the zlib stream.
			_, err = io.Copy(io.Discard, pipeReader)
		}

		pipeReader.CloseWithError(err)

		return err
	})

	return group.Wait()
}

func decompress(ctx context.Context, writer io.Writer, reader io.Reader) error {
	decompressor, err := zlib.NewReader(reader)
	if err != nil {
		return classifyDecompress(fmt.Errorf("opening decompressor: %w", err))
	}
	defer decompressor.Close()

	if _, err := copyChunks(ctx, writer, decompressor); err != nil {
		return classifyDecompress(fmt.Errorf("decompressing: %w", err))
	}

	return nil
}

// classifyDecompress reports malformed compressed data as ErrCipher, since
// it is what a wrong password or corrupted ciphertext produces.
// Errors coming from the decryptor pass through unchanged.
func classifyDecompress(err error) error {
	var corrupt flate.CorruptInputError

	switch {
	case errors.Is(err, ErrCipher):
		return err
	case errors.Is(err, zlib.ErrHeader),
		errors.Is(err, zlib.ErrChecksum),
		errors.Is(err, zlib.ErrDictionary),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &corrupt):
		return fmt.Errorf("%w: %w", ErrCipher, err)
	default:
		return err
	}
}
