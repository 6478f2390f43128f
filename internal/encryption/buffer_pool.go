package encryption

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const defaultBufferSize = 32 * 1024 // 32KB default buffer size

// bufferPool provides a pool of reusable byte slices for file I/O operations.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, defaultBufferSize)
	},
}

// copyChunks copies src to dst one pooled buffer at a time, so that every
// stage downstream sees bounded chunks. It stops early if ctx is done.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf, _ := bufferPool.Get().([]byte) //nolint:errcheck // type is guaranteed by bufferPool.New
	defer bufferPool.Put(buf)           //nolint:staticcheck

	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}

			written += int64(n)
		}

		if readErr == io.EOF {
			return written, nil
		}

		if readErr != nil {
			return written, fmt.Errorf("reading: %w", readErr)
		}
	}
}
