package encryption

import (
	"github.com/idelchi/secfile/internal/config"
	"github.com/idelchi/secfile/internal/naming"
)

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Mode applied to the input
	Mode config.Mode

	// Tier of the encoded name, for encryption
	Tier naming.Tier

	// Deleted is set when the input was removed afterwards
	Deleted bool

	// Any error that occurred during processing
	Error error
}
