package encryption

import (
	"fmt"
	"io"
)

// transformWriter wraps an io.Writer, passing every write through a Transform
// and reporting progress per chunk.
type transformWriter struct {
	w         io.Writer
	transform *Transform
	observer  Observer
	label     string
}

// newTransformWriter creates a writer that feeds the transform and writes its output to w.
func newTransformWriter(w io.Writer, transform *Transform, observer Observer, label string) *transformWriter {
	return &transformWriter{
		w:         w,
		transform: transform,
		observer:  observer,
		label:     label,
	}
}

// Write implements io.Writer.
func (tw *transformWriter) Write(data []byte) (int, error) {
	out, err := tw.transform.Step(data)
	if err != nil {
		return 0, err
	}

	if len(out) > 0 {
		if _, err := tw.w.Write(out); err != nil {
			return 0, fmt.Errorf("writing %s output: %w", tw.transform.Direction(), err)
		}
	}

	tw.observer.Progress(tw.label, tw.transform.Progress())

	return len(data), nil
}

// Close flushes the final block and discards the key material.
// The underlying writer is not closed.
func (tw *transformWriter) Close() error {
	defer tw.transform.Close()

	out, err := tw.transform.Flush()
	if err != nil {
		return err
	}

	if _, err := tw.w.Write(out); err != nil {
		return fmt.Errorf("writing final %s block: %w", tw.transform.Direction(), err)
	}

	tw.observer.Notify(tw.label, tw.transform.Direction().String()+" flush!")
	tw.observer.Notify(tw.label, tw.transform.Direction().String()+" finished!")

	return nil
}
