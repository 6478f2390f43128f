// Package progress provides encryption.Observer implementations for the CLI.
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/idelchi/secfile/internal/encryption"
)

// Bar renders one progress bar per file.
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	bar   *progressbar.ProgressBar
}

// NewBar returns a Bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Progress implements encryption.Observer.
func (b *Bar) Progress(label string, percent int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bar := b.barFor(label)

	if percent == encryption.ProgressUnknown {
		bar.Describe(label + " (?)")

		return
	}

	_ = bar.Set(percent) //nolint:errcheck // rendering errors are not actionable
}

// Notify implements encryption.Observer. A finished message completes the bar.
func (b *Bar) Notify(label, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !isFinished(message) {
		return
	}

	if b.bar != nil && b.label == label {
		_ = b.bar.Finish() //nolint:errcheck // rendering errors are not actionable

		b.bar = nil
	}
}

// barFor returns the bar of label, replacing the bar of a previous file.
func (b *Bar) barFor(label string) *progressbar.ProgressBar {
	if b.bar != nil && b.label == label {
		return b.bar
	}

	if b.bar != nil {
		_ = b.bar.Finish() //nolint:errcheck // rendering errors are not actionable
	}

	const percent = 100

	b.label = label
	b.bar = progressbar.NewOptions(percent,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionThrottle(100*time.Millisecond), //nolint:mnd
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.w, "\n") }),
	)

	return b.bar
}

// Log reports progress through a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a Log observer.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

// Progress implements encryption.Observer.
func (l *Log) Progress(label string, percent int) {
	l.logger.Debug(encryption.FormatProgress(percent), zap.String("file", label))
}

// Notify implements encryption.Observer.
func (l *Log) Notify(label, message string) {
	l.logger.Info(message, zap.String("file", label))
}

// Multi fans notifications out to several observers.
type Multi []encryption.Observer

// Progress implements encryption.Observer.
func (m Multi) Progress(label string, percent int) {
	for _, o := range m {
		o.Progress(label, percent)
	}
}

// Notify implements encryption.Observer.
func (m Multi) Notify(label, message string) {
	for _, o := range m {
		o.Notify(label, message)
	}
}

func isFinished(message string) bool {
	return message == encryption.Encrypt.String()+" finished!" ||
		message == encryption.Decrypt.String()+" finished!"
}
