package encryption

import "fmt"

// Observer receives side-channel notifications from a running job.
// Implementations must not influence control flow.
type Observer interface {
	// Progress reports the percentage of the current file processed,
	// or ProgressUnknown.
	Progress(label string, percent int)
	// Notify reports a one-off message about the current file.
	Notify(label, message string)
}

// NopObserver discards all notifications.
type NopObserver struct{}

// Progress implements Observer.
func (NopObserver) Progress(string, int) {}

// Notify implements Observer.
func (NopObserver) Notify(string, string) {}

// FormatProgress renders a percentage the way progress lines are printed.
func FormatProgress(percent int) string {
	if percent == ProgressUnknown {
		return "Progress: ?%"
	}

	return fmt.Sprintf("Progress: %d%%", percent)
}
