// Package progress defines the milestone reporting capability. Reports
// are fire-and-forget: a failed or closed channel never affects the run.
package progress

import (
	"sync"

	"listmaker/pkg/logger"
)

// Notifier receives human-readable status messages during a run
type Notifier interface {
	Notify(message string)
}

// Recorder collects messages in memory, for tests
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify appends the message to the recording
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of everything recorded so far
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// LogNotifier routes progress messages to the logger, for headless runs
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a logger-backed notifier
func NewLogNotifier(log logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.GetLogger()
	}
	return &LogNotifier{log: log}
}

// Notify logs the message at info level
func (n *LogNotifier) Notify(message string) {
	n.log.Info(message)
}
