// Package alert carries the user-facing signals the data layer raises: the
// transient status banner and the "data loaded" notification.
package alert

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Banner is a transient status message. onAcknowledge runs when the user taps
// the banner and may be nil.
type Banner interface {
	Show(message string, duration time.Duration, success bool, onAcknowledge func())
	Hide()
	IsDisplaying() bool
}

// LogBanner renders banners as log lines and keeps the pending acknowledgement
// so a terminal front end can trigger it.
type LogBanner struct {
	log zerolog.Logger
	now func() time.Time

	mu      sync.Mutex
	message string
	success bool
	until   time.Time
	onAck   func()
	shown   int
}

var _ Banner = (*LogBanner)(nil)

// NewLogBanner returns a banner that logs through log.
func NewLogBanner(log zerolog.Logger) *LogBanner {
	return &LogBanner{log: log, now: time.Now}
}

func (b *LogBanner) Show(message string, duration time.Duration, success bool, onAcknowledge func()) {
	b.mu.Lock()
	b.message = message
	b.success = success
	b.until = b.now().Add(duration)
	b.onAck = onAcknowledge
	b.shown++
	b.mu.Unlock()

	ev := b.log.Info()
	if !success {
		ev = b.log.Warn()
	}
	ev.Str("banner", message).Dur("duration", duration).Bool("retry", onAcknowledge != nil).Msg("banner shown")
}

func (b *LogBanner) Hide() {
	b.mu.Lock()
	wasShowing := b.message != ""
	b.message, b.onAck, b.until = "", nil, time.Time{}
	b.mu.Unlock()
	if wasShowing {
		b.log.Debug().Msg("banner hidden")
	}
}

// IsDisplaying reports whether a banner is shown and its duration has not elapsed.
func (b *LogBanner) IsDisplaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message != "" && b.now().Before(b.until)
}

// Message returns the text of the last banner that has not been hidden.
func (b *LogBanner) Message() (message string, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message, b.success
}

// ShownCount returns how many banners were shown.
func (b *LogBanner) ShownCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shown
}

// Acknowledge hides the banner and runs its acknowledgement. It reports
// whether there was one to run.
func (b *LogBanner) Acknowledge() bool {
	b.mu.Lock()
	fn := b.onAck
	b.message, b.onAck, b.until = "", nil, time.Time{}
	b.mu.Unlock()

	if fn == nil {
		return false
	}
	b.log.Info().Msg("banner acknowledged")
	fn()
	return true
}
