// Package notice holds the short-lived status messages shown after a save,
// delete or failed request.
package notice

import (
	"sync"
	"time"
)

// Kind selects how a notice is rendered.
type Kind int

const (
	Info Kind = iota
	Success
	Failure
)

// Notice is one transient message.
type Notice struct {
	Seq     int
	Kind    Kind
	Text    string
	Expires time.Time
}

// Board keeps the latest notice until its delay runs out. A new notice
// replaces the previous one.
type Board struct {
	mu    sync.Mutex
	delay time.Duration
	now   func() time.Time
	cur   *Notice
	seq   int
}

// NewBoard returns a Board whose notices live for delay.
func NewBoard(delay time.Duration) *Board {
	return &Board{delay: delay, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (b *Board) WithClock(now func() time.Time) *Board {
	b.now = now
	return b
}

// Delay reports how long notices stay visible.
func (b *Board) Delay() time.Duration { return b.delay }

// Post replaces the current notice and returns its sequence number, which
// Clear uses to avoid dropping a newer notice.
func (b *Board) Post(kind Kind, text string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.cur = &Notice{Seq: b.seq, Kind: kind, Text: text, Expires: b.now().Add(b.delay)}
	return b.seq
}

// Current returns the live notice, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cur == nil || !b.now().Before(b.cur.Expires) {
		return Notice{}, false
	}
	return *b.cur, true
}

// Clear removes the notice posted as seq. Later notices are kept.
func (b *Board) Clear(seq int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seq == b.seq {
		b.cur = nil
	}
}
