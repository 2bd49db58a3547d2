package assessment

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ExpiryRedirectDelay is the pause between the auto-submit and leaving the test.
const ExpiryRedirectDelay = 500 * time.Millisecond

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

const (
	warningPercent  = 100.0 / 6
	criticalPercent = 100.0 / 12
)

// UrgencyFor maps the percentage of time remaining to a display urgency.
func UrgencyFor(percent float64) Urgency {
	switch {
	case percent < criticalPercent:
		return UrgencyCritical
	case percent < warningPercent:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// FormatTime renders seconds as zero-padded MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

type TimerState struct {
	TotalSeconds     int     `json:"total_seconds"`
	RemainingSeconds int     `json:"remaining_seconds"`
	FormattedTime    string  `json:"formatted_time"`
	Percentage       float64 `json:"percentage"`
	Urgency          Urgency `json:"urgency"`
	Expired          bool    `json:"expired"`
	Submitting       bool    `json:"submitting"`
}

// Timer is a per-session countdown. It fires onExpire at most once when the
// countdown reaches zero, unless the session was marked submitted first.
type Timer struct {
	mu         sync.Mutex
	total      int
	remaining  int
	expired    bool
	submitting bool
	submitted  bool

	expireOnce    sync.Once
	onExpire      func() error
	onRedirect    func()
	redirectDelay time.Duration
}

func NewTimer(durationMinutes int, onExpire func() error, onRedirect func()) *Timer {
	total := durationMinutes * 60
	return newTimerSeconds(total, total, onExpire, onRedirect)
}

func newTimerSeconds(total, remaining int, onExpire func() error, onRedirect func()) *Timer {
	if onExpire == nil {
		onExpire = func() error { return nil }
	}
	if onRedirect == nil {
		onRedirect = func() {}
	}
	return &Timer{
		total:         total,
		remaining:     min(max(remaining, 0), total),
		onExpire:      onExpire,
		onRedirect:    onRedirect,
		redirectDelay: ExpiryRedirectDelay,
	}
}

// Tick advances the countdown by one second and reports whether the timer is
// still running. Reaching zero runs the expiry path synchronously.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if t.submitted || t.expired {
		t.mu.Unlock()
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	done := t.remaining == 0
	t.mu.Unlock()

	if done {
		t.expire()
		return false
	}
	return true
}

func (t *Timer) expire() {
	t.expireOnce.Do(func() {
		t.mu.Lock()
		if t.submitted {
			t.mu.Unlock()
			return
		}
		t.expired = true
		t.submitting = true
		t.mu.Unlock()

		_ = t.onExpire()

		t.mu.Lock()
		t.submitting = false
		t.mu.Unlock()
		time.AfterFunc(t.redirectDelay, t.onRedirect)
	})
}

// MarkSubmitted stops the countdown; expiry will not fire afterwards.
func (t *Timer) MarkSubmitted() {
	t.mu.Lock()
	t.submitted = true
	t.mu.Unlock()
}

// Run ticks once per second until the timer stops or ctx is done. onTick is
// called after every tick.
func (t *Timer) Run(ctx context.Context, onTick func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			running := t.Tick()
			if onTick != nil {
				onTick()
			}
			if !running {
				return
			}
		}
	}
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	pct := 0.0
	if t.total > 0 {
		pct = float64(t.remaining) / float64(t.total) * 100
	}
	return TimerState{
		TotalSeconds:     t.total,
		RemainingSeconds: t.remaining,
		FormattedTime:    FormatTime(t.remaining),
		Percentage:       pct,
		Urgency:          UrgencyFor(pct),
		Expired:          t.expired,
		Submitting:       t.submitting,
	}
}
