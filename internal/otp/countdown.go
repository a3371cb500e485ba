package otp

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL - 서버 OTP 유효 시간과 같은 5분
const DefaultTTL = 5 * time.Minute

// Countdown - 화면에 표시하는 OTP 유효 시간. 1초마다 줄어들고 0에서 멈춘다.
// 서버 측 동작에는 영향이 없다.
type Countdown struct {
	// Start/Stop 직렬화. tick 처리 중에는 잡지 않는다
	runMu     sync.Mutex
	mu        sync.Mutex
	total     time.Duration
	remaining time.Duration
	tick      time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
	onTick    func(time.Duration)
}

// NewCountdown returns a stopped countdown of ttl.
func NewCountdown(ttl time.Duration) *Countdown {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Countdown{total: ttl, remaining: ttl, tick: time.Second}
}

// OnTick registers fn to be called with the remaining time after each tick.
func (c *Countdown) OnTick(fn func(time.Duration)) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Start runs the countdown until it reaches zero, Stop is called or ctx is
// done. Starting a running countdown restarts it.
func (c *Countdown) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.stop()

	c.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.remaining = c.total
	done := make(chan struct{})
	c.done = done
	tick := c.tick
	c.mu.Unlock()

	go c.run(runCtx, tick, done)
}

// Restart resets the countdown to its full duration and starts it again.
func (c *Countdown) Restart(ctx context.Context) {
	c.Start(ctx)
}

func (c *Countdown) run(ctx context.Context, tick time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			// Stop 이후 도착한 tick은 무시
			if ctx.Err() != nil {
				c.mu.Unlock()
				return
			}
			c.remaining -= time.Second
			if c.remaining < 0 {
				c.remaining = 0
			}
			remaining := c.remaining
			onTick := c.onTick
			c.mu.Unlock()

			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				return
			}
		}
	}
}

// Stop tears the countdown down and waits for its goroutine to exit.
func (c *Countdown) Stop() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.stop()
}

func (c *Countdown) stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Expire stops the countdown and sets it to zero.
func (c *Countdown) Expire() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.stop()
	c.mu.Lock()
	c.remaining = 0
	c.mu.Unlock()
}

func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown reached zero. Resend is allowed
// only then.
func (c *Countdown) Expired() bool {
	return c.Remaining() == 0
}

// Format renders the remaining time as m:ss.
func (c *Countdown) Format() string {
	return FormatDuration(c.Remaining())
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
