package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultMaxPause caps how long an unacknowledged prompt holds the
// tracking loop.
const DefaultMaxPause = 2 * time.Minute

// PromptNotifier prints notifications to a terminal and waits for the
// operator to press Enter. The wait is bounded: after maxPause the
// notifier resumes on its own, so an unattended station keeps tracking.
type PromptNotifier struct {
	r        io.Reader
	w        io.Writer
	maxPause time.Duration

	once sync.Once
	acks chan struct{}
}

var _ Notifier = (*PromptNotifier)(nil)

// NewPrompt returns a Notifier prompting on w and reading
// acknowledgements from r, typically stdout and stdin.
func NewPrompt(r io.Reader, w io.Writer, maxPause time.Duration) *PromptNotifier {
	if maxPause <= 0 {
		maxPause = DefaultMaxPause
	}
	return &PromptNotifier{
		r:        r,
		w:        w,
		maxPause: maxPause,
		acks:     make(chan struct{}, 1),
	}
}

// Notify prints the notification and blocks until the operator
// acknowledges it, the pause limit passes, or ctx is cancelled.
func (p *PromptNotifier) Notify(ctx context.Context, n Notification) error {
	// Discard an acknowledgement typed before this notification.
	select {
	case <-p.acks:
	default:
	}

	p.once.Do(func() {
		go p.readAcks()
	})

	fmt.Fprintf(p.w, "\n[%s] %s: %s\n", n.Severity, n.Title, n.Message)
	fmt.Fprintf(p.w, "press Enter to resume (automatic after %s)\n", p.maxPause)

	timer := time.NewTimer(p.maxPause)
	defer timer.Stop()

	select {
	case <-p.acks:
		return nil
	case <-timer.C:
		fmt.Fprintln(p.w, "resuming")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readAcks forwards one token per input line. Reads on a terminal
// cannot be cancelled, so the goroutine runs for the notifier's
// lifetime and extra lines are dropped.
func (p *PromptNotifier) readAcks() {
	scanner := bufio.NewScanner(p.r)
	for scanner.Scan() {
		select {
		case p.acks <- struct{}{}:
		default:
		}
	}
}
