// Package notify keeps the transient, severity-tagged notification shown to
// the user. There is at most one current notification; a newer one replaces
// it and it expires after a fixed time.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
)

// DefaultTTL is how long a notification stays current.
const DefaultTTL = 3 * time.Second

type Severity string

const (
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

type Notification struct {
	ID       uint64
	Severity Severity
	Message  string
	At       time.Time
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Severity, n.Message)
}

type Option func(*Center)

// WithWriter echoes every notification to w as it is raised.
func WithWriter(w io.Writer) Option {
	return func(c *Center) { c.out = w }
}

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// Center holds the current notification. It is safe for concurrent use.
type Center struct {
	ttl time.Duration
	now func() time.Time
	out io.Writer

	mu      sync.Mutex
	seq     uint64
	current *Notification
}

// NewCenter returns a Center whose notifications last ttl. A ttl <= 0 means
// DefaultTTL.
func NewCenter(ttl time.Duration, opts ...Option) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Center{ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Center) raise(sev Severity, msg string) Notification {
	c.mu.Lock()
	c.seq++
	n := Notification{ID: c.seq, Severity: sev, Message: msg, At: c.now()}
	c.current = &n
	out := c.out
	c.mu.Unlock()

	if out != nil {
		fmt.Fprintln(out, n.String())
	}
	return n
}

func (c *Center) Success(msg string) Notification { return c.raise(Success, msg) }

func (c *Center) Warning(msg string) Notification { return c.raise(Warning, msg) }

// Error shows the normalized message of err. A nil err raises nothing.
func (c *Center) Error(err error) (Notification, bool) {
	if err == nil {
		return Notification{}, false
	}
	msg := client.Message(err)
	if msg == "" {
		msg = client.FallbackMessage
	}
	return c.raise(Error, msg), true
}

// Current returns the notification still on screen, if any.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	if c.now().Sub(c.current.At) >= c.ttl {
		c.current = nil
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss removes the current notification early.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
