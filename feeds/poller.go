package feeds

import (
	"context"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfsrt"
)

// DefaultPollInterval matches the upstream feeds' own update cadence.
const DefaultPollInterval = 30 * time.Second

// Poller re-fetches one feed on a fixed interval for the lifetime of a
// consumer session. Each tick is independent: a failed poll is reported
// to the handler and the next tick proceeds regardless.
type Poller struct {
	service  *Service
	key      string
	interval time.Duration
	handle   func(*gtfsrt.FeedMessage, error)

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPoller creates a poller for one feed key. The handler receives
// either a decoded message or the error for that tick, never both.
// A non-positive interval falls back to DefaultPollInterval.
func NewPoller(service *Service, key string, interval time.Duration, handle func(*gtfsrt.FeedMessage, error)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		service:  service,
		key:      key,
		interval: interval,
		handle:   handle,
		done:     make(chan struct{}),
	}
}

// Start begins polling: one immediate fetch, then one per interval.
// Subsequent calls are no-ops.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		go p.run(ctx)
	})
}

// Stop cancels any in-flight fetch and blocks until the loop has
// exited. After Stop returns, no further fetch is issued.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel == nil {
			// never started
			close(p.done)
			return
		}
		p.cancel()
	})
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	msg, err := p.service.Feed(ctx, p.key)
	if ctx.Err() != nil {
		// stopped mid-fetch; drop the result rather than deliver
		// after Stop
		return
	}
	p.handle(msg, err)
}
