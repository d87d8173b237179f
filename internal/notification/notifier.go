package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/reservaspro/reservaspro/internal/observability/metrics"
	"github.com/reservaspro/reservaspro/internal/providers/email"
	"go.uber.org/zap"
)

// ErrQueueFull is reported to the failure counter when a message is dropped.
var ErrQueueFull = errors.New("notification_queue_full")

// Message is one templated email to a single recipient.
type Message struct {
	OrgID    string
	To       string
	Template string
	Data     map[string]any
}

// Notifier sends messages without blocking or failing the caller.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

type Config struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{Workers: 2, QueueSize: 256, SendTimeout: 15 * time.Second}
}

// Dispatcher queues messages and delivers them from a fixed worker pool.
// Delivery errors are logged and counted, never returned.
type Dispatcher struct {
	provider email.Provider
	log      *zap.Logger
	metrics  *metrics.Metrics
	cfg      Config

	queue chan Message
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(provider email.Provider, log *zap.Logger, m *metrics.Metrics, cfg Config) *Dispatcher {
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaults.SendTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		provider: provider,
		log:      log.Named("notification"),
		metrics:  m,
		cfg:      cfg,
		queue:    make(chan Message, cfg.QueueSize),
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Close stops intake and waits for queued messages to be delivered or ctx
// to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.fail(ctx, msg, errors.New("notifier closed"))
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.fail(ctx, msg, ErrQueueFull)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	if err := d.provider.SendTemplate(ctx, []string{msg.To}, msg.Template, msg.Data); err != nil {
		d.fail(ctx, msg, err)
		return
	}
	d.log.Debug("notification sent",
		zap.String("org_id", msg.OrgID),
		zap.String("template", msg.Template),
		zap.String("provider", d.provider.Name()),
	)
}

func (d *Dispatcher) fail(ctx context.Context, msg Message, err error) {
	d.metrics.RecordNotificationFailure(ctx, d.provider.Name(), msg.Template)
	d.log.Warn("notification failed",
		zap.String("org_id", msg.OrgID),
		zap.String("template", msg.Template),
		zap.String("provider", d.provider.Name()),
		zap.Error(err),
	)
}
