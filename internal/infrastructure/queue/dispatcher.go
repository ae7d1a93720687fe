package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/inkpad/inkpad-api/internal/api/metrics"
	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const (
	defaultWorkers     = 2
	defaultBuffer      = 256
	defaultSendTimeout = 10 * time.Second
)

type Config struct {
	Workers     int
	Buffer      int
	SendTimeout time.Duration
}

// Dispatcher hands outgoing mail to a fixed set of workers, sharded on the
// recipient so messages to one address go out in order. Enqueue never blocks
// the request path: a full worker channel drops the message.
type Dispatcher struct {
	workers     []chan domain.MailMessage
	depth       []prometheus.Gauge
	mailer      ports.Mailer
	sendTimeout time.Duration
	log         zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Zero values in cfg fall back to defaults.
func NewDispatcher(cfg Config, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	d := &Dispatcher{
		workers:     make([]chan domain.MailMessage, cfg.Workers),
		depth:       make([]prometheus.Gauge, cfg.Workers),
		mailer:      mailer,
		sendTimeout: cfg.SendTimeout,
		log:         log.With().Str("component", "mail_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.MailMessage, cfg.Buffer)
		d.depth[i] = metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(i))
	}
	return d
}

var _ ports.MailQueue = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close has drained their channels.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands msg to the worker responsible for its recipient. It reports
// false when the queue is full or already closed.
func (d *Dispatcher) Enqueue(msg domain.MailMessage) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	i := d.shardIndex(msg.To)
	select {
	case d.workers[i] <- msg:
		d.depth[i].Inc()
		return true
	default:
		metrics.MailDroppedTotal.Inc()
		d.log.Warn().Int("worker_id", i).Msg("mail queue full, message dropped")
		return false
	}
}

// Close stops accepting mail and waits until the workers have sent what is
// already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(to)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.MailMessage) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			d.depth[id].Dec()
			d.send(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, id int, msg domain.MailMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	timer := prometheus.NewTimer(metrics.MailSendDuration)
	err := d.mailer.Send(sendCtx, msg)
	timer.ObserveDuration()

	if err != nil {
		metrics.MailSentTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Int("worker_id", id).
			Str("subject", msg.Subject).
			Msg("mail delivery failed")
		return
	}
	metrics.MailSentTotal.WithLabelValues("ok").Inc()
}
