// Package outbox entrega notificaciones fuera del request: cola acotada,
// pool de workers, rate limit y reintentos con backoff. Los fallos se
// loguean y se cuentan; nunca vuelven al caller.
package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/notify"
)

var ErrClosed = errors.New("outbox: dispatcher closed")

type Options struct {
	Workers     int
	QueueSize   int
	RatePerSec  float64 // <= 0 = sin límite
	MaxAttempts int
	BaseBackoff time.Duration
	SendTimeout time.Duration

	Logger logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 500 * time.Millisecond
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

type job struct {
	msg notify.Message
	log logger.Logger
}

type Dispatcher struct {
	gw      notify.Gateway
	opts    Options
	limiter *rate.Limiter

	queue chan job

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

var _ notify.Queue = (*Dispatcher)(nil)

// New arranca los workers. Hay que llamar Close para drenar la cola.
func New(gw notify.Gateway, opts Options) *Dispatcher {
	opts = opts.withDefaults()

	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		gw:      gw,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.Workers),
		queue:   make(chan job, opts.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		group:   &errgroup.Group{},
	}

	for i := 0; i < opts.Workers; i++ {
		d.group.Go(d.work)
	}
	return d
}

// Enqueue no bloquea: si la cola está llena o cerrada el mensaje se descarta (y se loguea).
func (d *Dispatcher) Enqueue(ctx context.Context, msgs ...notify.Message) {
	log := logger.FromContext(ctx, d.opts.Logger)

	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, m := range msgs {
		fields := map[string]any{"kind": string(m.Kind), "application_id": m.Snapshot.ApplicationID}

		if m.To == "" {
			metrics.RecordNotification(string(m.Kind), "dropped")
			log.Warn("notification skipped: no recipient address", fields)
			continue
		}
		if d.closed {
			metrics.RecordNotification(string(m.Kind), "dropped")
			log.Warn("notification dropped: dispatcher closed", fields)
			continue
		}

		select {
		case d.queue <- job{msg: m, log: log}:
		default:
			metrics.RecordNotification(string(m.Kind), "dropped")
			log.Error("notification dropped: queue full", fields)
		}
	}
	metrics.SetQueueDepth(len(d.queue))
}

// Close deja de aceptar mensajes y espera a que se entregue lo encolado.
// Si ctx vence antes, aborta los envíos en curso.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- d.group.Wait() }()

	select {
	case err := <-done:
		d.cancel()
		return err
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) work() error {
	for j := range d.queue {
		metrics.SetQueueDepth(len(d.queue))
		d.deliver(j)
	}
	return nil
}

func (d *Dispatcher) deliver(j job) {
	kind := string(j.msg.Kind)
	fields := map[string]any{
		"kind":           kind,
		"application_id": j.msg.Snapshot.ApplicationID,
	}

	for attempt := 1; ; attempt++ {
		if err := d.limiter.Wait(d.ctx); err != nil {
			metrics.RecordNotification(kind, "failed")
			j.log.Error("notification aborted", withErr(fields, err, attempt))
			return
		}

		err := d.send(j.msg)
		if err == nil {
			metrics.RecordNotification(kind, "sent")
			j.log.Debug("notification sent", withAttempt(fields, attempt))
			return
		}

		if notify.IsPermanent(err) || attempt >= d.opts.MaxAttempts {
			metrics.RecordNotification(kind, "failed")
			j.log.Error("notification failed", withErr(fields, err, attempt))
			return
		}

		metrics.RecordNotification(kind, "retried")
		j.log.Warn("notification send failed, retrying", withErr(fields, err, attempt))

		if !d.sleep(backoff(d.opts.BaseBackoff, attempt)) {
			metrics.RecordNotification(kind, "failed")
			j.log.Error("notification aborted during backoff", withErr(fields, err, attempt))
			return
		}
	}
}

func (d *Dispatcher) send(m notify.Message) error {
	ctx, cancel := context.WithTimeout(d.ctx, d.opts.SendTimeout)
	defer cancel()

	start := time.Now()
	err := notify.Deliver(ctx, d.gw, m)
	metrics.ObserveSend(string(m.Kind), time.Since(start).Seconds())
	return err
}

func (d *Dispatcher) sleep(wait time.Duration) bool {
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-d.ctx.Done():
		return false
	}
}

// backoff exponencial: base, 2*base, 4*base... con techo de 30s.
func backoff(base time.Duration, attempt int) time.Duration {
	const ceiling = 30 * time.Second
	wait := base
	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= ceiling {
			return ceiling
		}
	}
	return wait
}

func withAttempt(fields map[string]any, attempt int) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["attempt"] = attempt
	return out
}

func withErr(fields map[string]any, err error, attempt int) map[string]any {
	out := withAttempt(fields, attempt)
	out["err"] = err
	return out
}
