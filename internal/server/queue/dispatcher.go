package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

const (
	DefaultPollInterval = time.Second
	// drainLimit caps the jobs one tick processes so a flood on one queue
	// cannot starve the tick schedule.
	drainLimit = 100
)

// Dispatcher runs queue handlers on a fixed tick. Each queue gets its own
// gocron job in singleton mode, so ticks of one queue never overlap.
type Dispatcher struct {
	broker    *Broker
	interval  time.Duration
	log       logging.Logger
	scheduler *gocron.Scheduler

	mu       sync.Mutex
	handlers map[models.QueueName]Handler
}

func NewDispatcher(b *Broker, interval time.Duration, log logging.Logger) *Dispatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Dispatcher{
		broker:    b,
		interval:  interval,
		log:       logging.ForModule(log, "dispatcher"),
		scheduler: gocron.NewScheduler(time.UTC),
		handlers:  make(map[models.QueueName]Handler),
	}
}

// Handle registers h for queue name, replacing any previous handler.
func (d *Dispatcher) Handle(name models.QueueName, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

func (d *Dispatcher) handler(name models.QueueName) (Handler, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, ok := d.handlers[name]
	return h, ok
}

// Drain processes due jobs of one queue until none is due or the per-tick
// limit is hit. It returns how many jobs ran.
func (d *Dispatcher) Drain(ctx context.Context, name models.QueueName) (int, error) {
	q, err := d.broker.Lookup(name)
	if err != nil {
		return 0, err
	}
	h, ok := d.handler(name)
	if !ok {
		return 0, fmt.Errorf("no handler for queue %q", name)
	}

	n := 0
	for n < drainLimit {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		ran, err := q.Process(ctx, h)
		if err != nil {
			return n, err
		}
		if !ran {
			break
		}
		n++
	}
	return n, nil
}

// Start schedules a tick per registered queue and returns immediately. Ticks
// stop when ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	names := make([]models.QueueName, 0, len(d.handlers))
	for _, name := range Queues {
		if _, ok := d.handlers[name]; ok {
			names = append(names, name)
		}
	}
	d.mu.Unlock()

	for _, name := range names {
		name := name
		_, err := d.scheduler.Every(d.interval).SingletonMode().Tag(string(name)).Do(func() {
			n, err := d.Drain(ctx, name)
			if err != nil && ctx.Err() == nil {
				d.log.Error(ctx, "queue drain failed", "queue", string(name), "error", err)
			}
			if n > 0 {
				d.log.Debug(ctx, "queue drained", "queue", string(name), "jobs", n)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule %s dispatcher: %w", name, err)
		}
	}

	d.scheduler.StartAsync()
	d.log.Info(ctx, "dispatcher started", "queues", len(names), "interval", d.interval.String())
	return nil
}

// Stop halts all ticks and waits for running ones to return.
func (d *Dispatcher) Stop() {
	d.scheduler.Stop()
}
