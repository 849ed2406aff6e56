// Package queue moves moderation verdict cache writes off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 2 * time.Second
)

// Store is the cache the dispatcher writes through to.
type Store interface {
	Get(ctx context.Context, digest string) (string, bool, error)
	Set(ctx context.Context, digest, cleaned string) error
}

type entry struct {
	digest  string
	cleaned string
}

// Dispatcher is a write-behind Store. Reads go straight to the backing store;
// writes are handed to a fixed set of workers sharded by digest, so writes
// for the same text are applied in order.
type Dispatcher struct {
	workers []chan entry
	store   Store
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store Store, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan entry, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan entry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) Get(ctx context.Context, digest string) (string, bool, error) {
	return d.store.Get(ctx, digest)
}

// Set enqueues the write and returns immediately. A full shard drops the
// write; the verdict is simply fetched again on the next miss.
func (d *Dispatcher) Set(_ context.Context, digest, cleaned string) error {
	select {
	case d.workers[d.shardIndex(digest)] <- entry{digest: digest, cleaned: cleaned}:
	default:
		metrics.ModerationCacheTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("digest", digest).Msg("verdict cache queue full, dropping write")
	}
	return nil
}

// shardIndex maps a digest deterministically to a worker index.
func (d *Dispatcher) shardIndex(digest string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(digest))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan entry) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-ch:
			wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
			if err := d.store.Set(wctx, e.digest, e.cleaned); err != nil {
				d.log.Warn().Err(err).
					Str("digest", e.digest).
					Int("worker_id", id).
					Msg("verdict cache store failed")
			}
			cancel()
		}
	}
}
