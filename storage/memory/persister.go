package memory

import (
	"context"
	"errors"
	"sync"

	"rideshare/pkg/logger"
	"rideshare/storage"
)

// persister writes collection snapshots to the blob store in the background.
// Only the newest snapshot per key is kept, so a slow backend never sees
// stale data written after fresh data.
type persister struct {
	blob storage.IBlobStorage
	log  logger.ILogger

	mu      sync.Mutex
	pending map[string][]byte

	writing sync.Mutex
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

func newPersister(blob storage.IBlobStorage, log logger.ILogger) *persister {
	p := &persister{
		blob:    blob,
		log:     log,
		pending: make(map[string][]byte),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) enqueue(key string, data []byte) {
	p.mu.Lock()
	p.pending[key] = data
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			_ = p.drain(context.Background())
		case <-p.stop:
			return
		}
	}
}

// drain saves everything pending. Failed keys are put back unless a newer
// snapshot arrived meanwhile.
func (p *persister) drain(ctx context.Context) error {
	p.writing.Lock()
	defer p.writing.Unlock()

	p.mu.Lock()
	batch := p.pending
	p.pending = make(map[string][]byte)
	p.mu.Unlock()

	var errs []error
	for _, key := range storage.Keys {
		data, ok := batch[key]
		if !ok {
			continue
		}
		if err := p.blob.Save(ctx, key, data); err != nil {
			p.log.Error("failed to persist snapshot", logger.String("key", key), logger.Error(err))
			errs = append(errs, err)

			p.mu.Lock()
			if _, newer := p.pending[key]; !newer {
				p.pending[key] = data
			}
			p.mu.Unlock()
			continue
		}
		p.log.Debug("snapshot persisted", logger.String("key", key), logger.Int("bytes", len(data)))
	}
	return errors.Join(errs...)
}

func (p *persister) close() error {
	close(p.stop)
	<-p.done
	return p.drain(context.Background())
}
