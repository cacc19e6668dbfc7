package services

import (
	"context"
	"log"
	"sync"
	"time"

	repository "task-market.com/task-market/internal/repositories"
)

// PoolService drains the outbox with a fixed set of workers. Events arrive
// through Enqueue right after commit, and a requeue loop picks up whatever
// was missed (full queue, crash between commit and enqueue).
type PoolService struct {
	queue        chan string
	wg           sync.WaitGroup
	requeueWG    sync.WaitGroup
	enqueued     sync.Map
	processor    *OutboxProcessor
	outbox       *repository.OutboxRepository
	pollInterval time.Duration
	batchSize    int
	requeueStop  chan struct{}

	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

func NewPoolService(
	processor *OutboxProcessor,
	outbox *repository.OutboxRepository,
	workers int,
	queueSize int,
	pollInterval time.Duration,
	batchSize int,
) *PoolService {
	p := &PoolService{
		queue:        make(chan string, queueSize),
		processor:    processor,
		outbox:       outbox,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		requeueStop:  make(chan struct{}),
	}

	p.requeueWG.Add(1)
	go p.requeuePendingLoop()

	for i := 1; i <= workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *PoolService) Enqueue(eventID string) bool {
	ok, _ := p.enqueueIfNotPresent(eventID)
	return ok
}

func (p *PoolService) worker(workerID int) {
	defer p.wg.Done()

	log.Printf("worker %d started", workerID)

	for eventID := range p.queue {
		p.handleEvent(workerID, eventID)
	}

	log.Printf("worker %d stopped", workerID)
}

func (p *PoolService) handleEvent(workerID int, eventID string) {
	defer p.untrackEnqueued(eventID)

	if err := p.processor.Process(context.Background(), eventID); err != nil {
		log.Printf("worker %d: outbox event %s failed: %v", workerID, eventID, err)
		return
	}

	log.Printf("worker %d delivered outbox event %s", workerID, eventID)
}

func (p *PoolService) requeuePendingLoop() {
	defer p.requeueWG.Done()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.requeuePendingOnce()
		case <-p.requeueStop:
			return
		}
	}
}

func (p *PoolService) requeuePendingOnce() {
	ctx := context.Background()

	rows, err := p.outbox.ListPending(ctx, p.batchSize, staleClaim)
	if err != nil {
		log.Printf("requeue: failed to list pending outbox events: %v", err)
		return
	}

	for _, row := range rows {
		_, queueFull := p.enqueueIfNotPresent(row.ID)
		if queueFull {
			return
		}
	}
}

func (p *PoolService) enqueueIfNotPresent(eventID string) (bool, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Events refused after shutdown stay pending for the next start.
	if p.closed {
		return false, false
	}
	if !p.trackEnqueued(eventID) {
		return false, false
	}

	select {
	case p.queue <- eventID:
		return true, false
	default:
		p.untrackEnqueued(eventID)
		return false, true
	}
}

func (p *PoolService) trackEnqueued(eventID string) bool {
	_, loaded := p.enqueued.LoadOrStore(eventID, struct{}{})
	return !loaded
}

func (p *PoolService) untrackEnqueued(eventID string) {
	p.enqueued.Delete(eventID)
}

// Shutdown stops the requeue loop and waits for the workers to drain the
// queue. Calling it again only waits.
func (p *PoolService) Shutdown(ctx context.Context) {
	p.stopOnce.Do(func() {
		close(p.requeueStop)
		p.requeueWG.Wait()

		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("outbox pool shut down cleanly")
	case <-ctx.Done():
		log.Println("outbox pool shutdown timed out")
	}
}
