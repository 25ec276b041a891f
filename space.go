package qcircuit

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Result is what a job publishes to the Space.
type Result struct {
	ID        string
	Counts    Counts
	Error     error
	CreatedAt time.Time
	TTL       time.Duration
}

// Space stores job results and hands them to whoever awaits them.
type Space struct {
	mu      sync.Mutex
	values  map[string]Result
	waiting map[string][]chan Result
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewSpace(cleanupInterval time.Duration) *Space {
	qs := &Space{
		values:  make(map[string]Result),
		waiting: make(map[string][]chan Result),
		done:    make(chan struct{}),
	}

	qs.wg.Add(1)
	go func() {
		defer qs.wg.Done()
		qs.cleanup(cleanupInterval)
	}()

	return qs
}

// Store publishes a result and wakes every waiting channel.
func (qs *Space) Store(id string, counts Counts, err error, ttl time.Duration) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if qs.closed {
		return
	}

	result := Result{
		ID:        id,
		Counts:    counts,
		Error:     err,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}
	qs.values[id] = result

	channels := qs.waiting[id]
	for _, ch := range channels {
		// Await channels are buffered for exactly one result.
		ch <- result
		close(ch)
	}
	delete(qs.waiting, id)

	errnie.Info("Space.Store - job %s, outcomes %d, err %v, waiting %d", id, len(counts), err, len(channels))
}

/*
Await returns a channel that receives the result for id once, then closes.
After Close the channel is closed without a value.
*/
func (qs *Space) Await(id string) chan Result {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	ch := make(chan Result, 1)

	if qs.closed {
		close(ch)
		return ch
	}

	if result, ok := qs.values[id]; ok {
		ch <- result
		close(ch)
		return ch
	}

	qs.waiting[id] = append(qs.waiting[id], ch)
	return ch
}

func (qs *Space) cleanup(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-qs.done:
			return
		case <-ticker.C:
			qs.mu.Lock()
			qs.cleanupExpiredValues()
			qs.mu.Unlock()
		}
	}
}

func (qs *Space) cleanupExpiredValues() {
	now := time.Now()
	for id, result := range qs.values {
		if result.TTL > 0 && now.Sub(result.CreatedAt) > result.TTL {
			delete(qs.values, id)
		}
	}
}

// Close stops cleanup and closes every channel still waiting.
func (qs *Space) Close() {
	qs.mu.Lock()
	if qs.closed {
		qs.mu.Unlock()
		return
	}
	qs.closed = true
	for _, channels := range qs.waiting {
		for _, ch := range channels {
			close(ch)
		}
	}
	qs.waiting = nil
	qs.values = nil
	qs.mu.Unlock()

	close(qs.done)
	qs.wg.Wait()
}
